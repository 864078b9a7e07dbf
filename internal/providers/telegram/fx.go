package telegram

import (
	"github.com/smallbiznis/nasiya/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.telegram",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config) Provider {
	if cfg.TelegramBotToken == "" {
		return &NoOpProvider{}
	}
	return NewBot(Config{Token: cfg.TelegramBotToken})
}
