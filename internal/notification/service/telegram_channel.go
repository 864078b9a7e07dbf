package service

import (
	"context"
	"fmt"

	"github.com/smallbiznis/nasiya/internal/config"
	"github.com/smallbiznis/nasiya/internal/notification/domain"
	"github.com/smallbiznis/nasiya/internal/providers/telegram"
)

// TelegramChannel forwards notifications to a single operator chat.
type TelegramChannel struct {
	provider telegram.Provider
	chatID   int64
}

func NewTelegramChannel(provider telegram.Provider, cfg config.Config) domain.Channel {
	return &TelegramChannel{provider: provider, chatID: cfg.TelegramChatID}
}

func (c *TelegramChannel) Name() string { return "telegram" }

func (c *TelegramChannel) Deliver(ctx context.Context, n domain.Notification) error {
	if c.provider == nil || !c.provider.Enabled() {
		return nil
	}
	return c.provider.PostMessage(ctx, c.chatID, fmt.Sprintf("%s\n%s", n.Title, n.Message))
}
