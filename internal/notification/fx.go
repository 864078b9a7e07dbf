package notification

import (
	"github.com/smallbiznis/nasiya/internal/notification/repository"
	"github.com/smallbiznis/nasiya/internal/notification/service"
	"go.uber.org/fx"
)

var Module = fx.Module("notification.service",
	fx.Provide(repository.Provide),
	fx.Provide(
		fx.Annotate(
			service.NewTelegramChannel,
			fx.ResultTags(`group:"notification.channels"`),
		),
	),
	fx.Provide(service.New),
)
