package settings

import (
	"github.com/smallbiznis/nasiya/internal/cache"
	"github.com/smallbiznis/nasiya/internal/settings/domain"
	"github.com/smallbiznis/nasiya/internal/settings/service"
	"github.com/smallbiznis/nasiya/pkg/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("settings.service",
	fx.Provide(repository.ProvideStore[domain.Setting]),
	fx.Provide(cache.NewSettingsCache),
	fx.Provide(service.New),
	fx.Provide(func(svc domain.Service) domain.LimitProvider { return svc }),
)
