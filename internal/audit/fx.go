package audit

import (
	"github.com/smallbiznis/nasiya/internal/audit/repository"
	"github.com/smallbiznis/nasiya/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
