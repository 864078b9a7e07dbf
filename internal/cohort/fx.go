package cohort

import (
	"github.com/smallbiznis/nasiya/internal/cohort/service"
	"go.uber.org/fx"
)

var Module = fx.Module("cohort.service",
	fx.Provide(service.New),
)
