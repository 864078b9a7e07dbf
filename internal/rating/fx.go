package rating

import (
	"github.com/smallbiznis/nasiya/internal/rating/engine"
	"github.com/smallbiznis/nasiya/internal/rating/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rating.service",
	fx.Provide(engine.DefaultRegistry),
	fx.Provide(service.NewService),
)
