package main

import (
	"github.com/smallbiznis/nasiya/internal/clock"
	"github.com/smallbiznis/nasiya/internal/config"
	"github.com/smallbiznis/nasiya/internal/migration"
	"github.com/smallbiznis/nasiya/internal/observability"
	"github.com/smallbiznis/nasiya/internal/server"
	"github.com/smallbiznis/nasiya/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		observability.FxLogger,
		db.Module,
		clock.Module,
		migration.Module,

		server.Domains,
		server.Module,
	)
	app.Run()
}
