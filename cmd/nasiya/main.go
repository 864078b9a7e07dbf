package main

import (
	"github.com/smallbiznis/nasiya/internal/clock"
	"github.com/smallbiznis/nasiya/internal/config"
	"github.com/smallbiznis/nasiya/internal/migration"
	"github.com/smallbiznis/nasiya/internal/observability"
	"github.com/smallbiznis/nasiya/internal/scheduler"
	"github.com/smallbiznis/nasiya/internal/server"
	"github.com/smallbiznis/nasiya/pkg/db"
	"go.uber.org/fx"
)

// nasiya runs the HTTP API and the in-process scheduler loop together.
func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		observability.FxLogger,
		db.Module,
		clock.Module,
		migration.Module,

		// Functional Domains
		server.Domains,
		server.Module,
		scheduler.Module,
		scheduler.LoopModule,
	)
	app.Run()
}
