package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/smallbiznis/nasiya/internal/clock"
	"github.com/smallbiznis/nasiya/internal/config"
	"github.com/smallbiznis/nasiya/internal/migration"
	"github.com/smallbiznis/nasiya/internal/observability"
	"github.com/smallbiznis/nasiya/internal/scheduler"
	"github.com/smallbiznis/nasiya/internal/server"
	"github.com/smallbiznis/nasiya/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	once := flag.Bool("once", false, "run the enabled jobs a single time and exit")
	job := flag.String("job", "", "run one job by name and exit")
	flag.Parse()

	options := []fx.Option{
		config.Module,
		observability.Module,
		observability.FxLogger,
		db.Module,
		clock.Module,
		migration.Module,

		server.Domains,
		scheduler.Module,
	}

	if !*once && *job == "" {
		fx.New(append(options, scheduler.LoopModule)...).Run()
		return
	}

	var (
		sched *scheduler.Scheduler
		log   *zap.Logger
	)
	app := fx.New(append(options, fx.Populate(&sched, &log))...)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		os.Exit(1)
	}

	var err error
	if *job != "" {
		err = sched.RunJobNow(context.Background(), *job)
	} else {
		err = sched.RunOnce(context.Background())
	}
	if err != nil {
		log.Error("scheduler run failed", zap.Error(err))
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	_ = app.Stop(stopCtx)

	if err != nil {
		os.Exit(1)
	}
}
