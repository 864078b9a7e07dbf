package scheduler

import (
	"context"

	"github.com/smallbiznis/nasiya/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the scheduler without starting its loop.
var Module = fx.Module("scheduler",
	fx.Provide(ProvideConfig),
	fx.Provide(config.NewSchedulerHolder),
	fx.Provide(New),
)

// LoopModule runs the scheduler loop for the lifetime of the app.
var LoopModule = fx.Module("scheduler.loop",
	fx.Invoke(StartLoop),
)

func StartLoop(lc fx.Lifecycle, log *zap.Logger, holder *config.SchedulerHolder, sched *Scheduler) {
	holder.OnReload(func(cfg config.SchedulerConfig, err error) {
		if err != nil {
			log.Warn("scheduler config reload failed", zap.Error(err))
			return
		}
		log.Info("scheduler config reloaded",
			zap.Strings("enabled_jobs", cfg.EnabledJobs),
			zap.Int("batch_size", cfg.BatchSize),
		)
	})

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if holder.Watch() {
				log.Info("watching scheduler config file")
			}
			go sched.RunForever(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
