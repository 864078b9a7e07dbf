package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/nasiya/internal/clock"
	"github.com/smallbiznis/nasiya/internal/config"
	notificationdomain "github.com/smallbiznis/nasiya/internal/notification/domain"
	obsmetrics "github.com/smallbiznis/nasiya/internal/observability/metrics"
	overduedomain "github.com/smallbiznis/nasiya/internal/overdue/domain"
	"github.com/smallbiznis/nasiya/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("invalid_scheduler_config")

type Params struct {
	fx.In

	Log           *zap.Logger
	GenID         *snowflake.Node
	Clock         clock.Clock
	Overdue       overduedomain.Service
	Notifications notificationdomain.Service
	Locker        ratelimit.Locker
	Config        Config                  `optional:"true"`
	Holder        *config.SchedulerHolder `optional:"true"`
}

type Scheduler struct {
	log           *zap.Logger
	cfg           Config
	holder        *config.SchedulerHolder
	genID         *snowflake.Node
	clock         clock.Clock
	overdue       overduedomain.Service
	notifications notificationdomain.Service
	locker        ratelimit.Locker
}

type job struct {
	name string
	run  func(context.Context) error
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.GenID == nil || p.Clock == nil || p.Overdue == nil || p.Notifications == nil || p.Locker == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:           p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:           p.Config.withDefaults(),
		holder:        p.Holder,
		genID:         p.GenID,
		clock:         p.Clock,
		overdue:       p.Overdue,
		notifications: p.Notifications,
		locker:        p.Locker,
	}, nil
}

func (s *Scheduler) runJob(
	parent context.Context,
	name string,
	batchSize int,
	timeout time.Duration,
	fn func(ctx context.Context) error,
) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	ctx, run := s.startJobRun(ctx, name, batchSize)
	log := s.logger(ctx).With(zap.String("job", name))
	schedMetrics := obsmetrics.Scheduler()

	release, acquired, err := s.acquireJobLock(ctx, name)
	if err != nil {
		schedMetrics.IncJobError(name, err)
		return fmt.Errorf("%s: acquire lock: %w", name, err)
	}
	if !acquired {
		schedMetrics.IncJobSkipped(name)
		log.Info("scheduler.job.skipped", zap.String("reason", "lock_held"))
		return nil
	}
	defer release()

	s.logJobStart(ctx, run)
	schedMetrics.IncJobRun(name)

	err = s.safeRun(ctx, fn)
	schedMetrics.ObserveJobDuration(name, s.clock.Now().Sub(start))
	if err != nil && run.failures == 0 {
		run.fail()
	}
	s.logJobFinish(ctx, run)
	if err == nil {
		return nil
	}

	// Deadline is a soft timeout. The next tick resumes the work.
	isTimeout := errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
	if isTimeout {
		schedMetrics.IncJobTimeout(name)
	}
	schedMetrics.IncJobError(name, err)
	if isTimeout {
		log.Warn("job timed out",
			zap.Duration("timeout", timeout),
			zap.Error(err),
		)
		return nil
	}

	return fmt.Errorf("%s: %w", name, err)
}

func (s *Scheduler) jobs() []job {
	return []job{
		{JobOverdueSweep, s.OverdueSweepJob},
		{JobHostingReminder, func(ctx context.Context) error { return s.HostingReminderJob(ctx, false) }},
	}
}

// RunOnce runs every enabled job in order and joins their errors.
func (s *Scheduler) RunOnce(parent context.Context) error {
	var err error
	for _, j := range s.jobs() {
		if !s.isJobEnabled(j.name) {
			continue
		}
		err = errors.Join(err, s.runJob(parent, j.name, s.batchSize(), s.cfg.JobTimeout, j.run))
	}
	return err
}

// RunJobNow runs one job by name regardless of the enabled list.
func (s *Scheduler) RunJobNow(ctx context.Context, name string) error {
	for _, j := range s.jobs() {
		if strings.EqualFold(j.name, name) {
			return s.runJob(ctx, j.name, s.batchSize(), s.cfg.JobTimeout, j.run)
		}
	}
	return fmt.Errorf("unknown job %q", name)
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()
	nextRun := s.clock.Now().Add(s.cfg.RunInterval)
	schedMetrics := obsmetrics.Scheduler()

	for {
		if lag := s.clock.Now().Sub(nextRun); lag > 0 {
			schedMetrics.ObserveRunLoopLag(lag)
		}
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}
		nextRun = nextRun.Add(s.cfg.RunInterval)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) enabledJobs() []string {
	if s.holder != nil {
		return s.holder.Get().EnabledJobs
	}
	return s.cfg.EnabledJobs
}

func (s *Scheduler) batchSize() int {
	if s.holder != nil {
		if size := s.holder.Get().BatchSize; size > 0 {
			return size
		}
	}
	return s.cfg.BatchSize
}

func (s *Scheduler) isJobEnabled(jobName string) bool {
	// An empty list enables every job.
	enabled := s.enabledJobs()
	if len(enabled) == 0 {
		return true
	}
	for _, name := range enabled {
		if strings.EqualFold(name, jobName) {
			return true
		}
	}
	return false
}

// OverdueSweepJob flags debtors that crossed the overdue threshold.
func (s *Scheduler) OverdueSweepJob(ctx context.Context) error {
	result, err := s.overdue.Sweep(ctx)

	run := jobRunFromContext(ctx)
	run.Count("debtors_scanned", result.Scanned)
	run.Count("debtors_flagged", result.Flagged)
	run.Count("notify_failures", result.NotifyFailure)

	if result.NotifyFailure > 0 {
		s.logger(ctx).Warn("overdue notifications failed",
			zap.Int("count", result.NotifyFailure),
		)
	}
	s.logJobError(ctx, "scheduler.overdue_sweep.failed", err,
		zap.Int("scanned", result.Scanned),
		zap.Int("flagged", result.Flagged),
	)
	return err
}

// HostingReminderJob emits the monthly hosting reminder once per month.
func (s *Scheduler) HostingReminderJob(ctx context.Context, force bool) error {
	created, err := s.notifications.HostingReminder(ctx, s.clock.Now(), force)
	if err != nil {
		s.logJobError(ctx, "scheduler.hosting_reminder.failed", err)
		return err
	}
	if created {
		jobRunFromContext(ctx).Count("notifications", 1)
	}
	return nil
}
