package scheduler

import (
	"context"
	"sort"
	"time"

	obscontext "github.com/smallbiznis/nasiya/internal/observability/context"
	obslogger "github.com/smallbiznis/nasiya/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/nasiya/internal/observability/metrics"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// jobRun tracks one execution of a job. A nil run is valid and records nothing.
type jobRun struct {
	job       string
	runID     string
	batchSize int
	startedAt time.Time
	counts    map[string]int
	failures  int
}

type jobRunKey struct{}

// Count adds n to the run total for stage and to the batch metric.
func (r *jobRun) Count(stage string, n int) {
	if r == nil || n <= 0 {
		return
	}
	if r.counts == nil {
		r.counts = make(map[string]int)
	}
	r.counts[stage] += n
	obsmetrics.Scheduler().AddBatchProcessed(r.job, stage, n)
}

func (r *jobRun) fail() {
	if r != nil {
		r.failures++
	}
}

// MarshalLogObject writes stage counts in a stable order.
func (r *jobRun) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	stages := make([]string, 0, len(r.counts))
	for stage := range r.counts {
		stages = append(stages, stage)
	}
	sort.Strings(stages)
	for _, stage := range stages {
		enc.AddInt(stage, r.counts[stage])
	}
	return nil
}

func (s *Scheduler) startJobRun(ctx context.Context, job string, batchSize int) (context.Context, *jobRun) {
	if existing := jobRunFromContext(ctx); existing != nil {
		return ctx, existing
	}
	run := &jobRun{
		job:       job,
		runID:     s.genID.Generate().String(),
		batchSize: batchSize,
		startedAt: s.clock.Now(),
	}
	ctx = context.WithValue(ctx, jobRunKey{}, run)
	ctx = obscontext.WithActor(ctx, "system", "scheduler")
	ctx = obscontext.WithRequestID(ctx, run.runID)
	return ctx, run
}

func jobRunFromContext(ctx context.Context) *jobRun {
	run, _ := ctx.Value(jobRunKey{}).(*jobRun)
	return run
}

func (s *Scheduler) logger(ctx context.Context) *zap.Logger {
	return obslogger.WithContext(ctx, s.log)
}

func (r *jobRun) fields() []zap.Field {
	return []zap.Field{
		zap.String("job", r.job),
		zap.String("run_id", r.runID),
	}
}

func (s *Scheduler) logJobStart(ctx context.Context, run *jobRun) {
	s.logger(ctx).Info("scheduler.job.start", append(run.fields(), zap.Int("batch_size", run.batchSize))...)
}

func (s *Scheduler) logJobFinish(ctx context.Context, run *jobRun) {
	fields := append(run.fields(),
		zap.Int64("duration_ms", s.clock.Now().Sub(run.startedAt).Milliseconds()),
		zap.Object("counts", run),
		zap.Int("failures", run.failures),
	)
	if run.failures > 0 {
		s.logger(ctx).Warn("scheduler.job.finish", fields...)
		return
	}
	s.logger(ctx).Info("scheduler.job.finish", fields...)
}

func (s *Scheduler) logJobError(ctx context.Context, msg string, err error, fields ...zap.Field) {
	run := jobRunFromContext(ctx)
	if err == nil || run == nil {
		return
	}
	run.fail()
	base := append(run.fields(),
		zap.String("reason", obsmetrics.ClassifySchedulerJobReason(err)),
		zap.Error(err),
	)
	s.logger(ctx).Error(msg, append(base, fields...)...)
}
