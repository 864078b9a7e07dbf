package scheduler

import (
	"context"

	obsmetrics "github.com/smallbiznis/nasiya/internal/observability/metrics"
	"go.uber.org/zap"
)

const jobLockPrefix = "nasiya:scheduler:job:"

// JobLockKey names the lease a job holds while it runs. Anything else that
// runs a job body outside the loop must hold the same lease.
func JobLockKey(name string) string {
	return jobLockPrefix + name
}

// acquireJobLock takes the per-job lease so that at most one process runs a
// job at a time. The returned release is a no-op when the lease was not
// taken.
func (s *Scheduler) acquireJobLock(ctx context.Context, name string) (func(), bool, error) {
	key := JobLockKey(name)
	start := s.clock.Now()
	token, ok, err := s.locker.TryLock(ctx, key, s.cfg.LockTTL)
	obsmetrics.Scheduler().ObserveDBLockWait(obsmetrics.LockResourceSchedulerJob, s.clock.Now().Sub(start))
	if err != nil || !ok {
		return func() {}, false, err
	}

	release := func() {
		// The job context may be done by now.
		if err := s.locker.Release(context.WithoutCancel(ctx), key, token); err != nil {
			s.log.Warn("failed to release job lock", zap.String("job", name), zap.Error(err))
		}
	}
	return release, true, nil
}
