package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"
)

// safeRun converts a panicking job into an error so one bad run cannot take
// the loop down.
func (s *Scheduler) safeRun(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger(ctx).Error("scheduler.job.panic",
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return fn(ctx)
}
