package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/gorm"
)

func TestClassifySchedulerJobReason(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "deadline", err: context.DeadlineExceeded, want: SchedulerJobReasonDeadlineExceeded},
		{name: "wrapped_deadline", err: fmt.Errorf("sweep: %w", context.DeadlineExceeded), want: SchedulerJobReasonDeadlineExceeded},
		{name: "db_lock_timeout", err: &pgconn.PgError{Code: "55P03"}, want: SchedulerJobReasonDBLockTimeout},
		{name: "serialization_failure", err: &pgconn.PgError{Code: "40001"}, want: SchedulerJobReasonSerializationFailure},
		{name: "unique_violation", err: gorm.ErrDuplicatedKey, want: SchedulerJobReasonUniqueViolation},
		{name: "other_pg", err: &pgconn.PgError{Code: "08006"}, want: SchedulerJobReasonDB},
		{name: "unknown", err: errors.New("boom"), want: SchedulerJobReasonUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifySchedulerJobReason(tc.err); got != tc.want {
				t.Fatalf("expected reason %q, got %q", tc.want, got)
			}
		})
	}
}

func TestSchedulerCounters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newSchedulerMetrics(registry, Config{ServiceName: "nasiya", Environment: "test"})

	m.IncJobRun("overdue_sweep")
	m.IncJobRun("overdue_sweep")
	m.IncJobSkipped("overdue_sweep")
	m.AddBatchProcessed("overdue_sweep", "debtors", 3)
	m.AddBatchProcessed("overdue_sweep", "debtors", 0)
	m.IncJobError("overdue_sweep", context.DeadlineExceeded)
	m.ObserveJobDuration("overdue_sweep", time.Second)

	if got := testutil.ToFloat64(m.jobRuns.WithLabelValues("overdue_sweep")); got != 2 {
		t.Fatalf("expected 2 runs, got %v", got)
	}
	if got := testutil.ToFloat64(m.jobSkipped.WithLabelValues("overdue_sweep")); got != 1 {
		t.Fatalf("expected 1 skip, got %v", got)
	}
	if got := testutil.ToFloat64(m.batchProcessed.WithLabelValues("overdue_sweep", "debtors")); got != 3 {
		t.Fatalf("expected processed count 3, got %v", got)
	}
	if got := testutil.ToFloat64(m.jobErrors.WithLabelValues("overdue_sweep", SchedulerJobReasonDeadlineExceeded)); got != 1 {
		t.Fatalf("expected 1 deadline error, got %v", got)
	}
}

func TestSchedulerMetricsReuseRegisteredCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := newSchedulerMetrics(registry, Config{ServiceName: "nasiya", Environment: "test"})
	second := newSchedulerMetrics(registry, Config{ServiceName: "nasiya", Environment: "test"})

	first.IncJobRun("hosting_reminder")
	second.IncJobRun("hosting_reminder")

	if got := testutil.ToFloat64(first.jobRuns.WithLabelValues("hosting_reminder")); got != 2 {
		t.Fatalf("expected shared counter value 2, got %v", got)
	}
}
