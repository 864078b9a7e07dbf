package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	debtordomain "github.com/smallbiznis/nasiya/internal/debtor/domain"
)

// OverdueDays is the number of days without a payment after which a
// debtor with a positive balance is overdue.
const OverdueDays = 45

// Snapshot is the slice of debtor state the classifier reads.
type Snapshot struct {
	TotalDebt       decimal.Decimal
	IsOverdue       bool
	LastPaymentDate *time.Time
	CreatedAt       time.Time
}

func SnapshotOf(d debtordomain.Debtor) Snapshot {
	return Snapshot{
		TotalDebt:       d.TotalDebt,
		IsOverdue:       d.IsOverdue,
		LastPaymentDate: d.LastPaymentDate,
		CreatedAt:       d.CreatedAt,
	}
}

// Reference is the last payment date, or the creation date when the debtor
// never paid.
func (s Snapshot) Reference() time.Time {
	if s.LastPaymentDate != nil {
		return *s.LastPaymentDate
	}
	return s.CreatedAt
}

// Cutoff is the instant before which a reference date counts as overdue.
func Cutoff(now time.Time) time.Time {
	return now.UTC().AddDate(0, 0, -OverdueDays)
}

// IsCandidate reports whether the debtor should transition to overdue.
func IsCandidate(s Snapshot, now time.Time) bool {
	if s.IsOverdue || !s.TotalDebt.IsPositive() {
		return false
	}
	return s.Reference().Before(Cutoff(now))
}

type SweepResult struct {
	Scanned       int `json:"scanned"`
	Candidates    int `json:"candidates"`
	Flagged       int `json:"flagged"`
	NotifyFailure int `json:"notify_failures"`
}

type Service interface {
	Sweep(ctx context.Context) (SweepResult, error)
	ListOverdue(ctx context.Context) ([]debtordomain.Debtor, error)
}
