package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestIsCandidate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	paidAt := func(days int) *time.Time {
		t := now.AddDate(0, 0, -days)
		return &t
	}

	tests := []struct {
		name string
		s    Snapshot
		want bool
	}{
		{
			name: "old and paid off is not a candidate",
			s:    Snapshot{TotalDebt: decimal.Zero, CreatedAt: now.AddDate(0, 0, -200)},
			want: false,
		},
		{
			name: "created 50 days ago without payments",
			s:    Snapshot{TotalDebt: decimal.NewFromInt(1), CreatedAt: now.AddDate(0, 0, -50)},
			want: true,
		},
		{
			name: "last payment 46 days ago",
			s:    Snapshot{TotalDebt: decimal.NewFromInt(1), CreatedAt: now.AddDate(0, 0, -300), LastPaymentDate: paidAt(46)},
			want: true,
		},
		{
			name: "recent payment overrides old creation",
			s:    Snapshot{TotalDebt: decimal.NewFromInt(1), CreatedAt: now.AddDate(0, 0, -300), LastPaymentDate: paidAt(10)},
			want: false,
		},
		{
			name: "exactly 45 days is not yet overdue",
			s:    Snapshot{TotalDebt: decimal.NewFromInt(1), CreatedAt: now.AddDate(0, 0, -45)},
			want: false,
		},
		{
			name: "already flagged",
			s:    Snapshot{TotalDebt: decimal.NewFromInt(1), IsOverdue: true, CreatedAt: now.AddDate(0, 0, -100)},
			want: false,
		},
		{
			name: "negative balance",
			s:    Snapshot{TotalDebt: decimal.NewFromInt(-1), CreatedAt: now.AddDate(0, 0, -100)},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCandidate(tt.s, now))
		})
	}
}
