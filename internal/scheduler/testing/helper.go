// Package testing moves debtor dates into the past so scheduler jobs can be
// exercised without waiting.
package testing

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type TimeAccelerator struct {
	db  *gorm.DB
	now func() time.Time
}

func NewTimeAccelerator(db *gorm.DB, now func() time.Time) *TimeAccelerator {
	if now == nil {
		now = time.Now
	}
	return &TimeAccelerator{db: db, now: now}
}

// AgeDebtor shifts a debtor's creation and last payment dates back by days.
func (ta *TimeAccelerator) AgeDebtor(ctx context.Context, debtorID snowflake.ID, days int) error {
	ref := ta.now().UTC().AddDate(0, 0, -days)
	return ta.db.WithContext(ctx).Exec(
		`UPDATE debtors
		 SET created_at = ?, last_payment_date = CASE WHEN last_payment_date IS NULL THEN NULL ELSE ? END
		 WHERE id = ?`,
		ref, ref, debtorID,
	).Error
}

// SetLastPayment pins a debtor's last payment date.
func (ta *TimeAccelerator) SetLastPayment(ctx context.Context, debtorID snowflake.ID, at time.Time) error {
	return ta.db.WithContext(ctx).Exec(
		`UPDATE debtors SET last_payment_date = ? WHERE id = ?`,
		at.UTC(), debtorID,
	).Error
}

// AgeAllOpen backdates every debtor with a balance that is not yet overdue.
func (ta *TimeAccelerator) AgeAllOpen(ctx context.Context, days int) (int64, error) {
	ref := ta.now().UTC().AddDate(0, 0, -days)
	result := ta.db.WithContext(ctx).Exec(
		`UPDATE debtors
		 SET created_at = ?, last_payment_date = CASE WHEN last_payment_date IS NULL THEN NULL ELSE ? END
		 WHERE is_overdue = ? AND total_debt > 0`,
		ref, ref, false,
	)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
