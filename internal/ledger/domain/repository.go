package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DebtFilter struct {
	DebtorID *snowflake.ID
	From     *time.Time
	To       *time.Time
	Limit    int
}

type PaymentFilter struct {
	DebtorID    *snowflake.ID
	PaymentType PaymentType
	From        *time.Time
	To          *time.Time
	Limit       int
}

// Totals are aggregate counts and sums over a half-open time range.
type Totals struct {
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// DebtorTotals are lifetime debt and payment sums of one debtor.
type DebtorTotals struct {
	Debts    decimal.Decimal `json:"debts"`
	Payments decimal.Decimal `json:"payments"`
}

type Repository interface {
	InsertDebt(ctx context.Context, db *gorm.DB, debt *Debt) error
	InsertPayment(ctx context.Context, db *gorm.DB, payment *Payment) error
	// ListDebts and ListPayments order newest first.
	ListDebts(ctx context.Context, db *gorm.DB, filter DebtFilter) ([]*Debt, error)
	ListPayments(ctx context.Context, db *gorm.DB, filter PaymentFilter) ([]*Payment, error)
	DeleteByDebtors(ctx context.Context, db *gorm.DB, debtorIDs []snowflake.ID) error
	SumDebts(ctx context.Context, db *gorm.DB, from, to *time.Time) (Totals, error)
	SumPaymentsByType(ctx context.Context, db *gorm.DB, from, to *time.Time) (map[PaymentType]Totals, error)
	TotalsByDebtor(ctx context.Context, db *gorm.DB, debtorIDs []snowflake.ID) (map[snowflake.ID]DebtorTotals, error)
}
