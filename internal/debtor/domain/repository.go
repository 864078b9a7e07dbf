package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Cursor struct {
	ID        snowflake.ID
	CreatedAt time.Time
}

type ListFilter struct {
	Search string
	Status Status
	// Limit is the debt limit used by the in_debt and over_limit filters.
	Limit    decimal.Decimal
	Cursor   *Cursor
	PageSize int
}

type BalanceUpdate struct {
	TotalDebt       decimal.Decimal
	LastPaymentDate *time.Time
	ClearOverdue    bool
	UpdatedAt       time.Time
}

type Summary struct {
	Count     int64           `json:"count"`
	TotalDebt decimal.Decimal `json:"total_debt"`
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, debtor *Debtor) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Debtor, error)
	// FindByIDForUpdate row-locks the debtor on dialects that support it.
	FindByIDForUpdate(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Debtor, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*Debtor, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*Debtor, error)
	ListAll(ctx context.Context, db *gorm.DB) ([]*Debtor, error)
	UpdateProfile(ctx context.Context, db *gorm.DB, id snowflake.ID, updates map[string]any) error
	UpdateBalance(ctx context.Context, db *gorm.DB, id snowflake.ID, update BalanceUpdate) error
	Delete(ctx context.Context, db *gorm.DB, ids []snowflake.ID) (int64, error)
	Summary(ctx context.Context, db *gorm.DB) (Summary, error)

	// ListOverdueCandidates returns unflagged debtors with a positive balance
	// and id greater than afterID, ascending by id.
	ListOverdueCandidates(ctx context.Context, db *gorm.DB, afterID snowflake.ID, limit int) ([]*Debtor, error)
	// MarkOverdue flags the debtor only if it is not flagged yet.
	MarkOverdue(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (bool, error)
	ListOverdue(ctx context.Context, db *gorm.DB) ([]*Debtor, error)
}
