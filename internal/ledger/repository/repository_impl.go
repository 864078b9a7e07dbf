package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/nasiya/internal/ledger/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertDebt(ctx context.Context, db *gorm.DB, debt *domain.Debt) error {
	return db.WithContext(ctx).Create(debt).Error
}

func (r *repo) InsertPayment(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO payments (id, debtor_id, amount, payment_type, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		payment.ID,
		payment.DebtorID,
		payment.Amount,
		payment.PaymentType,
		payment.Note,
		payment.CreatedAt,
	).Error
}

func (r *repo) ListDebts(ctx context.Context, db *gorm.DB, filter domain.DebtFilter) ([]*domain.Debt, error) {
	stmt := db.WithContext(ctx).Model(&domain.Debt{})
	if filter.DebtorID != nil {
		stmt = stmt.Where("debtor_id = ?", *filter.DebtorID)
	}
	stmt = applyRange(stmt, filter.From, filter.To)
	stmt = stmt.Order("created_at desc, id desc")
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}

	var debts []*domain.Debt
	if err := stmt.Find(&debts).Error; err != nil {
		return nil, err
	}
	return debts, nil
}

func (r *repo) ListPayments(ctx context.Context, db *gorm.DB, filter domain.PaymentFilter) ([]*domain.Payment, error) {
	stmt := db.WithContext(ctx).Model(&domain.Payment{})
	if filter.DebtorID != nil {
		stmt = stmt.Where("debtor_id = ?", *filter.DebtorID)
	}
	if filter.PaymentType != "" {
		stmt = stmt.Where("payment_type = ?", filter.PaymentType)
	}
	stmt = applyRange(stmt, filter.From, filter.To)
	stmt = stmt.Order("created_at desc, id desc")
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}

	var payments []*domain.Payment
	if err := stmt.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repo) DeleteByDebtors(ctx context.Context, db *gorm.DB, debtorIDs []snowflake.ID) error {
	if len(debtorIDs) == 0 {
		return nil
	}
	if err := db.WithContext(ctx).Exec(`DELETE FROM payments WHERE debtor_id IN ?`, debtorIDs).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Exec(`DELETE FROM debts WHERE debtor_id IN ?`, debtorIDs).Error
}

func (r *repo) SumDebts(ctx context.Context, db *gorm.DB, from, to *time.Time) (domain.Totals, error) {
	var row struct {
		Count  int64
		Amount decimal.Decimal
	}
	stmt := applyRange(db.WithContext(ctx).Model(&domain.Debt{}), from, to).
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount")
	if err := stmt.Scan(&row).Error; err != nil {
		return domain.Totals{}, err
	}
	return domain.Totals{Count: row.Count, Amount: row.Amount}, nil
}

func (r *repo) SumPaymentsByType(ctx context.Context, db *gorm.DB, from, to *time.Time) (map[domain.PaymentType]domain.Totals, error) {
	var rows []struct {
		PaymentType domain.PaymentType
		Count       int64
		Amount      decimal.Decimal
	}
	stmt := applyRange(db.WithContext(ctx).Model(&domain.Payment{}), from, to).
		Select("payment_type, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Group("payment_type")
	if err := stmt.Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[domain.PaymentType]domain.Totals, len(rows))
	for _, row := range rows {
		out[row.PaymentType] = domain.Totals{Count: row.Count, Amount: row.Amount}
	}
	return out, nil
}

func (r *repo) TotalsByDebtor(ctx context.Context, db *gorm.DB, debtorIDs []snowflake.ID) (map[snowflake.ID]domain.DebtorTotals, error) {
	out := make(map[snowflake.ID]domain.DebtorTotals, len(debtorIDs))
	if len(debtorIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		DebtorID snowflake.ID
		Amount   decimal.Decimal
	}
	if err := db.WithContext(ctx).Model(&domain.Debt{}).
		Select("debtor_id, COALESCE(SUM(amount), 0) AS amount").
		Where("debtor_id IN ?", debtorIDs).
		Group("debtor_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		totals := out[row.DebtorID]
		totals.Debts = row.Amount
		out[row.DebtorID] = totals
	}

	rows = rows[:0]
	if err := db.WithContext(ctx).Model(&domain.Payment{}).
		Select("debtor_id, COALESCE(SUM(amount), 0) AS amount").
		Where("debtor_id IN ?", debtorIDs).
		Group("debtor_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		totals := out[row.DebtorID]
		totals.Payments = row.Amount
		out[row.DebtorID] = totals
	}
	return out, nil
}

func applyRange(stmt *gorm.DB, from, to *time.Time) *gorm.DB {
	if from != nil {
		stmt = stmt.Where("created_at >= ?", from.UTC())
	}
	if to != nil {
		stmt = stmt.Where("created_at < ?", to.UTC())
	}
	return stmt
}
