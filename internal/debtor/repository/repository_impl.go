package repository

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/nasiya/internal/debtor/domain"
	"github.com/smallbiznis/nasiya/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, debtor *domain.Debtor) error {
	return conn.WithContext(ctx).Exec(
		`INSERT INTO debtors (
			id, first_name, last_name, phone_number, address,
			total_debt, is_overdue, last_payment_date, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		debtor.ID,
		debtor.FirstName,
		debtor.LastName,
		debtor.PhoneNumber,
		debtor.Address,
		debtor.TotalDebt,
		debtor.IsOverdue,
		debtor.LastPaymentDate,
		debtor.CreatedAt,
		debtor.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Debtor, error) {
	var debtor domain.Debtor
	err := conn.WithContext(ctx).Raw(
		`SELECT id, first_name, last_name, phone_number, address,
		 total_debt, is_overdue, last_payment_date, created_at, updated_at
		 FROM debtors WHERE id = ?`,
		id,
	).Scan(&debtor).Error
	if err != nil {
		return nil, err
	}
	if debtor.ID == 0 {
		return nil, nil
	}
	return &debtor, nil
}

func (r *repo) FindByIDForUpdate(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Debtor, error) {
	stmt := conn.WithContext(ctx).Model(&domain.Debtor{}).Where("id = ?", id)
	if db.SupportsRowLocks(conn) {
		stmt = stmt.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var debtors []domain.Debtor
	if err := stmt.Limit(1).Find(&debtors).Error; err != nil {
		return nil, err
	}
	if len(debtors) == 0 {
		return nil, nil
	}
	return &debtors[0], nil
}

func (r *repo) FindByIDs(ctx context.Context, conn *gorm.DB, ids []snowflake.ID) ([]*domain.Debtor, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var debtors []*domain.Debtor
	if err := conn.WithContext(ctx).Where("id IN ?", ids).Find(&debtors).Error; err != nil {
		return nil, err
	}
	return debtors, nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListFilter) ([]*domain.Debtor, error) {
	stmt := applyFilters(conn.WithContext(ctx).Model(&domain.Debtor{}), filter)

	if filter.Cursor != nil {
		stmt = stmt.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			filter.Cursor.CreatedAt,
			filter.Cursor.CreatedAt,
			filter.Cursor.ID,
		)
	}

	stmt = stmt.Order("created_at desc, id desc")
	if filter.PageSize > 0 {
		stmt = stmt.Limit(filter.PageSize + 1)
	}

	var debtors []*domain.Debtor
	if err := stmt.Find(&debtors).Error; err != nil {
		return nil, err
	}
	return debtors, nil
}

func applyFilters(stmt *gorm.DB, filter domain.ListFilter) *gorm.DB {
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		like := "%" + search + "%"
		stmt = stmt.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(COALESCE(phone_number, '')) LIKE ?",
			like, like, like,
		)
	}

	switch filter.Status {
	case domain.StatusInDebt:
		stmt = stmt.Where("total_debt > 0 AND total_debt <= ?", filter.Limit)
	case domain.StatusOverLimit:
		stmt = stmt.Where("total_debt > ?", filter.Limit)
	case domain.StatusPaid:
		stmt = stmt.Where("total_debt <= 0")
	}
	return stmt
}

func (r *repo) ListAll(ctx context.Context, conn *gorm.DB) ([]*domain.Debtor, error) {
	var debtors []*domain.Debtor
	if err := conn.WithContext(ctx).Order("created_at desc, id desc").Find(&debtors).Error; err != nil {
		return nil, err
	}
	return debtors, nil
}

func (r *repo) UpdateProfile(ctx context.Context, conn *gorm.DB, id snowflake.ID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return conn.WithContext(ctx).Model(&domain.Debtor{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repo) UpdateBalance(ctx context.Context, conn *gorm.DB, id snowflake.ID, update domain.BalanceUpdate) error {
	values := map[string]any{
		"total_debt": update.TotalDebt,
		"updated_at": update.UpdatedAt,
	}
	if update.LastPaymentDate != nil {
		values["last_payment_date"] = *update.LastPaymentDate
	}
	if update.ClearOverdue {
		values["is_overdue"] = false
	}
	return conn.WithContext(ctx).Model(&domain.Debtor{}).Where("id = ?", id).Updates(values).Error
}

func (r *repo) Delete(ctx context.Context, conn *gorm.DB, ids []snowflake.ID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := conn.WithContext(ctx).Exec(`DELETE FROM debtors WHERE id IN ?`, ids)
	return res.RowsAffected, res.Error
}

func (r *repo) Summary(ctx context.Context, conn *gorm.DB) (domain.Summary, error) {
	var row struct {
		Count     int64
		TotalDebt decimal.Decimal
	}
	err := conn.WithContext(ctx).Raw(
		`SELECT COUNT(*) AS count, COALESCE(SUM(total_debt), 0) AS total_debt FROM debtors`,
	).Scan(&row).Error
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summary{Count: row.Count, TotalDebt: row.TotalDebt}, nil
}

func (r *repo) ListOverdueCandidates(ctx context.Context, conn *gorm.DB, afterID snowflake.ID, limit int) ([]*domain.Debtor, error) {
	var debtors []*domain.Debtor
	stmt := conn.WithContext(ctx).
		Where("is_overdue = ? AND total_debt > 0 AND id > ?", false, afterID).
		Order("id asc")
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}
	if err := stmt.Find(&debtors).Error; err != nil {
		return nil, err
	}
	return debtors, nil
}

func (r *repo) MarkOverdue(ctx context.Context, conn *gorm.DB, id snowflake.ID, now time.Time) (bool, error) {
	res := conn.WithContext(ctx).Exec(
		`UPDATE debtors SET is_overdue = ?, updated_at = ? WHERE id = ? AND is_overdue = ?`,
		true, now.UTC(), id, false,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) ListOverdue(ctx context.Context, conn *gorm.DB) ([]*domain.Debtor, error) {
	var debtors []*domain.Debtor
	err := conn.WithContext(ctx).
		Where("is_overdue = ? AND total_debt > 0", true).
		Order("last_payment_date asc, created_at asc, id asc").
		Find(&debtors).Error
	if err != nil {
		return nil, err
	}
	return debtors, nil
}
