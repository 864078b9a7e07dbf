package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/nasiya/internal/notification/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, n *domain.Notification) error {
	if n == nil {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`INSERT INTO notifications (id, debtor_id, type, title, message, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID,
		n.DebtorID,
		n.Type,
		n.Title,
		n.Message,
		n.IsRead,
		n.CreatedAt,
	).Error
}

func (r *repo) ListUnread(ctx context.Context, db *gorm.DB, limit int) ([]*domain.Notification, error) {
	var items []*domain.Notification
	err := db.WithContext(ctx).
		Where("is_read = ?", false).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) MarkRead(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ?", id).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *repo) MarkAllRead(ctx context.Context, db *gorm.DB) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("is_read = ?", false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *repo) ExistsInRange(ctx context.Context, db *gorm.DB, typ domain.Type, from, to time.Time) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("type = ? AND created_at >= ? AND created_at < ?", typ, from.UTC(), to.UTC()).
		Count(&count).Error
	return count > 0, err
}
