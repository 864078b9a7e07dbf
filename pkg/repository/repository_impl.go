package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/nasiya/pkg/db/option"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type store[T any] struct {
	conn *gorm.DB
}

func ProvideStore[T any](conn *gorm.DB) Repository[T] {
	return store[T]{conn: conn}
}

func (s store[T]) WithTrx(tx *gorm.DB) Repository[T] {
	if tx == nil {
		return s
	}
	return store[T]{conn: tx}
}

func (s store[T]) Find(ctx context.Context, match *T, opts ...option.QueryOption) ([]*T, error) {
	var rows []*T
	if err := s.query(ctx, match, opts).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s store[T]) FindOne(ctx context.Context, match *T, opts ...option.QueryOption) (*T, error) {
	var row T
	err := s.query(ctx, match, opts).Take(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return &row, nil
}

func (s store[T]) Upsert(ctx context.Context, resource *T, key string, updateColumns ...string) error {
	onConflict := clause.OnConflict{Columns: []clause.Column{{Name: key}}}
	if len(updateColumns) == 0 {
		onConflict.DoNothing = true
	} else {
		onConflict.DoUpdates = clause.AssignmentColumns(updateColumns)
	}
	return s.conn.WithContext(ctx).Clauses(onConflict).Create(resource).Error
}

func (s store[T]) query(ctx context.Context, match *T, opts []option.QueryOption) *gorm.DB {
	stmt := s.conn.WithContext(ctx).Model(new(T))
	if match != nil {
		stmt = stmt.Where(match)
	}
	for _, opt := range opts {
		stmt = opt.Apply(stmt)
	}
	return stmt
}
