package repository

import (
	"context"

	"github.com/smallbiznis/nasiya/pkg/db/option"
	"gorm.io/gorm"
)

// Repository is a generic gorm store for small keyed tables.
type Repository[T any] interface {
	// WithTrx binds the store to tx for the duration of a transaction.
	WithTrx(tx *gorm.DB) Repository[T]
	Find(ctx context.Context, match *T, opts ...option.QueryOption) ([]*T, error)
	// FindOne returns nil without error when nothing matches.
	FindOne(ctx context.Context, match *T, opts ...option.QueryOption) (*T, error)
	// Upsert inserts resource or overwrites updateColumns on a conflict over key.
	Upsert(ctx context.Context, resource *T, key string, updateColumns ...string) error
}
