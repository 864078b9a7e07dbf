package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// LimitProvider resolves the current debt limit.
type LimitProvider interface {
	DebtLimit(ctx context.Context) decimal.Decimal
}

type SetRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Service interface {
	LimitProvider
	Get(ctx context.Context, key string) (*Setting, error)
	All(ctx context.Context) ([]Setting, error)
	Set(ctx context.Context, req SetRequest) (Setting, error)
}

var (
	ErrInvalidKey   = errors.New("invalid_key")
	ErrInvalidValue = errors.New("invalid_value")
	ErrNotFound     = errors.New("setting_not_found")
)
