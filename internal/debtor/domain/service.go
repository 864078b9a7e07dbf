package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/nasiya/pkg/db/pagination"
)

type CreateDebtorRequest struct {
	FirstName       string              `json:"first_name"`
	LastName        string              `json:"last_name"`
	PhoneNumber     *string             `json:"phone_number"`
	Address         *string             `json:"address"`
	DebtAmount      decimal.NullDecimal `json:"debt_amount"`
	DebtDescription *string             `json:"debt_description"`
}

type UpdateDebtorRequest struct {
	FirstName   *string        `json:"first_name"`
	LastName    *string        `json:"last_name"`
	PhoneNumber NullableString `json:"phone_number"`
	Address     NullableString `json:"address"`
}

type ListDebtorRequest struct {
	pagination.Pagination
	Search string
	Status string
}

type ListDebtorResponse struct {
	pagination.PageInfo
	Debtors []Debtor `json:"debtors"`
}

type ExportRequest struct {
	Search string
	Status string
}

type Service interface {
	Create(ctx context.Context, req CreateDebtorRequest) (Debtor, error)
	Get(ctx context.Context, id string) (Debtor, error)
	Update(ctx context.Context, id string, req UpdateDebtorRequest) (Debtor, error)
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, ids []string) (int64, error)
	List(ctx context.Context, req ListDebtorRequest) (ListDebtorResponse, error)
	Export(ctx context.Context, req ExportRequest) ([]ExportRow, error)
}

var (
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrInvalidAmount = errors.New("invalid_amount")
	ErrInvalidIDs    = errors.New("invalid_ids")
	ErrNotFound      = errors.New("debtor_not_found")
	ErrInvalidToken  = errors.New("invalid_page_token")
)
