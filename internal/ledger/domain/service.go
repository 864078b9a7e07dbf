package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/nasiya/internal/rating/engine"
)

type RecordDebtRequest struct {
	DebtorID    string          `json:"debtor_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Items       []DebtItem      `json:"items"`
}

type RecordPaymentRequest struct {
	DebtorID    string          `json:"debtor_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentType string          `json:"payment_type"`
	Note        string          `json:"note"`
}

type RecordDebtResult struct {
	Debt      Debt            `json:"debt"`
	TotalDebt decimal.Decimal `json:"total_debt"`
	OverLimit bool            `json:"over_limit"`
}

type RecordPaymentResult struct {
	Payment   Payment         `json:"payment"`
	TotalDebt decimal.Decimal `json:"total_debt"`
}

type ListDebtsRequest struct {
	DebtorID string
}

type ListPaymentsRequest struct {
	DebtorID    string
	PaymentType string
}

type Service interface {
	RecordDebt(ctx context.Context, req RecordDebtRequest) (RecordDebtResult, error)
	RecordPayment(ctx context.Context, req RecordPaymentRequest) (RecordPaymentResult, error)
	ListDebts(ctx context.Context, req ListDebtsRequest) ([]Debt, error)
	ListPayments(ctx context.Context, req ListPaymentsRequest) ([]Payment, error)
	History(ctx context.Context, debtorID string) (engine.History, error)
	Timeline(ctx context.Context, debtorID string) ([]TimelineEvent, error)
}

// UserMessagePaymentExceedsDebt is shown when a payment is larger than the balance.
const UserMessagePaymentExceedsDebt = "To'lov miqdori umumiy qarzdan oshib ketdi"

var (
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrInvalidPaymentType = errors.New("invalid_payment_type")
	ErrPaymentExceedsDebt = errors.New("payment_exceeds_debt")
)
