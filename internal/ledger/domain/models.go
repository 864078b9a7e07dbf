package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type PaymentType string

const (
	PaymentTypeCash  PaymentType = "CASH"
	PaymentTypeClick PaymentType = "CLICK"
	PaymentTypeCard  PaymentType = "CARD"
)

// ParsePaymentType accepts any casing of CASH, CLICK or CARD.
func ParsePaymentType(raw string) (PaymentType, error) {
	t := PaymentType(strings.ToUpper(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", ErrInvalidPaymentType
	}
	return t, nil
}

func (t PaymentType) Valid() bool {
	switch t {
	case PaymentTypeCash, PaymentTypeClick, PaymentTypeCard:
		return true
	default:
		return false
	}
}

// DebtItem is a line of goods taken on credit.
type DebtItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity *int            `json:"quantity,omitempty"`
}

type Debt struct {
	ID          snowflake.ID                  `gorm:"primaryKey" json:"id"`
	DebtorID    snowflake.ID                  `gorm:"not null;index" json:"debtor_id"`
	Amount      decimal.Decimal               `gorm:"type:numeric(18,2);not null" json:"amount"`
	Description *string                       `gorm:"type:text" json:"description,omitempty"`
	Items       datatypes.JSONSlice[DebtItem] `gorm:"type:json" json:"items,omitempty"`
	CreatedAt   time.Time                     `gorm:"not null;index" json:"created_at"`
}

func (Debt) TableName() string { return "debts" }

type Payment struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	DebtorID    snowflake.ID    `gorm:"not null;index" json:"debtor_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	PaymentType PaymentType     `gorm:"type:text;not null;index" json:"payment_type"`
	Note        *string         `gorm:"type:text" json:"note,omitempty"`
	CreatedAt   time.Time       `gorm:"not null;index" json:"created_at"`
}

func (Payment) TableName() string { return "payments" }

type EventKind string

const (
	EventDebt    EventKind = "debt"
	EventPayment EventKind = "payment"
)

// TimelineEvent is one debt or payment on a debtor's timeline. Balance is
// the running balance after the event.
type TimelineEvent struct {
	Kind        EventKind       `json:"kind"`
	ID          snowflake.ID    `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentType PaymentType     `json:"payment_type,omitempty"`
	Text        *string         `json:"text,omitempty"`
	Balance     decimal.Decimal `json:"balance"`
	CreatedAt   time.Time       `json:"created_at"`
}
