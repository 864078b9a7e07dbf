package domain

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Debtor struct {
	ID              snowflake.ID    `gorm:"primaryKey" json:"id"`
	FirstName       string          `gorm:"type:text;not null" json:"first_name"`
	LastName        string          `gorm:"type:text;not null" json:"last_name"`
	PhoneNumber     *string         `gorm:"type:text" json:"phone_number,omitempty"`
	Address         *string         `gorm:"type:text" json:"address,omitempty"`
	TotalDebt       decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"total_debt"`
	IsOverdue       bool            `gorm:"not null;default:false;index" json:"is_overdue"`
	LastPaymentDate *time.Time      `gorm:"index" json:"last_payment_date,omitempty"`
	CreatedAt       time.Time       `gorm:"not null;index" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`
}

func (Debtor) TableName() string { return "debtors" }

func (d Debtor) FullName() string {
	return d.FirstName + " " + d.LastName
}

const (
	LabelNoDebt  = "Qarzsiz"
	LabelOverdue = "Muddati o'tgan"
	LabelInDebt  = "Qarzli"
)

// StatusLabel is the display status of a debtor's balance.
func StatusLabel(d Debtor) string {
	switch {
	case d.TotalDebt.IsZero():
		return LabelNoDebt
	case d.IsOverdue:
		return LabelOverdue
	default:
		return LabelInDebt
	}
}

type Status string

const (
	StatusAll       Status = "all"
	StatusInDebt    Status = "in_debt"
	StatusOverLimit Status = "over_limit"
	StatusPaid      Status = "paid"
)

// ParseStatus maps a list filter value onto a Status. The Uzbek export
// values are accepted as aliases.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusInDebt, "qarzdor":
		return StatusInDebt, nil
	case StatusOverLimit, "limitdan_oshgan":
		return StatusOverLimit, nil
	case StatusPaid, "tolangan":
		return StatusPaid, nil
	default:
		return "", ErrInvalidStatus
	}
}

// LimitStatus classifies a balance against the debt limit.
func LimitStatus(total, limit decimal.Decimal) Status {
	switch {
	case total.GreaterThan(limit):
		return StatusOverLimit
	case total.IsPositive():
		return StatusInDebt
	default:
		return StatusPaid
	}
}

// NullableString distinguishes an absent JSON field from an explicit null.
type NullableString struct {
	Set   bool
	Value *string
}

func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

// ExportRow is one debtor line of the spreadsheet export.
type ExportRow struct {
	Debtor        Debtor          `json:"debtor"`
	TotalDebts    decimal.Decimal `json:"total_debts"`
	TotalPayments decimal.Decimal `json:"total_payments"`
	Status        Status          `json:"status"`
}
