package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Type string

const (
	TypeOverduePayment    Type = "OVERDUE_PAYMENT"
	TypePaymentReceived   Type = "PAYMENT_RECEIVED"
	TypeDebtAdded         Type = "DEBT_ADDED"
	TypeDebtLimitExceeded Type = "DEBT_LIMIT_EXCEEDED"
	TypeHostingReminder   Type = "HOSTING_REMINDER"
)

func (t Type) Valid() bool {
	switch t {
	case TypeOverduePayment, TypePaymentReceived, TypeDebtAdded, TypeDebtLimitExceeded, TypeHostingReminder:
		return true
	default:
		return false
	}
}

type Notification struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	DebtorID  *snowflake.ID `gorm:"index" json:"debtor_id,omitempty"`
	Type      Type          `gorm:"type:text;not null;index" json:"type"`
	Title     string        `gorm:"type:text;not null" json:"title"`
	Message   string        `gorm:"type:text;not null" json:"message"`
	IsRead    bool          `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt time.Time     `gorm:"not null;index" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
