package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const KeyDebtLimit = "debt_limit"

// DefaultDebtLimit applies when debt_limit is absent or unparsable.
var DefaultDebtLimit = decimal.NewFromInt(2_000_000)

type Setting struct {
	Key       string    `gorm:"primaryKey;type:text" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Setting) TableName() string { return "settings" }
