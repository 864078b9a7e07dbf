package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"999", "999"},
		{"1000", "1,000"},
		{"2500000", "2,500,000"},
		{"1234.50", "1,234.5"},
		{"-45000", "-45,000"},
		{"-0.25", "-0.25"},
		{"999.999", "1,000"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestMessageTexts(t *testing.T) {
	overdue := OverduePayment(7, "Ali", "Valiyev", decimal.NewFromInt(150000))
	assert.Equal(t, TypeOverduePayment, overdue.Type)
	assert.Equal(t, "Muddati o'tgan to'lov", overdue.Title)
	assert.Equal(t, "Ali Valiyev 45 kundan beri to'lov qilmagan. Qarz: 150000 so'm", overdue.Message)

	limit := DebtLimitExceeded(7, "Ali", "Valiyev", decimal.NewFromInt(2100000))
	assert.Equal(t, "Ali Valiyev qarz limiti oshdi: 2,100,000 so'm", limit.Message)

	paid := PaymentReceived(7, "Ali", "Valiyev", decimal.NewFromInt(50000))
	assert.Equal(t, "Ali Valiyev - 50,000 so'm to'lov qildi", paid.Message)

	hosting := HostingReminder(time.Date(2025, 3, 6, 8, 0, 0, 0, time.UTC))
	assert.Nil(t, hosting.DebtorID)
	assert.Equal(t, "2025-yil 3-oyning hosting to'lovi haqida eslatma.", hosting.Message)
}
