package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		name string
		d    Debtor
		want string
	}{
		{"zero balance", Debtor{TotalDebt: decimal.Zero, IsOverdue: true}, LabelNoDebt},
		{"overdue", Debtor{TotalDebt: decimal.NewFromInt(10), IsOverdue: true}, LabelOverdue},
		{"in debt", Debtor{TotalDebt: decimal.NewFromInt(10)}, LabelInDebt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusLabel(tt.d))
		})
	}
}

func TestLimitStatus(t *testing.T) {
	limit := decimal.NewFromInt(100)
	assert.Equal(t, StatusOverLimit, LimitStatus(decimal.NewFromInt(101), limit))
	assert.Equal(t, StatusInDebt, LimitStatus(decimal.NewFromInt(100), limit))
	assert.Equal(t, StatusPaid, LimitStatus(decimal.Zero, limit))
	assert.Equal(t, StatusPaid, LimitStatus(decimal.NewFromInt(-5), limit))
}

func TestNullableStringDistinguishesNullFromAbsent(t *testing.T) {
	var req UpdateDebtorRequest
	require.NoError(t, json.Unmarshal([]byte(`{"address":null,"first_name":"Ali"}`), &req))
	assert.True(t, req.Address.Set)
	assert.Nil(t, req.Address.Value)
	assert.False(t, req.PhoneNumber.Set)

	require.NoError(t, json.Unmarshal([]byte(`{"phone_number":"+998"}`), &req))
	assert.True(t, req.PhoneNumber.Set)
	assert.Equal(t, "+998", *req.PhoneNumber.Value)
}
