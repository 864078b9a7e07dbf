package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

func at(days int) time.Time {
	return day0.Add(time.Duration(days) * 24 * time.Hour)
}

func debt(amount int64, days int) DebtEntry {
	return DebtEntry{Amount: decimal.NewFromInt(amount), CreatedAt: at(days)}
}

func payment(amount int64, days int) PaymentEntry {
	return PaymentEntry{Amount: decimal.NewFromInt(amount), CreatedAt: at(days)}
}

func TestMaturityCategoryQualifyingPayment(t *testing.T) {
	got, ok := MaturityCategory(History{
		Debts:    []DebtEntry{debt(1000, 0)},
		Payments: []PaymentEntry{payment(400, 40)},
	})
	require.True(t, ok)
	assert.Equal(t, CategoryGood, got.Category)
	assert.Equal(t, 40.0, got.AverageDays)
	assert.Equal(t, 1, got.Qualifying)
}

func TestMaturityCategorySmallPaymentExcludesDebtor(t *testing.T) {
	_, ok := MaturityCategory(History{
		Debts:    []DebtEntry{debt(1000, 0)},
		Payments: []PaymentEntry{payment(200, 1)},
	})
	assert.False(t, ok)
}

func TestMaturityCategoryBoundaries(t *testing.T) {
	cases := []struct {
		name string
		lag  int
		want Category
	}{
		{name: "exactly 45 is good", lag: 45, want: CategoryGood},
		{name: "46 is average", lag: 46, want: CategoryAverage},
		{name: "exactly 55 is average", lag: 55, want: CategoryAverage},
		{name: "56 is bad", lag: 56, want: CategoryBad},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := MaturityCategory(History{
				Debts:    []DebtEntry{debt(1000, 0)},
				Payments: []PaymentEntry{payment(300, tc.lag)},
			})
			require.True(t, ok)
			assert.Equal(t, tc.want, got.Category)
		})
	}
}

func TestMaturityCategoryPicksEarliestQualifying(t *testing.T) {
	got, ok := MaturityCategory(History{
		Debts: []DebtEntry{debt(1000, 10)},
		Payments: []PaymentEntry{
			payment(900, 70),
			payment(1000, 5), // before the debt
			payment(100, 12), // too small
			payment(300, 30), // first qualifying
		},
	})
	require.True(t, ok)
	assert.Equal(t, 20.0, got.AverageDays)
}

func TestMaturityCategoryAveragesOnlyQualifyingDebts(t *testing.T) {
	got, ok := MaturityCategory(History{
		Debts: []DebtEntry{
			debt(1000, 0),
			debt(5000, 20),
			debt(100, 30),
		},
		Payments: []PaymentEntry{
			payment(400, 10),
			payment(50, 60),
		},
	})
	require.True(t, ok)
	// debt@0 -> payment@10 (10 days); debt@20 none (needs 1500);
	// debt@30 -> payment@60 (30 days).
	assert.Equal(t, 2, got.Qualifying)
	assert.Equal(t, 20.0, got.AverageDays)
}

func TestMaturityCategorySameInstantQualifies(t *testing.T) {
	got, ok := MaturityCategory(History{
		Debts:    []DebtEntry{debt(1000, 3)},
		Payments: []PaymentEntry{payment(300, 3)},
	})
	require.True(t, ok)
	assert.Equal(t, 0.0, got.AverageDays)
}

func TestMaturityCategoryFloorsPartialDays(t *testing.T) {
	got, ok := MaturityCategory(History{
		Debts: []DebtEntry{debt(1000, 0)},
		Payments: []PaymentEntry{{
			Amount:    decimal.NewFromInt(300),
			CreatedAt: at(45).Add(23 * time.Hour),
		}},
	})
	require.True(t, ok)
	assert.Equal(t, 45.0, got.AverageDays)
	assert.Equal(t, CategoryGood, got.Category)
}

func TestMatchIndexedMatchesNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 200; iter++ {
		var debts []DebtEntry
		var payments []PaymentEntry
		for i := 0; i < rng.Intn(12); i++ {
			debts = append(debts, DebtEntry{
				Amount:    decimal.NewFromInt(int64(rng.Intn(5000) + 1)),
				CreatedAt: day0.Add(time.Duration(rng.Intn(200*24)) * time.Hour),
			})
		}
		for i := 0; i < rng.Intn(15); i++ {
			payments = append(payments, PaymentEntry{
				Amount:    decimal.NewFromInt(int64(rng.Intn(3000) + 1)),
				CreatedAt: day0.Add(time.Duration(rng.Intn(200*24)) * time.Hour),
			})
		}

		sd, sp := sortedDebts(debts), sortedPayments(payments)
		assert.Equal(t, matchNaive(sd, sp), matchIndexed(sd, sp), "iteration %d", iter)
	}
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, int64(0), DaysBetween(day0, day0.Add(23*time.Hour)))
	assert.Equal(t, int64(1), DaysBetween(day0, day0.Add(24*time.Hour)))
	assert.Equal(t, int64(-1), DaysBetween(day0, day0.Add(-time.Hour)))
}
