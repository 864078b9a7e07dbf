package engine

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	now := at(100)

	cases := []struct {
		name      string
		history   History
		wantScore int
		wantLabel ScoreLabel
		wantBonus int
	}{
		{
			name:      "no history",
			history:   History{},
			wantScore: 0,
			wantLabel: ScoreBad,
		},
		{
			name: "fully repaid this week",
			history: History{
				Debts:    []DebtEntry{debt(1000, 0)},
				Payments: []PaymentEntry{payment(1000, 98)},
			},
			wantScore: 100,
			wantLabel: ScoreExcellent,
			wantBonus: 30,
		},
		{
			name: "half repaid within the month",
			history: History{
				Debts:    []DebtEntry{debt(1000, 0)},
				Payments: []PaymentEntry{payment(500, 80)},
			},
			wantScore: 50,
			wantLabel: ScoreAverage,
			wantBonus: 15,
		},
		{
			name: "overpaid caps ratio at one, stale payment",
			history: History{
				Debts:    []DebtEntry{debt(100, 0)},
				Payments: []PaymentEntry{payment(300, 10)},
			},
			wantScore: 70,
			wantLabel: ScoreGood,
		},
		{
			name: "payments without debts use denominator one",
			history: History{
				Payments: []PaymentEntry{payment(1, 99)},
			},
			wantScore: 100,
			wantLabel: ScoreExcellent,
			wantBonus: 30,
		},
		{
			name: "rounding half up",
			history: History{
				Debts:    []DebtEntry{debt(1000, 0)},
				Payments: []PaymentEntry{payment(650, 10)},
			},
			// 0.65 * 70 = 45.5 -> 46
			wantScore: 46,
			wantLabel: ScoreAverage,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(tc.history, now)
			assert.Equal(t, tc.wantScore, got.Score)
			assert.Equal(t, tc.wantLabel, got.Label)
			assert.Equal(t, tc.wantBonus, got.RecencyBonus)
		})
	}
}

func TestScoreRecencyUsesFractionalDays(t *testing.T) {
	h := History{
		Debts:    []DebtEntry{debt(1000, 0)},
		Payments: []PaymentEntry{payment(0, 0)},
	}
	justUnder := Score(h, at(7).Add(-time.Minute))
	assert.Equal(t, 30, justUnder.RecencyBonus)

	exactlySeven := Score(h, at(7))
	assert.Equal(t, 15, exactlySeven.RecencyBonus)

	exactlyThirty := Score(h, at(30))
	assert.Equal(t, 0, exactlyThirty.RecencyBonus)
}

func TestScoreNoPaymentsIsInfinitelyOld(t *testing.T) {
	got := Score(History{Debts: []DebtEntry{debt(10, 0)}}, at(1))
	assert.True(t, math.IsInf(got.DaysSinceLastPayment, 1))
	assert.Equal(t, 0, got.RecencyBonus)
}

func TestLabelForScore(t *testing.T) {
	assert.Equal(t, ScoreBad, LabelForScore(44))
	assert.Equal(t, ScoreAverage, LabelForScore(45))
	assert.Equal(t, ScoreAverage, LabelForScore(64))
	assert.Equal(t, ScoreGood, LabelForScore(65))
	assert.Equal(t, ScoreGood, LabelForScore(84))
	assert.Equal(t, ScoreExcellent, LabelForScore(85))
}
