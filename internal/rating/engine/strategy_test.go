package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryStrategiesAreIndependent(t *testing.T) {
	reg := DefaultRegistry()
	assert.Equal(t, []Strategy{StrategyScore, StrategyMaturity, StrategyInterval}, reg.Names())

	// One debt repaid slowly in one instalment: the score is high (fully
	// repaid) while maturity is bad and interval has no opinion.
	h := History{
		Debts:    []DebtEntry{debt(1000, 0)},
		Payments: []PaymentEntry{payment(1000, 90)},
	}
	now := at(92)

	score, err := reg.Lookup(StrategyScore)
	require.NoError(t, err)
	r, ok := score.Rate(h, now)
	require.True(t, ok)
	require.NotNil(t, r.Score)
	assert.Equal(t, 100, *r.Score)
	assert.Equal(t, "excellent", r.Label)

	maturity, err := reg.Lookup(StrategyMaturity)
	require.NoError(t, err)
	r, ok = maturity.Rate(h, now)
	require.True(t, ok)
	assert.Equal(t, "bad", r.Label)
	require.NotNil(t, r.AverageDays)
	assert.Equal(t, 90.0, *r.AverageDays)

	interval, err := reg.Lookup(StrategyInterval)
	require.NoError(t, err)
	_, ok = interval.Rate(h, now)
	assert.False(t, ok)
}

func TestRegistryUnknownStrategy(t *testing.T) {
	_, err := DefaultRegistry().Lookup("stars")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}
