package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/nasiya/internal/clock"
	debtordomain "github.com/smallbiznis/nasiya/internal/debtor/domain"
	ledgerdomain "github.com/smallbiznis/nasiya/internal/ledger/domain"
	ratingdomain "github.com/smallbiznis/nasiya/internal/rating/domain"
	"github.com/smallbiznis/nasiya/internal/rating/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubLedger struct {
	ledgerdomain.Service
	histories map[string]engine.History
}

func (s stubLedger) History(_ context.Context, debtorID string) (engine.History, error) {
	h, ok := s.histories[debtorID]
	if !ok {
		return engine.History{}, debtordomain.ErrNotFound
	}
	return h, nil
}

func newTestService(histories map[string]engine.History, now time.Time) ratingdomain.Service {
	return NewService(ServiceParam{
		Log:      zap.NewNop(),
		Ledger:   stubLedger{histories: histories},
		Registry: engine.DefaultRegistry(),
		Clock:    clock.NewFakeClock(now),
	})
}

func TestRateDebtorAllStrategies(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start.AddDate(0, 0, 40)
	h := engine.History{
		Debts: []engine.DebtEntry{{Amount: decimal.NewFromInt(1000), CreatedAt: start}},
		Payments: []engine.PaymentEntry{
			{Amount: decimal.NewFromInt(400), CreatedAt: start.AddDate(0, 0, 10)},
			{Amount: decimal.NewFromInt(600), CreatedAt: start.AddDate(0, 0, 38)},
		},
	}
	svc := newTestService(map[string]engine.History{"1": h}, now)

	got, err := svc.RateDebtor(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, got.Ratings, 3)

	score := got.Ratings[engine.StrategyScore]
	require.NotNil(t, score.Score)
	assert.Equal(t, 100, *score.Score)
	assert.Equal(t, "excellent", score.Label)

	maturity := got.Ratings[engine.StrategyMaturity]
	require.NotNil(t, maturity.AverageDays)
	assert.Equal(t, 10.0, *maturity.AverageDays)
	assert.Equal(t, "good", maturity.Label)

	interval := got.Ratings[engine.StrategyInterval]
	assert.Equal(t, 28.0, *interval.AverageDays)
}

func TestRateDebtorOmitsStrategiesWithoutOpinion(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	h := engine.History{
		Debts: []engine.DebtEntry{{Amount: decimal.NewFromInt(1000), CreatedAt: start}},
	}
	svc := newTestService(map[string]engine.History{"1": h}, start)

	got, err := svc.RateDebtor(context.Background(), "1")
	require.NoError(t, err)
	assert.Contains(t, got.Ratings, engine.StrategyScore)
	assert.NotContains(t, got.Ratings, engine.StrategyMaturity)
	assert.NotContains(t, got.Ratings, engine.StrategyInterval)
}

func TestRateDebtorErrors(t *testing.T) {
	svc := newTestService(map[string]engine.History{}, time.Now())

	_, err := svc.RateDebtor(context.Background(), "1", engine.Strategy("vibes"))
	assert.ErrorIs(t, err, engine.ErrUnknownStrategy)

	_, err = svc.RateDebtor(context.Background(), "404")
	assert.ErrorIs(t, err, debtordomain.ErrNotFound)
}

func TestParseStrategies(t *testing.T) {
	assert.Equal(t,
		[]engine.Strategy{engine.StrategyScore, engine.StrategyInterval},
		ratingdomain.ParseStrategies(" Score, ,interval"),
	)
	assert.Empty(t, ratingdomain.ParseStrategies(""))
}
