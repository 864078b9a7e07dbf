package aggregate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	debtordomain "github.com/smallbiznis/nasiya/internal/debtor/domain"
	ledgerdomain "github.com/smallbiznis/nasiya/internal/ledger/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func pay(ts string, amount int64, typ ledgerdomain.PaymentType) ledgerdomain.Payment {
	return ledgerdomain.Payment{Amount: decimal.NewFromInt(amount), PaymentType: typ, CreatedAt: at(ts)}
}

func debt(ts string, amount int64) ledgerdomain.Debt {
	return ledgerdomain.Debt{Amount: decimal.NewFromInt(amount), CreatedAt: at(ts)}
}

func decEq(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.NewFromInt(want)), "want %d, got %s", want, got)
}

func TestDailyPaymentsGroupsByUTCDay(t *testing.T) {
	payments := []ledgerdomain.Payment{
		pay("2025-03-02T23:30:00+05:00", 100, ledgerdomain.PaymentTypeCash), // 2025-03-02 18:30 UTC
		pay("2025-03-01T10:00:00Z", 50, ledgerdomain.PaymentTypeCard),
		pay("2025-03-02T08:00:00Z", 25, ledgerdomain.PaymentTypeClick),
		pay("2025-03-02T09:00:00Z", 75, ledgerdomain.PaymentTypeCash),
	}

	buckets := DailyPayments(payments)
	require.Len(t, buckets, 2)
	assert.Equal(t, "2025-03-01", buckets[0].Date)
	decEq(t, 50, buckets[0].Card)
	assert.Equal(t, "2025-03-02", buckets[1].Date)
	decEq(t, 175, buckets[1].Cash)
	decEq(t, 25, buckets[1].Click)
	decEq(t, 0, buckets[1].Card)
}

func TestPlaceholderSeries(t *testing.T) {
	series := PlaceholderSeries(at("2025-03-10T12:00:00Z"), PlaceholderDays)
	require.Len(t, series, 30)
	assert.Equal(t, "2025-02-09", series[0].Date)
	assert.Equal(t, "2025-03-10", series[29].Date)
	decEq(t, 0, series[29].Cash)
}

func TestMonthlyTotals(t *testing.T) {
	buckets := MonthlyTotals(
		[]ledgerdomain.Payment{
			pay("2025-02-10T00:00:00Z", 10, ledgerdomain.PaymentTypeCash),
			pay("2025-01-31T23:59:59Z", 5, ledgerdomain.PaymentTypeCash),
		},
		[]ledgerdomain.Debt{debt("2025-02-01T00:00:00Z", 100)},
	)
	require.Len(t, buckets, 2)
	assert.Equal(t, "2025-01", buckets[0].Month)
	decEq(t, 5, buckets[0].Payments)
	assert.Equal(t, "2025-02", buckets[1].Month)
	decEq(t, 10, buckets[1].Payments)
	decEq(t, 100, buckets[1].Debts)
}

func TestWindowDays(t *testing.T) {
	selected := at("2025-02-03T15:00:00Z")

	tests := []struct {
		window Window
		first  string
		last   string
		count  int
	}{
		{WindowDaily, "2025-02-03", "2025-02-03", 1},
		{WindowWeekly, "2025-01-28", "2025-02-03", 7},
		{WindowMonthly, "2025-02-01", "2025-02-28", 28},
	}
	for _, tt := range tests {
		t.Run(string(tt.window), func(t *testing.T) {
			days, err := WindowDays(tt.window, selected)
			require.NoError(t, err)
			require.Len(t, days, tt.count)
			assert.Equal(t, tt.first, days[0])
			assert.Equal(t, tt.last, days[len(days)-1])
		})
	}

	_, err := WindowDays(Window("yearly"), selected)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("")
	require.NoError(t, err)
	assert.Equal(t, WindowDaily, w)

	w, err = ParseWindow("Month")
	require.NoError(t, err)
	assert.Equal(t, WindowMonthly, w)

	_, err = ParseWindow("quarter")
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestWindowTotals(t *testing.T) {
	payments := []ledgerdomain.Payment{
		pay("2025-02-03T01:00:00Z", 100, ledgerdomain.PaymentTypeCash),
		pay("2025-02-02T01:00:00Z", 30, ledgerdomain.PaymentTypeCard),
		pay("2025-01-20T01:00:00Z", 999, ledgerdomain.PaymentTypeClick),
	}
	debts := []ledgerdomain.Debt{debt("2025-02-01T00:00:00Z", 500), debt("2025-01-01T00:00:00Z", 1)}

	days, err := WindowDays(WindowWeekly, at("2025-02-03T00:00:00Z"))
	require.NoError(t, err)

	totals := Totals(FilterPayments(payments, days), FilterDebts(debts, days))
	decEq(t, 100, totals.Cash)
	decEq(t, 30, totals.Card)
	decEq(t, 0, totals.Click)
	decEq(t, 130, totals.TotalPayments)
	decEq(t, 500, totals.TotalDebts)
}

func TestRisk(t *testing.T) {
	limit := decimal.NewFromInt(1000)
	debtors := []debtordomain.Debtor{
		{TotalDebt: decimal.NewFromInt(1500)},
		{TotalDebt: decimal.NewFromInt(1500), IsOverdue: true},
		{TotalDebt: decimal.NewFromInt(1000)},
		{TotalDebt: decimal.NewFromInt(10), IsOverdue: true},
		{TotalDebt: decimal.Zero},
		{TotalDebt: decimal.NewFromInt(-5)},
	}

	got := Risk(debtors, limit)
	assert.Equal(t, RiskSummary{Total: 6, High: 2, Medium: 1, Low: 2, Overdue: 2}, got)
}

func TestTrends(t *testing.T) {
	now := at("2025-03-15T12:00:00Z")
	payments := []ledgerdomain.Payment{
		pay("2025-03-01T00:00:00Z", 150, ledgerdomain.PaymentTypeCash),
		pay("2025-02-10T00:00:00Z", 100, ledgerdomain.PaymentTypeCash),
		pay("2025-02-28T23:59:59Z", 100, ledgerdomain.PaymentTypeCash),
		pay("2025-01-10T00:00:00Z", 999, ledgerdomain.PaymentTypeCash),
	}
	debts := []ledgerdomain.Debt{debt("2025-03-02T00:00:00Z", 50)}

	report := Trends(payments, debts, now)

	decEq(t, 150, report.Payments.Current)
	decEq(t, 200, report.Payments.Previous)
	assert.Equal(t, DirectionDown, report.Payments.Direction)
	assert.InDelta(t, 25.0, report.Payments.Percent, 0.001)

	assert.Equal(t, DirectionNeutral, report.Debts.Direction)
	assert.Zero(t, report.Debts.Percent)

	decEq(t, 1, report.PaymentCount.Current)
	decEq(t, 2, report.PaymentCount.Previous)
	assert.InDelta(t, 50.0, report.PaymentCount.Percent, 0.001)
}

func TestNewTrendUp(t *testing.T) {
	tr := NewTrend(decimal.NewFromInt(300), decimal.NewFromInt(200))
	assert.Equal(t, DirectionUp, tr.Direction)
	assert.InDelta(t, 50.0, tr.Percent, 0.001)

	flat := NewTrend(decimal.NewFromInt(200), decimal.NewFromInt(200))
	assert.Equal(t, DirectionNeutral, flat.Direction)
}

func TestHeatmap(t *testing.T) {
	now := at("2025-03-31T10:00:00Z")
	payments := []ledgerdomain.Payment{
		pay("2025-03-31T01:00:00Z", 1000, ledgerdomain.PaymentTypeCash),
		pay("2025-03-30T01:00:00Z", 200, ledgerdomain.PaymentTypeCash),
		pay("2025-03-29T01:00:00Z", 400, ledgerdomain.PaymentTypeCash),
		pay("2025-03-28T01:00:00Z", 600, ledgerdomain.PaymentTypeCash),
		pay("2025-03-28T02:00:00Z", 100, ledgerdomain.PaymentTypeCard),
		pay("2024-12-01T00:00:00Z", 5000, ledgerdomain.PaymentTypeCash),
	}

	cells := Heatmap(payments, now)
	require.Len(t, cells, HeatmapDays)
	assert.Equal(t, "2025-01-01", cells[0].Date)

	last := cells[len(cells)-1]
	assert.Equal(t, "2025-03-31", last.Date)
	assert.Equal(t, 4, last.Intensity)

	assert.Equal(t, 1, cells[len(cells)-2].Intensity)
	assert.Equal(t, 2, cells[len(cells)-3].Intensity)

	mar28 := cells[len(cells)-4]
	assert.Equal(t, 2, mar28.Count)
	decEq(t, 700, mar28.Amount)
	assert.Equal(t, 3, mar28.Intensity)

	assert.Equal(t, 0, cells[0].Intensity)
}
