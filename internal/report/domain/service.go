package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	ledgerdomain "github.com/smallbiznis/nasiya/internal/ledger/domain"
	"github.com/smallbiznis/nasiya/internal/report/aggregate"
)

var ErrInvalidDate = errors.New("invalid_date")

// Stats is the dashboard headline. Today is the current UTC day.
type Stats struct {
	Date          string                                       `json:"date"`
	TotalDebtors  int64                                        `json:"total_debtors"`
	TotalDebt     decimal.Decimal                              `json:"total_debt"`
	Debts         ledgerdomain.Totals                          `json:"debts"`
	Payments      ledgerdomain.Totals                          `json:"payments"`
	TodayDebts    ledgerdomain.Totals                          `json:"today_debts"`
	TodayPayments ledgerdomain.Totals                          `json:"today_payments"`
	TodayByType   map[ledgerdomain.PaymentType]decimal.Decimal `json:"today_by_type"`
}

type WindowReport struct {
	Window aggregate.Window        `json:"window"`
	Date   string                  `json:"date"`
	Days   []string                `json:"days"`
	Totals aggregate.WindowTotals  `json:"totals"`
	Daily  []aggregate.DailyBucket `json:"daily"`
}

type Service interface {
	Stats(ctx context.Context) (Stats, error)
	// Chart falls back to a zero-filled series when there are no payments.
	Chart(ctx context.Context) ([]aggregate.DailyBucket, error)
	Window(ctx context.Context, window, date string) (WindowReport, error)
	Trends(ctx context.Context) (aggregate.TrendReport, error)
	Risk(ctx context.Context) (aggregate.RiskSummary, error)
	Heatmap(ctx context.Context) ([]aggregate.HeatmapCell, error)
	Monthly(ctx context.Context) ([]aggregate.MonthlyBucket, error)
}
