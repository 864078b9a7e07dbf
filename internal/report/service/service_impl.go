package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/nasiya/internal/clock"
	debtordomain "github.com/smallbiznis/nasiya/internal/debtor/domain"
	ledgerdomain "github.com/smallbiznis/nasiya/internal/ledger/domain"
	"github.com/smallbiznis/nasiya/internal/report/aggregate"
	"github.com/smallbiznis/nasiya/internal/report/domain"
	settingsdomain "github.com/smallbiznis/nasiya/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	LedgerRepo ledgerdomain.Repository
	DebtorRepo debtordomain.Repository
	Limits     settingsdomain.LimitProvider
	Clock      clock.Clock
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	ledgerRepo ledgerdomain.Repository
	debtorRepo debtordomain.Repository
	limits     settingsdomain.LimitProvider
	clock      clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("report.service"),
		ledgerRepo: p.LedgerRepo,
		debtorRepo: p.DebtorRepo,
		limits:     p.Limits,
		clock:      p.Clock,
	}
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	now := s.clock.Now().UTC()
	todayStart := startOfDay(now)
	todayEnd := todayStart.AddDate(0, 0, 1)

	summary, err := s.debtorRepo.Summary(ctx, s.db)
	if err != nil {
		return domain.Stats{}, err
	}
	debts, err := s.ledgerRepo.SumDebts(ctx, s.db, nil, nil)
	if err != nil {
		return domain.Stats{}, err
	}
	todayDebts, err := s.ledgerRepo.SumDebts(ctx, s.db, &todayStart, &todayEnd)
	if err != nil {
		return domain.Stats{}, err
	}
	byType, err := s.ledgerRepo.SumPaymentsByType(ctx, s.db, nil, nil)
	if err != nil {
		return domain.Stats{}, err
	}
	todayByType, err := s.ledgerRepo.SumPaymentsByType(ctx, s.db, &todayStart, &todayEnd)
	if err != nil {
		return domain.Stats{}, err
	}

	stats := domain.Stats{
		Date:          aggregate.DayKey(now),
		TotalDebtors:  summary.Count,
		TotalDebt:     summary.TotalDebt,
		Debts:         debts,
		TodayDebts:    todayDebts,
		Payments:      ledgerdomain.Totals{Amount: decimal.Zero},
		TodayPayments: ledgerdomain.Totals{Amount: decimal.Zero},
		TodayByType: map[ledgerdomain.PaymentType]decimal.Decimal{
			ledgerdomain.PaymentTypeCash:  decimal.Zero,
			ledgerdomain.PaymentTypeCard:  decimal.Zero,
			ledgerdomain.PaymentTypeClick: decimal.Zero,
		},
	}
	for _, totals := range byType {
		stats.Payments.Count += totals.Count
		stats.Payments.Amount = stats.Payments.Amount.Add(totals.Amount)
	}
	for typ, totals := range todayByType {
		stats.TodayPayments.Count += totals.Count
		stats.TodayPayments.Amount = stats.TodayPayments.Amount.Add(totals.Amount)
		stats.TodayByType[typ] = totals.Amount
	}
	return stats, nil
}

func (s *Service) Chart(ctx context.Context) ([]aggregate.DailyBucket, error) {
	payments, err := s.payments(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	buckets := aggregate.DailyPayments(payments)
	if len(buckets) == 0 {
		return aggregate.PlaceholderSeries(s.clock.Now(), aggregate.PlaceholderDays), nil
	}
	return buckets, nil
}

func (s *Service) Window(ctx context.Context, rawWindow, rawDate string) (domain.WindowReport, error) {
	window, err := aggregate.ParseWindow(rawWindow)
	if err != nil {
		return domain.WindowReport{}, err
	}

	selected := s.clock.Now().UTC()
	if rawDate = strings.TrimSpace(rawDate); rawDate != "" {
		selected, err = time.Parse(aggregate.DayLayout, rawDate)
		if err != nil {
			return domain.WindowReport{}, domain.ErrInvalidDate
		}
	}

	days, err := aggregate.WindowDays(window, selected)
	if err != nil {
		return domain.WindowReport{}, err
	}

	from, _ := time.Parse(aggregate.DayLayout, days[0])
	last, _ := time.Parse(aggregate.DayLayout, days[len(days)-1])
	to := last.AddDate(0, 0, 1)

	payments, err := s.payments(ctx, &from, &to)
	if err != nil {
		return domain.WindowReport{}, err
	}
	debts, err := s.debts(ctx, &from, &to)
	if err != nil {
		return domain.WindowReport{}, err
	}
	payments = aggregate.FilterPayments(payments, days)
	debts = aggregate.FilterDebts(debts, days)

	return domain.WindowReport{
		Window: window,
		Date:   aggregate.DayKey(selected),
		Days:   days,
		Totals: aggregate.Totals(payments, debts),
		Daily:  aggregate.DailyPayments(payments),
	}, nil
}

func (s *Service) Trends(ctx context.Context) (aggregate.TrendReport, error) {
	now := s.clock.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)

	payments, err := s.payments(ctx, &from, nil)
	if err != nil {
		return aggregate.TrendReport{}, err
	}
	debts, err := s.debts(ctx, &from, nil)
	if err != nil {
		return aggregate.TrendReport{}, err
	}
	return aggregate.Trends(payments, debts, now), nil
}

func (s *Service) Risk(ctx context.Context) (aggregate.RiskSummary, error) {
	items, err := s.debtorRepo.ListAll(ctx, s.db)
	if err != nil {
		return aggregate.RiskSummary{}, err
	}
	debtors := make([]debtordomain.Debtor, 0, len(items))
	for _, item := range items {
		if item != nil {
			debtors = append(debtors, *item)
		}
	}
	return aggregate.Risk(debtors, s.limits.DebtLimit(ctx)), nil
}

func (s *Service) Heatmap(ctx context.Context) ([]aggregate.HeatmapCell, error) {
	now := s.clock.Now().UTC()
	from := startOfDay(now).AddDate(0, 0, -(aggregate.HeatmapDays - 1))

	payments, err := s.payments(ctx, &from, nil)
	if err != nil {
		return nil, err
	}
	return aggregate.Heatmap(payments, now), nil
}

func (s *Service) Monthly(ctx context.Context) ([]aggregate.MonthlyBucket, error) {
	payments, err := s.payments(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	debts, err := s.debts(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	return aggregate.MonthlyTotals(payments, debts), nil
}

func (s *Service) payments(ctx context.Context, from, to *time.Time) ([]ledgerdomain.Payment, error) {
	items, err := s.ledgerRepo.ListPayments(ctx, s.db, ledgerdomain.PaymentFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}
	out := make([]ledgerdomain.Payment, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *Service) debts(ctx context.Context, from, to *time.Time) ([]ledgerdomain.Debt, error) {
	items, err := s.ledgerRepo.ListDebts(ctx, s.db, ledgerdomain.DebtFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}
	out := make([]ledgerdomain.Debt, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, *item)
		}
	}
	return out, nil
}
