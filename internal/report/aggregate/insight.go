package aggregate

import (
	"time"

	"github.com/shopspring/decimal"
	debtordomain "github.com/smallbiznis/nasiya/internal/debtor/domain"
	ledgerdomain "github.com/smallbiznis/nasiya/internal/ledger/domain"
)

// HeatmapDays is the length of the payment calendar.
const HeatmapDays = 90

type RiskSummary struct {
	Total   int `json:"total"`
	High    int `json:"high"`
	Medium  int `json:"medium"`
	Low     int `json:"low"`
	Overdue int `json:"overdue"`
}

// Risk buckets debtors against the debt limit. Overdue is counted
// independently of the other buckets.
func Risk(debtors []debtordomain.Debtor, limit decimal.Decimal) RiskSummary {
	summary := RiskSummary{Total: len(debtors)}
	for _, d := range debtors {
		switch {
		case d.TotalDebt.GreaterThan(limit) && d.TotalDebt.IsPositive():
			summary.High++
		case d.TotalDebt.IsPositive() && !d.IsOverdue:
			summary.Medium++
		case !d.TotalDebt.IsPositive():
			summary.Low++
		}
		if d.IsOverdue {
			summary.Overdue++
		}
	}
	return summary
}

type Direction string

const (
	DirectionUp      Direction = "up"
	DirectionDown    Direction = "down"
	DirectionNeutral Direction = "neutral"
)

type Trend struct {
	Current   decimal.Decimal `json:"current"`
	Previous  decimal.Decimal `json:"previous"`
	Percent   float64         `json:"percent"`
	Direction Direction       `json:"direction"`
}

type TrendReport struct {
	Payments     Trend `json:"payments"`
	Debts        Trend `json:"debts"`
	PaymentCount Trend `json:"payment_count"`
}

func NewTrend(current, previous decimal.Decimal) Trend {
	t := Trend{Current: current, Previous: previous, Direction: DirectionNeutral}
	if previous.IsZero() {
		return t
	}
	change := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100))
	switch change.Sign() {
	case 1:
		t.Direction = DirectionUp
	case -1:
		t.Direction = DirectionDown
	}
	t.Percent = change.Abs().Round(1).InexactFloat64()
	return t
}

// Trends compares the current month to date with the previous full month.
func Trends(payments []ledgerdomain.Payment, debts []ledgerdomain.Debt, now time.Time) TrendReport {
	now = now.UTC()
	curStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	prevStart := curStart.AddDate(0, -1, 0)

	inCurrent := func(t time.Time) bool {
		t = t.UTC()
		return !t.Before(curStart) && !t.After(now)
	}
	inPrevious := func(t time.Time) bool {
		t = t.UTC()
		return !t.Before(prevStart) && t.Before(curStart)
	}

	var curPay, prevPay, curDebt, prevDebt decimal.Decimal
	var curCount, prevCount int64
	for _, p := range payments {
		switch {
		case inCurrent(p.CreatedAt):
			curPay = curPay.Add(p.Amount)
			curCount++
		case inPrevious(p.CreatedAt):
			prevPay = prevPay.Add(p.Amount)
			prevCount++
		}
	}
	for _, d := range debts {
		switch {
		case inCurrent(d.CreatedAt):
			curDebt = curDebt.Add(d.Amount)
		case inPrevious(d.CreatedAt):
			prevDebt = prevDebt.Add(d.Amount)
		}
	}

	return TrendReport{
		Payments:     NewTrend(curPay, prevPay),
		Debts:        NewTrend(curDebt, prevDebt),
		PaymentCount: NewTrend(decimal.NewFromInt(curCount), decimal.NewFromInt(prevCount)),
	}
}

type HeatmapCell struct {
	Date      string          `json:"date"`
	Count     int             `json:"count"`
	Amount    decimal.Decimal `json:"amount"`
	Intensity int             `json:"intensity"`
}

// Heatmap returns one cell per UTC day for the last 90 days, oldest first.
func Heatmap(payments []ledgerdomain.Payment, now time.Time) []HeatmapCell {
	cells := make([]HeatmapCell, 0, HeatmapDays)
	index := make(map[string]int, HeatmapDays)
	today := now.UTC()
	for i := HeatmapDays - 1; i >= 0; i-- {
		key := DayKey(today.AddDate(0, 0, -i))
		index[key] = len(cells)
		cells = append(cells, HeatmapCell{Date: key})
	}

	for _, p := range payments {
		i, ok := index[DayKey(p.CreatedAt)]
		if !ok {
			continue
		}
		cells[i].Count++
		cells[i].Amount = cells[i].Amount.Add(p.Amount)
	}

	peak := decimal.NewFromInt(1)
	for _, c := range cells {
		if c.Amount.GreaterThan(peak) {
			peak = c.Amount
		}
	}
	for i := range cells {
		cells[i].Intensity = intensity(cells[i].Amount, peak)
	}
	return cells
}

func intensity(amount, peak decimal.Decimal) int {
	if amount.IsZero() {
		return 0
	}
	pct := amount.Div(peak).Mul(decimal.NewFromInt(100))
	switch {
	case pct.LessThan(decimal.NewFromInt(25)):
		return 1
	case pct.LessThan(decimal.NewFromInt(50)):
		return 2
	case pct.LessThan(decimal.NewFromInt(75)):
		return 3
	default:
		return 4
	}
}
