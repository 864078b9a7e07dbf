package aggregate

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	ledgerdomain "github.com/smallbiznis/nasiya/internal/ledger/domain"
)

type Window string

const (
	WindowDaily   Window = "daily"
	WindowWeekly  Window = "weekly"
	WindowMonthly Window = "monthly"
)

var ErrInvalidWindow = errors.New("invalid_window")

func ParseWindow(raw string) (Window, error) {
	switch Window(strings.ToLower(strings.TrimSpace(raw))) {
	case "", WindowDaily:
		return WindowDaily, nil
	case WindowWeekly, "week":
		return WindowWeekly, nil
	case WindowMonthly, "month":
		return WindowMonthly, nil
	default:
		return "", ErrInvalidWindow
	}
}

// WindowDays lists the UTC day keys covered by a window anchored at selected.
// Weekly spans the seven days ending on selected.
func WindowDays(window Window, selected time.Time) ([]string, error) {
	day := selected.UTC()
	switch window {
	case WindowDaily:
		return []string{DayKey(day)}, nil
	case WindowWeekly:
		out := make([]string, 0, 7)
		for i := 6; i >= 0; i-- {
			out = append(out, DayKey(day.AddDate(0, 0, -i)))
		}
		return out, nil
	case WindowMonthly:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0)
		var out []string
		for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
			out = append(out, DayKey(d))
		}
		return out, nil
	default:
		return nil, ErrInvalidWindow
	}
}

func daySet(days []string) map[string]struct{} {
	set := make(map[string]struct{}, len(days))
	for _, d := range days {
		set[d] = struct{}{}
	}
	return set
}

func FilterPayments(payments []ledgerdomain.Payment, days []string) []ledgerdomain.Payment {
	set := daySet(days)
	out := make([]ledgerdomain.Payment, 0, len(payments))
	for _, p := range payments {
		if _, ok := set[DayKey(p.CreatedAt)]; ok {
			out = append(out, p)
		}
	}
	return out
}

func FilterDebts(debts []ledgerdomain.Debt, days []string) []ledgerdomain.Debt {
	set := daySet(days)
	out := make([]ledgerdomain.Debt, 0, len(debts))
	for _, d := range debts {
		if _, ok := set[DayKey(d.CreatedAt)]; ok {
			out = append(out, d)
		}
	}
	return out
}

type WindowTotals struct {
	Cash          decimal.Decimal `json:"cash"`
	Card          decimal.Decimal `json:"card"`
	Click         decimal.Decimal `json:"click"`
	TotalPayments decimal.Decimal `json:"total_payments"`
	TotalDebts    decimal.Decimal `json:"total_debts"`
}

func Totals(payments []ledgerdomain.Payment, debts []ledgerdomain.Debt) WindowTotals {
	var t WindowTotals
	for _, p := range payments {
		switch p.PaymentType {
		case ledgerdomain.PaymentTypeCash:
			t.Cash = t.Cash.Add(p.Amount)
		case ledgerdomain.PaymentTypeCard:
			t.Card = t.Card.Add(p.Amount)
		case ledgerdomain.PaymentTypeClick:
			t.Click = t.Click.Add(p.Amount)
		}
		t.TotalPayments = t.TotalPayments.Add(p.Amount)
	}
	for _, d := range debts {
		t.TotalDebts = t.TotalDebts.Add(d.Amount)
	}
	return t
}
