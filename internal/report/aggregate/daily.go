package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	ledgerdomain "github.com/smallbiznis/nasiya/internal/ledger/domain"
)

// DayLayout is the UTC day key used by every bucketed series.
const DayLayout = "2006-01-02"

const monthLayout = "2006-01"

// PlaceholderDays is the length of the zero-filled chart series.
const PlaceholderDays = 30

type DailyBucket struct {
	Date  string          `json:"date"`
	Cash  decimal.Decimal `json:"cash"`
	Card  decimal.Decimal `json:"card"`
	Click decimal.Decimal `json:"click"`
}

type MonthlyBucket struct {
	Month    string          `json:"month"`
	Payments decimal.Decimal `json:"payments"`
	Debts    decimal.Decimal `json:"debts"`
}

func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// DailyPayments groups payments by UTC day and payment type, oldest first.
func DailyPayments(payments []ledgerdomain.Payment) []DailyBucket {
	byDay := make(map[string]*DailyBucket)
	for _, p := range payments {
		key := DayKey(p.CreatedAt)
		bucket, ok := byDay[key]
		if !ok {
			bucket = &DailyBucket{Date: key}
			byDay[key] = bucket
		}
		switch p.PaymentType {
		case ledgerdomain.PaymentTypeCash:
			bucket.Cash = bucket.Cash.Add(p.Amount)
		case ledgerdomain.PaymentTypeCard:
			bucket.Card = bucket.Card.Add(p.Amount)
		case ledgerdomain.PaymentTypeClick:
			bucket.Click = bucket.Click.Add(p.Amount)
		}
	}

	out := make([]DailyBucket, 0, len(byDay))
	for _, bucket := range byDay {
		out = append(out, *bucket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// PlaceholderSeries returns zero buckets for the given number of days ending
// today, oldest first.
func PlaceholderSeries(now time.Time, days int) []DailyBucket {
	if days <= 0 {
		days = PlaceholderDays
	}
	today := now.UTC()
	out := make([]DailyBucket, 0, days)
	for i := days - 1; i >= 0; i-- {
		out = append(out, DailyBucket{Date: DayKey(today.AddDate(0, 0, -i))})
	}
	return out
}

// MonthlyTotals sums payments and debts per UTC calendar month.
func MonthlyTotals(payments []ledgerdomain.Payment, debts []ledgerdomain.Debt) []MonthlyBucket {
	byMonth := make(map[string]*MonthlyBucket)
	get := func(t time.Time) *MonthlyBucket {
		key := t.UTC().Format(monthLayout)
		bucket, ok := byMonth[key]
		if !ok {
			bucket = &MonthlyBucket{Month: key}
			byMonth[key] = bucket
		}
		return bucket
	}
	for _, p := range payments {
		b := get(p.CreatedAt)
		b.Payments = b.Payments.Add(p.Amount)
	}
	for _, d := range debts {
		b := get(d.CreatedAt)
		b.Debts = b.Debts.Add(d.Amount)
	}

	out := make([]MonthlyBucket, 0, len(byMonth))
	for _, bucket := range byMonth {
		out = append(out, *bucket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
