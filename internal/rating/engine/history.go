// Package engine computes payment-behaviour ratings from a debtor's debt and
// payment history. Every function here is pure: callers load the history and
// pass the evaluation time explicitly.
package engine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const msPerDay = int64(24 * time.Hour / time.Millisecond)

type DebtEntry struct {
	Amount    decimal.Decimal
	CreatedAt time.Time
}

type PaymentEntry struct {
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// History is one debtor's debts and payments in any order.
type History struct {
	Debts    []DebtEntry
	Payments []PaymentEntry
}

// Category is the maturity or interval classification.
type Category string

const (
	CategoryGood    Category = "good"
	CategoryAverage Category = "average"
	CategoryBad     Category = "bad"
)

const (
	GoodMaxDays    = 45.0
	AverageMaxDays = 55.0
)

// Categorize maps an average day count onto good (<=45), average (<=55) or bad.
func Categorize(avgDays float64) Category {
	switch {
	case avgDays <= GoodMaxDays:
		return CategoryGood
	case avgDays <= AverageMaxDays:
		return CategoryAverage
	default:
		return CategoryBad
	}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryGood, CategoryAverage, CategoryBad:
		return true
	default:
		return false
	}
}

// DaysBetween is floor((to - from) in milliseconds / one day).
func DaysBetween(from, to time.Time) int64 {
	diff := to.UnixMilli() - from.UnixMilli()
	days := diff / msPerDay
	if diff%msPerDay != 0 && diff < 0 {
		days--
	}
	return days
}

func sortedDebts(debts []DebtEntry) []DebtEntry {
	out := append([]DebtEntry(nil), debts...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func sortedPayments(payments []PaymentEntry) []PaymentEntry {
	out := append([]PaymentEntry(nil), payments...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
