package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// QualifyingShare is the fraction of a debt a single payment must cover.
var QualifyingShare = decimal.New(30, -2)

// Maturity is the debt-to-payment settlement rating.
type Maturity struct {
	Category    Category
	AverageDays float64
	// Qualifying is the number of debts that found a qualifying payment.
	Qualifying int
}

// MaturityCategory rates a debtor by the average number of days between each
// debt and the earliest later payment covering at least 30% of it. Debts
// without such a payment are left out. ok is false when no debt qualifies.
func MaturityCategory(h History) (Maturity, bool) {
	return maturityFromLags(SettlementLags(h.Debts, h.Payments))
}

// SettlementLags returns, per qualifying debt in creation order, the lag in
// days to its first qualifying payment.
func SettlementLags(debts []DebtEntry, payments []PaymentEntry) []int64 {
	return matchIndexed(sortedDebts(debts), sortedPayments(payments))
}

func maturityFromLags(lags []int64) (Maturity, bool) {
	if len(lags) == 0 {
		return Maturity{}, false
	}
	var total int64
	for _, lag := range lags {
		total += lag
	}
	avg := float64(total) / float64(len(lags))
	return Maturity{
		Category:    Categorize(avg),
		AverageDays: avg,
		Qualifying:  len(lags),
	}, true
}

func minimumFor(debt DebtEntry) decimal.Decimal {
	return debt.Amount.Mul(QualifyingShare)
}

// matchNaive scans every payment for each debt. Both inputs must be sorted.
func matchNaive(debts []DebtEntry, payments []PaymentEntry) []int64 {
	lags := make([]int64, 0, len(debts))
	for _, debt := range debts {
		threshold := minimumFor(debt)
		for _, p := range payments {
			if p.CreatedAt.Before(debt.CreatedAt) || p.Amount.LessThan(threshold) {
				continue
			}
			lags = append(lags, DaysBetween(debt.CreatedAt, p.CreatedAt))
			break
		}
	}
	return lags
}

// matchIndexed binary-searches the first payment not before each debt, then
// scans forward for the amount. Both inputs must be sorted.
func matchIndexed(debts []DebtEntry, payments []PaymentEntry) []int64 {
	lags := make([]int64, 0, len(debts))
	for _, debt := range debts {
		start := sort.Search(len(payments), func(i int) bool {
			return !payments[i].CreatedAt.Before(debt.CreatedAt)
		})
		threshold := minimumFor(debt)
		for _, p := range payments[start:] {
			if p.Amount.LessThan(threshold) {
				continue
			}
			lags = append(lags, DaysBetween(debt.CreatedAt, p.CreatedAt))
			break
		}
	}
	return lags
}
