package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	debtordomain "github.com/smallbiznis/nasiya/internal/debtor/domain"
	ledgerdomain "github.com/smallbiznis/nasiya/internal/ledger/domain"
	"github.com/smallbiznis/nasiya/internal/rating/engine"
)

// WindowMonths is how far back cohort data reaches.
const WindowMonths = 3

// WindowStart is the inclusive lower bound of cohort data.
func WindowStart(now time.Time) time.Time {
	return now.UTC().AddDate(0, -WindowMonths, 0)
}

// Member is one rated debtor.
type Member struct {
	DebtorID      snowflake.ID    `json:"debtor_id"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	PhoneNumber   *string         `json:"phone_number,omitempty"`
	PaymentCount  int             `json:"payment_count"`
	ValidPayments int             `json:"valid_payments"`
	AverageDays   float64         `json:"average_days"`
	Category      engine.Category `json:"category"`
}

type Counts struct {
	Good    int `json:"good"`
	Average int `json:"average"`
	Bad     int `json:"bad"`
	Total   int `json:"total"`
}

func CountOf(members []Member) Counts {
	c := Counts{Total: len(members)}
	for _, m := range members {
		switch m.Category {
		case engine.CategoryGood:
			c.Good++
		case engine.CategoryAverage:
			c.Average++
		case engine.CategoryBad:
			c.Bad++
		}
	}
	return c
}

func member(d debtordomain.Debtor) Member {
	return Member{
		DebtorID:    d.ID,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		PhoneNumber: d.PhoneNumber,
	}
}

// ClassifyMaturity rates each debtor with window debts by settlement lag.
// Members keep the order of their first debt. Debtors without a qualifying
// debt-payment pair are left out.
func ClassifyMaturity(debts []ledgerdomain.Debt, payments []ledgerdomain.Payment, debtors map[snowflake.ID]debtordomain.Debtor) []Member {
	sorted := make([]ledgerdomain.Debt, len(debts))
	copy(sorted, debts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) })

	var order []snowflake.ID
	debtsBy := make(map[snowflake.ID][]ledgerdomain.Debt)
	for _, d := range sorted {
		if _, seen := debtsBy[d.DebtorID]; !seen {
			order = append(order, d.DebtorID)
		}
		debtsBy[d.DebtorID] = append(debtsBy[d.DebtorID], d)
	}
	paymentsBy := groupPayments(payments)

	members := make([]Member, 0, len(order))
	for _, id := range order {
		debtor, ok := debtors[id]
		if !ok {
			continue
		}
		debtorPayments := paymentsBy[id]
		if len(debtorPayments) == 0 {
			continue
		}
		m, ok := engine.MaturityCategory(ledgerdomain.ToHistory(debtsBy[id], debtorPayments))
		if !ok {
			continue
		}
		row := member(debtor)
		row.PaymentCount = len(debtorPayments)
		row.ValidPayments = m.Qualifying
		row.AverageDays = m.AverageDays
		row.Category = m.Category
		members = append(members, row)
	}
	return members
}

// ClassifyIntervals rates debtors with at least two window payments by the
// mean gap between them. Members keep the order of their first payment.
func ClassifyIntervals(payments []ledgerdomain.Payment, debtors map[snowflake.ID]debtordomain.Debtor) []Member {
	sorted := make([]ledgerdomain.Payment, len(payments))
	copy(sorted, payments)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) })

	var order []snowflake.ID
	seen := make(map[snowflake.ID]bool)
	for _, p := range sorted {
		if !seen[p.DebtorID] {
			seen[p.DebtorID] = true
			order = append(order, p.DebtorID)
		}
	}
	paymentsBy := groupPayments(sorted)

	members := make([]Member, 0, len(order))
	for _, id := range order {
		debtor, ok := debtors[id]
		if !ok {
			continue
		}
		history := ledgerdomain.ToHistory(nil, paymentsBy[id])
		interval, ok := engine.IntervalCategory(history.Payments)
		if !ok {
			continue
		}
		row := member(debtor)
		row.PaymentCount = len(paymentsBy[id])
		row.ValidPayments = interval.Gaps
		row.AverageDays = interval.AverageDays
		row.Category = interval.Category
		members = append(members, row)
	}
	return members
}

func groupPayments(payments []ledgerdomain.Payment) map[snowflake.ID][]ledgerdomain.Payment {
	out := make(map[snowflake.ID][]ledgerdomain.Payment)
	for _, p := range payments {
		out[p.DebtorID] = append(out[p.DebtorID], p)
	}
	return out
}

// Matches reports whether search is a case-insensitive substring of the
// member's first name, last name or phone.
func (m Member) Matches(search string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	if strings.Contains(strings.ToLower(m.FirstName), search) ||
		strings.Contains(strings.ToLower(m.LastName), search) {
		return true
	}
	return m.PhoneNumber != nil && strings.Contains(strings.ToLower(*m.PhoneNumber), search)
}
