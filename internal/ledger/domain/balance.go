package domain

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/nasiya/internal/rating/engine"
)

// Balance is sum(debts) - sum(payments), the value total_debt must equal.
func Balance(debts []Debt, payments []Payment) decimal.Decimal {
	total := decimal.Zero
	for _, d := range debts {
		total = total.Add(d.Amount)
	}
	for _, p := range payments {
		total = total.Sub(p.Amount)
	}
	return total
}

// ToHistory converts ledger rows into the rating engine's input shape.
func ToHistory(debts []Debt, payments []Payment) engine.History {
	h := engine.History{
		Debts:    make([]engine.DebtEntry, 0, len(debts)),
		Payments: make([]engine.PaymentEntry, 0, len(payments)),
	}
	for _, d := range debts {
		h.Debts = append(h.Debts, engine.DebtEntry{Amount: d.Amount, CreatedAt: d.CreatedAt})
	}
	for _, p := range payments {
		h.Payments = append(h.Payments, engine.PaymentEntry{Amount: p.Amount, CreatedAt: p.CreatedAt})
	}
	return h
}

// BuildTimeline merges debts and payments in ascending time order. Debts
// sort before payments at the same instant.
func BuildTimeline(debts []Debt, payments []Payment) []TimelineEvent {
	events := make([]TimelineEvent, 0, len(debts)+len(payments))
	for _, d := range debts {
		events = append(events, TimelineEvent{
			Kind:      EventDebt,
			ID:        d.ID,
			Amount:    d.Amount,
			Text:      d.Description,
			CreatedAt: d.CreatedAt,
		})
	}
	for _, p := range payments {
		events = append(events, TimelineEvent{
			Kind:        EventPayment,
			ID:          p.ID,
			Amount:      p.Amount,
			PaymentType: p.PaymentType,
			Text:        p.Note,
			CreatedAt:   p.CreatedAt,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].CreatedAt.Before(events[j].CreatedAt)
		}
		return events[i].Kind == EventDebt && events[j].Kind == EventPayment
	})

	running := decimal.Zero
	for i := range events {
		if events[i].Kind == EventDebt {
			running = running.Add(events[i].Amount)
		} else {
			running = running.Sub(events[i].Amount)
		}
		events[i].Balance = running
	}
	return events
}
