package domain

import (
	"context"
	"strings"

	"github.com/smallbiznis/nasiya/internal/rating/engine"
)

// DebtorRating holds every strategy that produced a rating. Strategies are
// independent and never reconciled.
type DebtorRating struct {
	DebtorID string                            `json:"debtor_id"`
	Ratings  map[engine.Strategy]engine.Rating `json:"ratings"`
}

type Service interface {
	// RateDebtor evaluates the given strategies, or all registered ones
	// when none are given.
	RateDebtor(ctx context.Context, debtorID string, strategies ...engine.Strategy) (DebtorRating, error)
}

// ParseStrategies splits a comma separated list such as "score,maturity".
func ParseStrategies(raw string) []engine.Strategy {
	var out []engine.Strategy
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		out = append(out, engine.Strategy(part))
	}
	return out
}
