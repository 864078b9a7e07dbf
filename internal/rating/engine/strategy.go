package engine

import (
	"errors"
	"time"
)

// Strategy names a rating provider.
type Strategy string

const (
	StrategyScore    Strategy = "score"
	StrategyMaturity Strategy = "maturity"
	StrategyInterval Strategy = "interval"
)

var ErrUnknownStrategy = errors.New("unknown_rating_strategy")

// Rating is the common output shape of every provider. Fields that a
// strategy does not produce are nil.
type Rating struct {
	Strategy    Strategy `json:"strategy"`
	Label       string   `json:"label"`
	Score       *int     `json:"score,omitempty"`
	AverageDays *float64 `json:"average_days,omitempty"`
	Samples     int      `json:"samples"`
}

// Provider rates a single history. ok is false when the strategy has no
// opinion for this history.
type Provider interface {
	Name() Strategy
	Rate(h History, now time.Time) (Rating, bool)
}

type ScoreStrategy struct{}

func (ScoreStrategy) Name() Strategy { return StrategyScore }

func (ScoreStrategy) Rate(h History, now time.Time) (Rating, bool) {
	res := Score(h, now)
	score := res.Score
	return Rating{
		Strategy: StrategyScore,
		Label:    string(res.Label),
		Score:    &score,
		Samples:  len(h.Debts) + len(h.Payments),
	}, true
}

type MaturityCategoryStrategy struct{}

func (MaturityCategoryStrategy) Name() Strategy { return StrategyMaturity }

func (MaturityCategoryStrategy) Rate(h History, _ time.Time) (Rating, bool) {
	res, ok := MaturityCategory(h)
	if !ok {
		return Rating{}, false
	}
	avg := res.AverageDays
	return Rating{
		Strategy:    StrategyMaturity,
		Label:       string(res.Category),
		AverageDays: &avg,
		Samples:     res.Qualifying,
	}, true
}

type IntervalCategoryStrategy struct{}

func (IntervalCategoryStrategy) Name() Strategy { return StrategyInterval }

func (IntervalCategoryStrategy) Rate(h History, _ time.Time) (Rating, bool) {
	res, ok := IntervalCategory(h.Payments)
	if !ok {
		return Rating{}, false
	}
	avg := res.AverageDays
	return Rating{
		Strategy:    StrategyInterval,
		Label:       string(res.Category),
		AverageDays: &avg,
		Samples:     res.Gaps,
	}, true
}

// Registry resolves providers by name, preserving registration order.
type Registry struct {
	providers map[Strategy]Provider
	order     []Strategy
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[Strategy]Provider, len(providers))}
	for _, p := range providers {
		if _, exists := r.providers[p.Name()]; !exists {
			r.order = append(r.order, p.Name())
		}
		r.providers[p.Name()] = p
	}
	return r
}

func DefaultRegistry() *Registry {
	return NewRegistry(ScoreStrategy{}, MaturityCategoryStrategy{}, IntervalCategoryStrategy{})
}

func (r *Registry) Lookup(name Strategy) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, ErrUnknownStrategy
	}
	return p, nil
}

func (r *Registry) Names() []Strategy {
	return append([]Strategy(nil), r.order...)
}
