package engine

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// ScoreLabel is the four-level label of the 0-100 behaviour score.
type ScoreLabel string

const (
	ScoreBad       ScoreLabel = "bad"
	ScoreAverage   ScoreLabel = "average"
	ScoreGood      ScoreLabel = "good"
	ScoreExcellent ScoreLabel = "excellent"
)

const (
	repaymentWeight = 70
	recentBonus     = 30
	monthBonus      = 15
)

type ScoreResult struct {
	Score        int
	Label        ScoreLabel
	RepaidRatio  decimal.Decimal
	RecencyBonus int
	// DaysSinceLastPayment is +Inf when there are no payments.
	DaysSinceLastPayment float64
}

// Score computes round(min(1, paid/max(1, added)) * 70) plus a recency bonus
// of 30 (last payment under 7 days) or 15 (under 30 days), clamped to 0..100.
func Score(h History, now time.Time) ScoreResult {
	added := decimal.Zero
	for _, d := range h.Debts {
		added = added.Add(d.Amount)
	}
	paid := decimal.Zero
	var last time.Time
	for _, p := range h.Payments {
		paid = paid.Add(p.Amount)
		if p.CreatedAt.After(last) {
			last = p.CreatedAt
		}
	}

	denominator := decimal.Max(decimal.NewFromInt(1), added)
	ratio := decimal.Min(decimal.NewFromInt(1), paid.Div(denominator))
	base := int(ratio.Mul(decimal.NewFromInt(repaymentWeight)).Round(0).IntPart())

	days := math.Inf(1)
	if len(h.Payments) > 0 {
		days = now.Sub(last).Hours() / 24
	}

	bonus := 0
	switch {
	case days < 7:
		bonus = recentBonus
	case days < 30:
		bonus = monthBonus
	}

	score := clamp(base+bonus, 0, 100)
	return ScoreResult{
		Score:                score,
		Label:                LabelForScore(score),
		RepaidRatio:          ratio,
		RecencyBonus:         bonus,
		DaysSinceLastPayment: days,
	}
}

func LabelForScore(score int) ScoreLabel {
	switch {
	case score >= 85:
		return ScoreExcellent
	case score >= 65:
		return ScoreGood
	case score >= 45:
		return ScoreAverage
	default:
		return ScoreBad
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
