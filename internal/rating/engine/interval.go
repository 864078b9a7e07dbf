package engine

// Interval is the payment-cadence rating.
type Interval struct {
	Category    Category
	AverageDays float64
	Gaps        int
}

// IntervalCategory rates the mean gap in days between consecutive payments.
// Fewer than two payments yields no rating.
func IntervalCategory(payments []PaymentEntry) (Interval, bool) {
	if len(payments) < 2 {
		return Interval{}, false
	}
	sorted := sortedPayments(payments)

	var total int64
	for i := 1; i < len(sorted); i++ {
		total += DaysBetween(sorted[i-1].CreatedAt, sorted[i].CreatedAt)
	}
	gaps := len(sorted) - 1
	avg := float64(total) / float64(gaps)
	return Interval{
		Category:    Categorize(avg),
		AverageDays: avg,
		Gaps:        gaps,
	}, true
}
