package metrics

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("payment_type", "CASH"),
		attribute.String("debtor_id", "456"),
		attribute.String("reason", "payment_exceeds_debt"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	for _, attr := range attrs {
		if attr.Key == "debtor_id" {
			t.Fatalf("expected debtor_id to be dropped")
		}
	}
}

func TestNopMetricsAreSafe(t *testing.T) {
	m := NewNop()
	ctx := context.Background()
	m.RecordDebt(ctx, true)
	m.RecordPayment(ctx, "CARD")
	m.RecordOverdueFlagged(ctx, 3)
	m.RecordNotificationFailed(ctx, "OVERDUE_PAYMENT", "telegram")

	var nilMetrics *Metrics
	nilMetrics.RecordPayment(ctx, "CASH")
}
