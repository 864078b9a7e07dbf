package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes ledger-level instruments.
type Metrics struct {
	debtsRecorded       metric.Int64Counter
	paymentsRecorded    metric.Int64Counter
	paymentsRejected    metric.Int64Counter
	overdueFlagged      metric.Int64Counter
	notificationsFailed metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				log.Info("shutting down meter provider")
				return provider.Shutdown(ctx)
			},
		})
	}

	log.Info("metrics initialized",
		zap.String("endpoint", cfg.ExporterEndpoint),
		zap.String("protocol", cfg.ExporterProtocol),
	)

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "nasiya"
	}
	meter := provider.Meter(name)

	debtsRecorded, err := meter.Int64Counter("nasiya.debts.recorded")
	if err != nil {
		return nil, err
	}
	paymentsRecorded, err := meter.Int64Counter("nasiya.payments.recorded")
	if err != nil {
		return nil, err
	}
	paymentsRejected, err := meter.Int64Counter("nasiya.payments.rejected")
	if err != nil {
		return nil, err
	}
	overdueFlagged, err := meter.Int64Counter("nasiya.overdue.flagged")
	if err != nil {
		return nil, err
	}
	notificationsFailed, err := meter.Int64Counter("nasiya.notifications.failed")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		debtsRecorded:       debtsRecorded,
		paymentsRecorded:    paymentsRecorded,
		paymentsRejected:    paymentsRejected,
		overdueFlagged:      overdueFlagged,
		notificationsFailed: notificationsFailed,
	}, nil
}

// NewNop returns instruments bound to a noop provider, for tests and tools.
func NewNop() *Metrics {
	m, _ := New(Config{}, noop.NewMeterProvider())
	return m
}

func (m *Metrics) RecordDebt(ctx context.Context, overLimit bool) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.Bool("over_limit", overLimit))
	m.debtsRecorded.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordPayment(ctx context.Context, paymentType string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("payment_type", strings.TrimSpace(paymentType)))
	m.paymentsRecorded.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordPaymentRejected(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("reason", strings.TrimSpace(reason)))
	m.paymentsRejected.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordOverdueFlagged(ctx context.Context, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.overdueFlagged.Add(ctx, int64(count))
}

func (m *Metrics) RecordNotificationFailed(ctx context.Context, notificationType, channel string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("notification_type", strings.TrimSpace(notificationType)),
		attribute.String("channel", strings.TrimSpace(channel)),
	)
	m.notificationsFailed.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"payment_type":      {},
	"notification_type": {},
	"channel":           {},
	"over_limit":        {},
	"reason":            {},
	"status_code":       {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
