package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	sweepCounter  otelmetric.Int64Counter
	sweepDuration otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	sweepCounter, _ := meter.Int64Counter(
		"sweeps.executed",
		otelmetric.WithDescription("Number of due-notification sweeps executed"),
	)

	sweepDuration, _ := meter.Float64Histogram(
		"sweeps.duration",
		otelmetric.WithDescription("Due-notification sweep duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		sweepCounter:  sweepCounter,
		sweepDuration: sweepDuration,
	}
}

// RecordSweep counts one sweep with its outcome ("ok", "error" or "skipped").
func (o *Observability) RecordSweep(ctx context.Context, status string) {
	if o.sweepCounter != nil {
		o.sweepCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

// RecordSweepDuration records how long one sweep took.
func (o *Observability) RecordSweepDuration(ctx context.Context, d time.Duration) {
	if o.sweepDuration != nil {
		o.sweepDuration.Record(ctx, float64(d.Milliseconds()))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(context.Background())
	}
}
