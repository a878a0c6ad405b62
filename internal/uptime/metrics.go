package uptime

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records monitoring activity. A nil *Metrics is a valid no-op.
type Metrics struct {
	passes        metric.Int64Counter
	probes        metric.Int64Counter
	probeDuration metric.Float64Histogram
	storeFailures metric.Int64Counter
}

// NewMetrics registers the monitor instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	passes, err := meter.Int64Counter("directory.uptime.passes",
		metric.WithDescription("Monitoring passes run"))
	if err != nil {
		return nil, err
	}
	probes, err := meter.Int64Counter("directory.uptime.probes",
		metric.WithDescription("Instance health probes issued"))
	if err != nil {
		return nil, err
	}
	probeDuration, err := meter.Float64Histogram("directory.uptime.probe.duration",
		metric.WithDescription("Instance probe latency"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}
	storeFailures, err := meter.Int64Counter("directory.uptime.store.failures",
		metric.WithDescription("Failed reads and writes of the uptime dataset"))
	if err != nil {
		return nil, err
	}
	return &Metrics{
		passes:        passes,
		probes:        probes,
		probeDuration: probeDuration,
		storeFailures: storeFailures,
	}, nil
}

func (m *Metrics) passCompleted(ctx context.Context, persisted bool) {
	if m == nil {
		return
	}
	m.passes.Add(ctx, 1, metric.WithAttributes(attribute.Bool("persisted", persisted)))
}

func (m *Metrics) probeFinished(ctx context.Context, healthy bool, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Bool("healthy", healthy))
	m.probes.Add(ctx, 1, attrs)
	m.probeDuration.Record(ctx, float64(d)/float64(time.Millisecond), attrs)
}

func (m *Metrics) storeFailure(ctx context.Context, op string) {
	if m == nil {
		return
	}
	m.storeFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}
