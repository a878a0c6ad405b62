// Package uptime runs monitoring passes over the instance directory and
// keeps the persisted uptime dataset current.
package uptime

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jankclient/directory/internal/domain"
	"github.com/jankclient/directory/internal/index"
	"github.com/jankclient/directory/internal/logger"
)

const tracerName = "github.com/jankclient/directory/internal/uptime"

// Prober reports whether an instance is reachable. It must not retry.
type Prober interface {
	Probe(ctx context.Context, instance domain.Instance) bool
}

// Monitor is the check orchestrator. It owns the dataset for the duration of
// a pass; passes must not overlap (the scheduler guards that).
type Monitor struct {
	store   *RecordStore
	prober  Prober
	index   *index.UptimeIndex
	logger  logger.Logger
	metrics *Metrics
	tracer  trace.Tracer
	now     func() time.Time
}

// Option customises a Monitor.
type Option func(*Monitor)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

// WithMetrics records pass and probe metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Monitor) { m.metrics = metrics }
}

// WithTracer overrides the global tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(m *Monitor) { m.tracer = tracer }
}

// NewMonitor creates a monitor persisting through store and publishing to idx.
func NewMonitor(store *RecordStore, prober Prober, idx *index.UptimeIndex, log logger.Logger, opts ...Option) *Monitor {
	m := &Monitor{
		store:  store,
		prober: prober,
		index:  idx,
		logger: log,
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type probeResult struct {
	name    string
	healthy bool
	at      time.Time
}

// RunPass checks every due instance concurrently, folds the results into the
// dataset and persists it once if anything was probed. Probe failures are
// recorded as offline; only a failed write is returned as an error.
func (m *Monitor) RunPass(ctx context.Context, instances []domain.Instance) (index.PassReport, error) {
	ctx, span := m.tracer.Start(ctx, "uptime.pass")
	defer span.End()

	started := m.now()
	report := index.PassReport{StartedAt: started, Instances: len(instances)}
	m.index.SetInstances(instances)

	dataset, loadErr := m.store.Load(ctx)
	if loadErr != nil {
		// every instance looks new this pass; first entries may be reset
		m.logger.Warn("failed to load uptime data, starting from an empty dataset",
			logger.Error(loadErr))
		m.metrics.storeFailure(ctx, "load")
	}

	due := m.dueInstances(instances, dataset, started)
	span.SetAttributes(
		attribute.Int("instances", len(instances)),
		attribute.Int("due", len(due)),
	)

	// fan out; this goroutine is the only writer of dataset
	results := make(chan probeResult, len(due))
	for _, instance := range due {
		go m.probe(ctx, instance, results)
	}
	for range due {
		r := <-results
		if !r.healthy && ctx.Err() != nil {
			// a cancelled pass fails every in-flight probe; that says nothing about the instance
			report.Discarded++
			continue
		}
		report.Probed++
		if r.healthy {
			report.Healthy++
		}
		if m.apply(dataset, r) {
			report.Transitions++
		}
	}

	if report.Discarded > 0 {
		m.logger.Warn("pass cancelled, discarding failed probes",
			logger.Int("discarded", report.Discarded),
			logger.Error(ctx.Err()))
	}

	if report.Probed > 0 {
		if err := m.store.Save(context.WithoutCancel(ctx), dataset); err != nil {
			m.metrics.storeFailure(ctx, "save")
			m.metrics.passCompleted(ctx, false)
			span.RecordError(err)
			span.SetStatus(codes.Error, "persist failed")
			report.Duration = m.now().Sub(started)
			m.index.RecordPass(report)
			return report, fmt.Errorf("failed to persist uptime data: %w", err)
		}
		report.Persisted = true
		m.index.Replace(dataset)
	} else if loadErr == nil {
		m.index.Replace(dataset)
	}

	report.Duration = m.now().Sub(started)
	m.index.RecordPass(report)
	m.metrics.passCompleted(ctx, report.Persisted)

	m.logger.Info("uptime pass completed",
		logger.Int("instances", report.Instances),
		logger.Int("probed", report.Probed),
		logger.Int("healthy", report.Healthy),
		logger.Int("transitions", report.Transitions),
		logger.Bool("persisted", report.Persisted),
		logger.Duration("duration", report.Duration))

	return report, nil
}

// dueInstances filters the directory down to the instances to probe now.
func (m *Monitor) dueInstances(instances []domain.Instance, dataset domain.UptimeDataset, now time.Time) []domain.Instance {
	seen := make(map[string]bool, len(instances))
	due := make([]domain.Instance, 0, len(instances))

	for _, instance := range instances {
		if instance.Name == "" {
			m.logger.Warn("skipping instance without a name",
				logger.String("url", instance.URL))
			continue
		}
		if seen[instance.Name] {
			m.logger.Warn("skipping duplicate instance",
				logger.String("instance", instance.Name))
			continue
		}
		seen[instance.Name] = true

		if !domain.IsDue(dataset[instance.Name], now) {
			continue
		}
		due = append(due, instance)
	}
	return due
}

// probe runs one check and always delivers exactly one result, even if the
// prober panics.
func (m *Monitor) probe(ctx context.Context, instance domain.Instance, out chan<- probeResult) {
	started := m.now()
	healthy := false

	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("instance probe panicked",
				logger.String("instance", instance.Name),
				logger.String("panic", fmt.Sprint(r)))
			healthy = false
		}
		at := m.now()
		m.metrics.probeFinished(ctx, healthy, at.Sub(started))
		out <- probeResult{name: instance.Name, healthy: healthy, at: at}
	}()

	healthy = m.prober.Probe(ctx, instance)
}

func (m *Monitor) apply(dataset domain.UptimeDataset, r probeResult) bool {
	rec, changed := dataset.Apply(r.name, r.healthy, r.at)

	switch {
	case changed && r.healthy:
		m.logger.Info("instance went up",
			logger.String("instance", r.name),
			logger.Time("at", r.at))
	case changed:
		m.logger.Warn("instance went down",
			logger.String("instance", r.name),
			logger.Time("at", r.at),
			logger.Float64("daytime", rec.Uptime.Uptime.Daytime))
	case !r.healthy:
		m.logger.Info("instance still down",
			logger.String("instance", r.name),
			logger.Float64("daytime", rec.Uptime.Uptime.Daytime))
	}
	return changed
}

// GetSummary returns the cached summary of an instance. ok is false for an
// unknown instance.
func (m *Monitor) GetSummary(name string) (domain.InstanceUptimeInfo, bool) {
	return m.index.Summary(name)
}

// GetEntries returns the transition log of an instance.
func (m *Monitor) GetEntries(name string) ([]domain.UptimeEntry, bool) {
	return m.index.Entries(name)
}

// GetAllSummaries returns the summary of every known instance.
func (m *Monitor) GetAllSummaries() map[string]domain.InstanceUptimeInfo {
	return m.index.Summaries()
}

// LastPass returns the report of the latest pass.
func (m *Monitor) LastPass() index.PassReport {
	return m.index.LastPass()
}
