package otel

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/metric"

	hiyauth "github.com/zerite/hiyauth"
)

var (
	// ErrNilMeter is returned when no meter is supplied.
	ErrNilMeter = errors.New("nil meter")
	// ErrNilSource is returned when no metrics source is supplied.
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() hiyauth.MetricsSnapshot
	AuditDropped() uint64
	EvictionsDropped() uint64
}

type observedCounter struct {
	id         hiyauth.MetricID
	instrument metric.Int64ObservableCounter
}

// Exporter registers hiyauth counters as observable OTel instruments.
type Exporter struct {
	source           metricsSource
	registration     metric.Registration
	counters         []observedCounter
	auditDropped     metric.Int64ObservableCounter
	evictionsDropped metric.Int64ObservableCounter
}

// NewExporter wires engine counters into meter. Call [Exporter.Close] before
// shutting down the meter provider.
func NewExporter(meter metric.Meter, engine *hiyauth.Engine) (*Exporter, error) {
	return newExporterFromSource(meter, engine)
}

func newExporterFromSource(meter metric.Meter, source metricsSource) (*Exporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	ids := hiyauth.MetricIDs()
	exporter := &Exporter{
		source:   source,
		counters: make([]observedCounter, 0, len(ids)),
	}

	observables := make([]metric.Observable, 0, len(ids)+2)
	for _, id := range ids {
		instrument, err := meter.Int64ObservableCounter(id.Name())
		if err != nil {
			return nil, fmt.Errorf("create observable counter %s: %w", id.Name(), err)
		}
		exporter.counters = append(exporter.counters, observedCounter{id: id, instrument: instrument})
		observables = append(observables, instrument)
	}

	auditDropped, err := meter.Int64ObservableCounter("hiyauth_audit_dropped_total")
	if err != nil {
		return nil, err
	}
	exporter.auditDropped = auditDropped
	observables = append(observables, auditDropped)

	evictionsDropped, err := meter.Int64ObservableCounter("hiyauth_evictions_dropped_total")
	if err != nil {
		return nil, err
	}
	exporter.evictionsDropped = evictionsDropped
	observables = append(observables, evictionsDropped)

	registration, err := meter.RegisterCallback(exporter.observe, observables...)
	if err != nil {
		return nil, err
	}
	exporter.registration = registration

	return exporter, nil
}

func (e *Exporter) observe(_ context.Context, observer metric.Observer) error {
	snapshot := e.source.MetricsSnapshot()
	for _, counter := range e.counters {
		observer.ObserveInt64(counter.instrument, int64(snapshot.Counters[counter.id]))
	}
	observer.ObserveInt64(e.auditDropped, int64(e.source.AuditDropped()))
	observer.ObserveInt64(e.evictionsDropped, int64(e.source.EvictionsDropped()))
	return nil
}

// Close unregisters the collection callback.
func (e *Exporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
