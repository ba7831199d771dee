// Package metrics exports depot counters in the Prometheus textfile format.
package metrics

import (
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/zerr"
)

// Exporter implements ports.Metrics on a private Prometheus registry.
type Exporter struct {
	registry *prometheus.Registry

	cachePackages    prometheus.Gauge
	cacheRelations   prometheus.Gauge
	resolveTotal     *prometheus.CounterVec
	resolveDuration  *prometheus.HistogramVec
	changesetEntries *prometheus.GaugeVec
}

// NewExporter creates an Exporter with every depot collector registered.
func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		cachePackages: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "depot_cache_packages",
			Help: "Number of packages in the cache after the last load.",
		}),
		cacheRelations: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "depot_cache_relations",
			Help: "Number of distinct relations in the cache after the last load.",
		}),
		resolveTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "depot_resolve_total",
			Help: "Number of transaction runs by policy and result.",
		}, []string{"policy", "result"}),
		resolveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "depot_resolve_duration_seconds",
			Help:    "Time taken to resolve a transaction.",
			Buckets: prometheus.DefBuckets,
		}, []string{"policy"}),
		changesetEntries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "depot_changeset_entries",
			Help: "Number of changeset entries by action.",
		}, []string{"action"}),
	}

	e.registry.MustRegister(
		e.cachePackages,
		e.cacheRelations,
		e.resolveTotal,
		e.resolveDuration,
		e.changesetEntries,
	)
	return e
}

// Registry returns the registry holding the collectors.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// ObserveCache records the size of the cache.
func (e *Exporter) ObserveCache(packages, relations int) {
	e.cachePackages.Set(float64(packages))
	e.cacheRelations.Set(float64(relations))
}

// ObserveResolve records one transaction run.
func (e *Exporter) ObserveResolve(policy string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	e.resolveTotal.WithLabelValues(policy, result).Inc()
	e.resolveDuration.WithLabelValues(policy).Observe(d.Seconds())
}

// ObserveChangeSet records the entries per action. Actions missing from
// counts are reported as zero.
func (e *Exporter) ObserveChangeSet(counts map[string]int) {
	for _, a := range domain.Actions {
		e.changesetEntries.WithLabelValues(a.String()).Set(float64(counts[a.String()]))
	}
}

// Flush writes the registry to path atomically. An empty path is a no-op.
func (e *Exporter) Flush(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrMetricsWriteFailed.Error()), "path", path)
	}
	if err := prometheus.WriteToTextfile(path, e.registry); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrMetricsWriteFailed.Error()), "path", path)
	}
	return nil
}
