package metric

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pagekeep"

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	// Gateway metrics
	LoadsTotal    *prometheus.CounterVec
	LoadDuration  *prometheus.HistogramVec
	SavesTotal    *prometheus.CounterVec
	SaveDuration  *prometheus.HistogramVec
	AutosaveTotal *prometheus.CounterVec

	// Region metrics
	Regions         *prometheus.GaugeVec
	GaugeFallbacks  prometheus.Counter
	SnapshotRecords prometheus.Gauge
}

// NewRegistry creates a registry with every pagekeep metric registered,
// plus the Go runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		LoadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "loads_total",
			Help:      "Snapshot loads by outcome",
		}, []string{"outcome"}),
		LoadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "load_duration_seconds",
			Help:      "Snapshot load latency",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"outcome"}),
		SavesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "saves_total",
			Help:      "Snapshot saves by outcome",
		}, []string{"outcome"}),
		SaveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "save_duration_seconds",
			Help:      "Snapshot save latency",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"outcome"}),
		AutosaveTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "autosave",
			Name:      "runs_total",
			Help:      "Debounced and flushed autosave runs by trigger and result",
		}, []string{"trigger", "result"}),
		Regions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "page",
			Name:      "regions",
			Help:      "Editable regions on the current page by kind",
		}, []string{"kind"}),
		GaugeFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "region",
			Name:      "gauge_fallbacks_total",
			Help:      "Numeric gauge texts that fell back to a contextual default",
		}),
		SnapshotRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "records",
			Help:      "Records in the last collected snapshot",
		}),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.LoadsTotal,
		r.LoadDuration,
		r.SavesTotal,
		r.SaveDuration,
		r.AutosaveTotal,
		r.Regions,
		r.GaugeFallbacks,
		r.SnapshotRecords,
	)
	return r
}

// Registerer returns the underlying registerer for extra collectors,
// such as the badger engine gauges.
func (r *Registry) Registerer() prometheus.Registerer {
	return r.reg
}

// Gatherer returns the underlying gatherer.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// ObserveLoad records a gateway load.
func (r *Registry) ObserveLoad(outcome string, elapsed time.Duration) {
	r.LoadsTotal.WithLabelValues(outcome).Inc()
	r.LoadDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// ObserveSave records a gateway save.
func (r *Registry) ObserveSave(outcome string, elapsed time.Duration) {
	r.SavesTotal.WithLabelValues(outcome).Inc()
	r.SaveDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// ObserveAutosave records one autosave run.
func (r *Registry) ObserveAutosave(flushed, saved bool, err error) {
	trigger := "debounce"
	if flushed {
		trigger = "flush"
	}
	result := "unchanged"
	switch {
	case err != nil:
		result = "error"
	case saved:
		result = "written"
	}
	r.AutosaveTotal.WithLabelValues(trigger, result).Inc()
}

// GaugeFallback increments the fallback counter. Pass it to
// region.WithFallbackHook.
func (r *Registry) GaugeFallback() {
	r.GaugeFallbacks.Inc()
}

// SetRegions records the region count per kind.
func (r *Registry) SetRegions(counts map[string]int) {
	r.Regions.Reset()
	for kind, n := range counts {
		r.Regions.WithLabelValues(kind).Set(float64(n))
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
