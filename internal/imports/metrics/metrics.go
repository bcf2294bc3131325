package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the imports module.
type Metrics struct {
	ImportsCreated   prometheus.Counter
	CitizensImported prometheus.Counter
	PatchesApplied   prometheus.Counter
	RelationsToggled *prometheus.CounterVec
	ReportCache      *prometheus.CounterVec
	CreateDuration   prometheus.Histogram
	PatchDuration    prometheus.Histogram
}

// New registers the metrics with the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the metrics with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ImportsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "census_imports_created_total",
			Help: "Total number of imports stored",
		}),
		CitizensImported: f.NewCounter(prometheus.CounterOpts{
			Name: "census_citizens_imported_total",
			Help: "Total number of citizen rows stored by imports",
		}),
		PatchesApplied: f.NewCounter(prometheus.CounterOpts{
			Name: "census_citizen_patches_total",
			Help: "Total number of citizen patches committed",
		}),
		RelationsToggled: f.NewCounterVec(prometheus.CounterOpts{
			Name: "census_relation_edges_toggled_total",
			Help: "Relation edges written by patches, by resulting state",
		}, []string{"state"}),
		ReportCache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "census_report_cache_lookups_total",
			Help: "Report cache lookups by report and result",
		}, []string{"report", "result"}),
		CreateDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "census_create_import_duration_seconds",
			Help:    "Duration of CreateImport including validation and the bulk insert",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		PatchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "census_patch_citizen_duration_seconds",
			Help:    "Duration of PatchCitizen including lock wait",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementImportCreated records a stored import of n citizens.
func (m *Metrics) IncrementImportCreated(n int) {
	m.ImportsCreated.Inc()
	m.CitizensImported.Add(float64(n))
}

// IncrementPatchApplied records a committed patch and its edge writes.
func (m *Metrics) IncrementPatchApplied(deactivated, activated int) {
	m.PatchesApplied.Inc()
	m.RelationsToggled.WithLabelValues("inactive").Add(float64(deactivated))
	m.RelationsToggled.WithLabelValues("active").Add(float64(activated))
}

// RecordCacheHit records a report served from cache.
func (m *Metrics) RecordCacheHit(report string) {
	m.ReportCache.WithLabelValues(report, "hit").Inc()
}

// RecordCacheMiss records a report computed from the store.
func (m *Metrics) RecordCacheMiss(report string) {
	m.ReportCache.WithLabelValues(report, "miss").Inc()
}

// ObserveCreateImport records the duration of a CreateImport call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCreateImport(start time.Time) {
	m.CreateDuration.Observe(time.Since(start).Seconds())
}

// ObservePatchCitizen records the duration of a PatchCitizen call.
func (m *Metrics) ObservePatchCitizen(start time.Time) {
	m.PatchDuration.Observe(time.Since(start).Seconds())
}
