package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the person module.
// Tracks record creation, voids, preferred-flag conflicts and use-case latency.
type Metrics struct {
	PersonsCreated      prometheus.Counter
	SubRecordsAdded     *prometheus.CounterVec
	Voids               *prometheus.CounterVec
	PreferredConflicts  *prometheus.CounterVec
	LocationLookupFails prometheus.Counter
	UseCaseDuration     *prometheus.HistogramVec
}

// New registers the person metrics on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the person metrics on reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PersonsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "demographics_persons_created_total",
			Help: "Total number of persons created",
		}),
		SubRecordsAdded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "demographics_subrecords_added_total",
			Help: "Total number of names, addresses and attributes added",
		}, []string{"entity"}),
		Voids: f.NewCounterVec(prometheus.CounterOpts{
			Name: "demographics_voids_total",
			Help: "Total number of voided records by entity",
		}, []string{"entity"}),
		PreferredConflicts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "demographics_preferred_conflicts_total",
			Help: "Mutations rejected because they would leave the preferred flag inconsistent",
		}, []string{"entity"}),
		LocationLookupFails: f.NewCounter(prometheus.CounterOpts{
			Name: "demographics_location_lookup_failures_total",
			Help: "Address location lookups that degraded to ids only",
		}),
		UseCaseDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "demographics_usecase_duration_seconds",
			Help:    "Duration of person service use-cases",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

// IncrementPersonsCreated records a successful person creation.
func (m *Metrics) IncrementPersonsCreated() {
	m.PersonsCreated.Inc()
}

// IncrementSubRecordAdded records an added name, address or attribute.
func (m *Metrics) IncrementSubRecordAdded(entity string) {
	m.SubRecordsAdded.WithLabelValues(entity).Inc()
}

// IncrementVoid records a void.
func (m *Metrics) IncrementVoid(entity string) {
	m.Voids.WithLabelValues(entity).Inc()
}

// IncrementPreferredConflict records a rejected preferred-flag mutation.
func (m *Metrics) IncrementPreferredConflict(entity string) {
	m.PreferredConflicts.WithLabelValues(entity).Inc()
}

// IncrementLocationLookupFailure records a degraded location lookup.
func (m *Metrics) IncrementLocationLookupFailure() {
	m.LocationLookupFails.Inc()
}

// ObserveUseCase records the duration of a use-case.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveUseCase(operation string, start time.Time) {
	m.UseCaseDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
