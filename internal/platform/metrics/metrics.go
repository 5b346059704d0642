package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	UsersCreated      prometheus.Counter
	LocationsIngested prometheus.Counter
	AlertsCreated     *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		UsersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trailguard_users_created_total",
			Help: "Total number of users created in the system",
		}),
		LocationsIngested: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trailguard_locations_ingested_total",
			Help: "Total number of location points ingested",
		}),
		AlertsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trailguard_alerts_created_total",
			Help: "Total number of alerts created, by type",
		}, []string{"type"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trailguard_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status class",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// IncrementUsersCreated increments the users created counter by 1.
func (m *Metrics) IncrementUsersCreated() {
	if m == nil {
		return
	}
	m.UsersCreated.Inc()
}

// AddUsersCreated increments the users created counter by n.
func (m *Metrics) AddUsersCreated(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.UsersCreated.Add(float64(n))
}

// IncrementLocationsIngested increments the ingested locations counter by 1.
func (m *Metrics) IncrementLocationsIngested() {
	if m == nil {
		return
	}
	m.LocationsIngested.Inc()
}

// IncrementAlertsCreated increments the created alerts counter for a type.
func (m *Metrics) IncrementAlertsCreated(alertType string) {
	if m == nil {
		return
	}
	m.AlertsCreated.WithLabelValues(alertType).Inc()
}

// ObserveRequestDuration records one request's latency.
func (m *Metrics) ObserveRequestDuration(route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, status).Observe(d.Seconds())
}
