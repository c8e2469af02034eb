// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"sync"

	"github.com/dkeye/Activities/internal/app"
	"github.com/dkeye/Activities/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeConflict = "conflict"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

var (
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activities_registrations_total",
			Help: "Signup and unregister attempts by outcome",
		},
		[]string{"operation", "outcome"},
	)

	Participants = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "activities_participants",
			Help: "Current number of participants per activity",
		},
		[]string{"activity"},
	)

	Capacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "activities_capacity",
			Help: "max_participants per activity",
		},
		[]string{"activity"},
	)

	FeedSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "activities_feed_subscribers",
			Help: "Connected live feed subscribers",
		},
	)

	FeedDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "activities_feed_dropped_total",
			Help: "Feed subscribers disconnected for falling behind",
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "activities_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Observer keeps the participant gauges in step with the registry.
// Events older than the last applied version are ignored.
type Observer struct {
	mu   sync.Mutex
	last map[domain.ActivityName]uint64
}

func NewObserver() *Observer {
	return &Observer{last: make(map[domain.ActivityName]uint64)}
}

func (o *Observer) OnChange(ev app.ChangeEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if ev.Version <= o.last[ev.Activity] {
		return
	}
	o.last[ev.Activity] = ev.Version
	Participants.WithLabelValues(string(ev.Activity)).Set(float64(len(ev.Snapshot.Participants)))
}

// Prime sets the per-activity gauges from a full listing.
func (o *Observer) Prime(c app.Catalog) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, a := range c {
		if a.Version < o.last[a.Name] {
			continue
		}
		o.last[a.Name] = a.Version
		Participants.WithLabelValues(string(a.Name)).Set(float64(len(a.Participants)))
		Capacity.WithLabelValues(string(a.Name)).Set(float64(a.MaxParticipants))
	}
}
