package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	workoutsRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Name:      "workouts_recorded_total",
		Help:      "Workouts appended to a session log, by kind.",
	}, []string{"kind"})
	validationFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Name:      "validation_failures_total",
		Help:      "Rejected workout submissions, by reason.",
	}, []string{"reason"})
	geolocationFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Name:      "geolocation_failures_total",
		Help:      "Failed geolocation lookups reported by clients, by reason.",
	}, []string{"reason"})
	activeSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "mapty",
		Name:      "active_sessions",
		Help:      "Sessions currently held in memory.",
	})
)

func init() {
	prometheus.MustRegister(workoutsRecorded, validationFailures, geolocationFailures, activeSessions)
}

func RecordWorkout(kind string) {
	workoutsRecorded.WithLabelValues(kind).Inc()
}

func RecordValidationFailure(reason string) {
	validationFailures.WithLabelValues(reason).Inc()
}

func RecordGeolocationFailure(reason string) {
	geolocationFailures.WithLabelValues(reason).Inc()
}

func SessionStarted() {
	activeSessions.Inc()
}

func SessionEnded() {
	activeSessions.Dec()
}
