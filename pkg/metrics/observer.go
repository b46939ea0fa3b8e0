package metrics

import (
	"time"

	"github.com/aretw0/acceptance/pkg/poll"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "acceptance"

// Observer records poll outcomes as Prometheus metrics.
type Observer struct {
	polls    *prometheus.CounterVec
	attempts *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ poll.Observer = (*Observer)(nil)

// NewObserver creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewObserver(reg prometheus.Registerer) *Observer {
	o := &Observer{
		polls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "polls_total",
				Help:      "Total number of finished polls by operation and result",
			},
			[]string{"operation", "result"},
		),
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "poll_attempts_total",
				Help:      "Total number of poll attempts by operation",
			},
			[]string{"operation"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "poll_duration_seconds",
				Help:      "Wall-clock duration of polls",
				Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
			},
			[]string{"operation", "result"},
		),
	}
	if reg != nil {
		reg.MustRegister(o.polls, o.attempts, o.duration)
	}
	return o
}

// ObservePoll implements poll.Observer.
func (o *Observer) ObservePoll(operation, result string, attempts int, elapsed time.Duration) {
	o.polls.WithLabelValues(operation, result).Inc()
	o.attempts.WithLabelValues(operation).Add(float64(attempts))
	o.duration.WithLabelValues(operation, result).Observe(elapsed.Seconds())
}

// Collectors exposes the underlying collectors, e.g. for a custom registry.
func (o *Observer) Collectors() []prometheus.Collector {
	return []prometheus.Collector{o.polls, o.attempts, o.duration}
}
