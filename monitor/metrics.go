package monitor

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the Prometheus instruments a Monitor publishes. All
// instrumentation here is observational only: nothing in this file can
// influence election outcomes.
type metrics struct {
	currentEpoch    prometheus.Gauge
	roundDuration   prometheus.Histogram
	victoriesTotal  prometheus.Counter
	deferralsTotal  prometheus.Counter
	roundStartedAt  time.Time
}

func newMetrics(registerer prometheus.Registerer, rank int) (*metrics, error) {
	m := &metrics{
		currentEpoch: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "paxosmon",
			Name:        "current_epoch",
			Help:        "Current election epoch as observed by this participant.",
			ConstLabels: prometheus.Labels{"rank": strconv.Itoa(rank)},
		}),
		roundDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "paxosmon",
			Name:        "election_round_duration_seconds",
			Help:        "Wall-clock duration of each election round, from its start until this participant defers, declares victory, or reaches a stable epoch.",
			ConstLabels: prometheus.Labels{"rank": strconv.Itoa(rank)},
			Buckets:     prometheus.DefBuckets,
		}),
		victoriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "paxosmon",
			Name:        "victories_declared_total",
			Help:        "Number of times this participant has declared victory.",
			ConstLabels: prometheus.Labels{"rank": strconv.Itoa(rank)},
		}),
		deferralsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "paxosmon",
			Name:        "deferrals_total",
			Help:        "Number of times this participant has conceded a round to another rank.",
			ConstLabels: prometheus.Labels{"rank": strconv.Itoa(rank)},
		}),
	}

	for _, c := range []prometheus.Collector{m.currentEpoch, m.roundDuration, m.victoriesTotal, m.deferralsTotal} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *metrics) roundStarted() {
	m.roundStartedAt = time.Now()
}

func (m *metrics) roundEnded() {
	if m.roundStartedAt.IsZero() {
		return
	}
	m.roundDuration.Observe(time.Since(m.roundStartedAt).Seconds())
	m.roundStartedAt = time.Time{}
}
