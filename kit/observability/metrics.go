package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pagsync"

type Metrics struct {
	EnvelopesPublished *prometheus.CounterVec
	EnvelopesConsumed  *prometheus.CounterVec
	OrdersExpired      prometheus.Counter
	SweepCandidates    *prometheus.CounterVec
	ProcessDuration    prometheus.Histogram
}

// NewMetrics registers the collectors on reg. A nil reg leaves them
// unregistered, which keeps parallel tests from colliding on the default
// registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EnvelopesPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "envelopes_published_total",
			Help:      "Envelopes handed to the broker, by source and result.",
		}, []string{"source", "result"}),
		EnvelopesConsumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "envelopes_consumed_total",
			Help:      "Envelopes taken off the topic, by outcome.",
		}, []string{"outcome"}),
		OrdersExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_expired_total",
			Help:      "Orders cancelled because their payment deadline lapsed.",
		}),
		SweepCandidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_candidates_total",
			Help:      "Orders visited by the scheduled sweep, by method and result.",
		}, []string{"method", "result"}),
		ProcessDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_process_duration_seconds",
			Help:      "Time spent processing one envelope.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.EnvelopesPublished, m.EnvelopesConsumed, m.OrdersExpired, m.SweepCandidates, m.ProcessDuration)
	}
	return m
}

func (m *Metrics) PublishedAdd(source, result string) {
	if m == nil {
		return
	}
	m.EnvelopesPublished.WithLabelValues(source, result).Inc()
}

func (m *Metrics) ConsumedAdd(outcome string) {
	if m == nil {
		return
	}
	m.EnvelopesConsumed.WithLabelValues(outcome).Inc()
}

func (m *Metrics) OrdersExpiredAdd(n int64) {
	if m == nil {
		return
	}
	m.OrdersExpired.Add(float64(n))
}

func (m *Metrics) SweepCandidateAdd(method, result string) {
	if m == nil {
		return
	}
	m.SweepCandidates.WithLabelValues(method, result).Inc()
}

func (m *Metrics) ObserveProcess(d time.Duration) {
	if m == nil {
		return
	}
	m.ProcessDuration.Observe(d.Seconds())
}
