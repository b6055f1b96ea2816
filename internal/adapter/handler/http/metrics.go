package http

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultOK           = "ok"
	resultRejected     = "rejected"
	resultBadSignature = "bad_signature"
	resultMalformed    = "malformed"
)

// Metrics counts payment callbacks by outcome. The provider retries
// aggressively, so the rejected/duplicate volume matters operationally.
type Metrics struct {
	callbacks *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	callbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopbot",
		Subsystem: "paymenthook",
		Name:      "callbacks_total",
		Help:      "Total number of payment callbacks by result.",
	}, []string{"result"})

	prometheus.MustRegister(callbacks)
	return &Metrics{callbacks: callbacks}
}

func (m *Metrics) Observe(result string) {
	if m == nil {
		return
	}
	m.callbacks.WithLabelValues(result).Inc()
}
