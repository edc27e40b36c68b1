package observability

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PaymentMetrics groups the collectors for the payment intent flow.
type PaymentMetrics struct {
	Outcomes         *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
}

// NewPaymentMetrics registers the collectors on reg (the default registerer
// when nil). Registering twice reuses the existing collectors.
func NewPaymentMetrics(namespace string, reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &PaymentMetrics{
		Outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_intent_outcomes_total",
			Help:      "Payment intents handled, by outcome category.",
		}, []string{"outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "payment_provider_request_duration_ms",
			Help:      "Latency of calls to the payment provider in milliseconds.",
			Buckets:   []float64{25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		}, []string{"result"}),
	}
	m.Outcomes = registerCollector(reg, m.Outcomes)
	m.UpstreamDuration = registerCollector(reg, m.UpstreamDuration)
	return m
}

// ObserveOutcome counts one finished payment intent.
func (m *PaymentMetrics) ObserveOutcome(outcome string) {
	if m == nil || m.Outcomes == nil {
		return
	}
	m.Outcomes.WithLabelValues(outcome).Inc()
}

// ObserveUpstream records a provider call; result is the HTTP status or the transport error kind.
func (m *PaymentMetrics) ObserveUpstream(result string, d time.Duration) {
	if m == nil || m.UpstreamDuration == nil {
		return
	}
	m.UpstreamDuration.WithLabelValues(result).Observe(float64(d) / float64(time.Millisecond))
}

func registerCollector[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(fmt.Errorf("register collector: %w", err))
	}
	return c
}
