package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker"
)

// Metrics covers the remittance pipeline: watch lifecycle, payment detection
// and settlement outcomes, plus the payout rail boundary.
type Metrics struct {
	watchesActive    prometheus.Gauge
	paymentsDetected *prometheus.CounterVec
	settlements      *prometheus.CounterVec

	payoutDuration      *prometheus.HistogramVec
	circuitBreakerState *prometheus.GaugeVec
}

func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		watchesActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "remesa_backend_watches_active",
				Help: "Number of payment watches currently running",
			},
		),

		paymentsDetected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "remesa_backend_payments_detected_total",
				Help: "Qualifying payments observed, by source",
			},
			[]string{"source"},
		),

		settlements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "remesa_backend_settlements_total",
				Help: "Settlement attempts, by outcome",
			},
			[]string{"outcome"},
		),

		payoutDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "remesa_backend_payout_call_duration_seconds",
				Help:    "Duration of payout rail calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "status"},
		),

		circuitBreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "remesa_backend_circuit_breaker_state",
				Help: "Current state of circuit breakers (0=closed, 1=half-open, 2=open)",
			},
			[]string{"api_name"},
		),
	}

	registry.MustRegister(
		m.watchesActive,
		m.paymentsDetected,
		m.settlements,
		m.payoutDuration,
		m.circuitBreakerState,
	)

	return m
}

func (m *Metrics) WatchStarted() {
	m.watchesActive.Inc()
}

func (m *Metrics) WatchEnded() {
	m.watchesActive.Dec()
}

func (m *Metrics) PaymentDetected(source string) {
	m.paymentsDetected.WithLabelValues(source).Inc()
}

func (m *Metrics) SettlementOutcome(outcome string) {
	m.settlements.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObservePayoutCall(operation string, seconds float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.payoutDuration.WithLabelValues(operation, status).Observe(seconds)
}

func (m *Metrics) UpdateCircuitBreakerState(apiName string, state gobreaker.State) {
	var value float64
	switch state {
	case gobreaker.StateClosed:
		value = 0
	case gobreaker.StateHalfOpen:
		value = 1
	case gobreaker.StateOpen:
		value = 2
	}
	m.circuitBreakerState.WithLabelValues(apiName).Set(value)
}
