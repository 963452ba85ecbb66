package bridge

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the bridge's Prometheus metrics.
type Metrics struct {
	outcomes  *prometheus.CounterVec
	anomalies prometheus.Counter
}

// NewMetrics creates bridge metrics and registers them with reg.
// A nil reg leaves the metrics unregistered, which tests use.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hospitalcall_transcript_outcomes_total",
			Help: "Terminal outcomes of transcript-complete events, labeled booked or extraction_failed.",
		}, []string{"outcome"}),
		anomalies: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hospitalcall_handler_anomalies_total",
			Help: "Transcript-complete events that failed without reaching a terminal outcome (unknown caller, booking or SMS delivery error).",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.outcomes, m.anomalies)
	}
	return m
}
