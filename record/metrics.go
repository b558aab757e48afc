package record

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts session activity. A nil *Metrics records nothing.
type Metrics struct {
	Notifications prometheus.Counter
	Writes        prometheus.Counter
	Skipped       prometheus.Counter
	Errors        prometheus.Counter
}

// NewMetrics creates the session counters and registers them with reg
// unless reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Notifications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mutjson",
			Subsystem: "record",
			Name:      "notifications_total",
			Help:      "Change notifications received from tracked documents.",
		}),
		Writes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mutjson",
			Subsystem: "record",
			Name:      "writes_total",
			Help:      "Records written to the store by Flush.",
		}),
		Skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mutjson",
			Subsystem: "record",
			Name:      "skipped_writes_total",
			Help:      "Dirty records not written because their value was unchanged.",
		}),
		Errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mutjson",
			Subsystem: "record",
			Name:      "flush_errors_total",
			Help:      "Records that failed to encode or save.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Notifications, m.Writes, m.Skipped, m.Errors)
	}
	return m
}

func (m *Metrics) notified() {
	if m != nil {
		m.Notifications.Inc()
	}
}

func (m *Metrics) wrote() {
	if m != nil {
		m.Writes.Inc()
	}
}

func (m *Metrics) skipped() {
	if m != nil {
		m.Skipped.Inc()
	}
}

func (m *Metrics) failed() {
	if m != nil {
		m.Errors.Inc()
	}
}
