package eos

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/five82/eosbridge/internal/state"
)

// Metrics holds Prometheus metrics for one session. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	messagesReceived *prometheus.CounterVec
	decodeErrors     prometheus.Counter
	commandsSent     prometheus.Counter
	commandsDropped  prometheus.Counter
	dialAttempts     prometheus.Counter
	resyncs          prometheus.Counter
	aggregations     prometheus.Counter
	connectionState  prometheus.Gauge
}

// newMetrics creates and registers session metrics. It returns nil when no
// registerer is provided.
func newMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		return nil, nil
	}

	m := &Metrics{
		messagesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eosbridge",
			Subsystem: "osc",
			Name:      "messages_received_total",
			Help:      "Inbound OSC messages by handling route (unmatched for ignored paths)",
		}, []string{"route"}),
		decodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eosbridge",
			Subsystem: "osc",
			Name:      "decode_errors_total",
			Help:      "Inbound frames dropped as malformed",
		}),
		commandsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eosbridge",
			Subsystem: "osc",
			Name:      "commands_sent_total",
			Help:      "Outbound OSC messages written to the console",
		}),
		commandsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eosbridge",
			Subsystem: "osc",
			Name:      "commands_dropped_total",
			Help:      "Outbound OSC messages dropped (not running, queue full, no connection or encode failure)",
		}),
		dialAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eosbridge",
			Subsystem: "session",
			Name:      "dial_attempts_total",
			Help:      "Connection attempts to the console",
		}),
		resyncs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eosbridge",
			Subsystem: "session",
			Name:      "resyncs_total",
			Help:      "Full state resynchronizations requested",
		}),
		aggregations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eosbridge",
			Subsystem: "wheels",
			Name:      "aggregations_total",
			Help:      "Wheel category aggregation passes",
		}),
		connectionState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "eosbridge",
			Subsystem: "session",
			Name:      "connection_state",
			Help:      "0 disconnected, 1 connecting, 2 connected",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.messagesReceived, m.decodeErrors, m.commandsSent, m.commandsDropped,
		m.dialAttempts, m.resyncs, m.aggregations, m.connectionState,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) received(route string) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.messagesReceived.WithLabelValues(route).Inc()
}

func (m *Metrics) decodeError() {
	if m != nil {
		m.decodeErrors.Inc()
	}
}

func (m *Metrics) sent() {
	if m != nil {
		m.commandsSent.Inc()
	}
}

func (m *Metrics) dropped() {
	if m != nil {
		m.commandsDropped.Inc()
	}
}

func (m *Metrics) dial() {
	if m != nil {
		m.dialAttempts.Inc()
	}
}

func (m *Metrics) resync() {
	if m != nil {
		m.resyncs.Inc()
	}
}

func (m *Metrics) aggregated() {
	if m != nil {
		m.aggregations.Inc()
	}
}

func (m *Metrics) connection(c state.ConnectionState) {
	if m != nil {
		m.connectionState.Set(float64(c))
	}
}
