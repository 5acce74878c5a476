package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Socket event metrics
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courier_events_total",
			Help: "Total inbound socket events by event name",
		},
		[]string{"event"},
	)

	EventErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courier_event_errors_total",
			Help: "Total socket events that ended in an error ack",
		},
		[]string{"event"},
	)

	ConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "courier_connections_active",
			Help: "Currently open websocket connections",
		},
	)

	// Business metrics
	MessagesStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "courier_messages_stored_total",
			Help: "Total chat messages persisted",
		},
	)

	SignalsRelayed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courier_signals_relayed_total",
			Help: "Total signaling payloads relayed by kind",
		},
		[]string{"kind"},
	)
)
