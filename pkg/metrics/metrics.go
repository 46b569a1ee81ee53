package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesConsumed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "relay",
		Name:      "messages_consumed_total",
		Help:      "Messages received from the inbound queue.",
	})
	MessagesPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "relay",
		Name:      "messages_published_total",
		Help:      "Messages published to the outbound queue.",
	})
	MessagesBroadcast = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "relay",
		Name:      "messages_broadcast_total",
		Help:      "Messages fanned out to connected websocket clients.",
	})
	DecodeErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "relay",
		Name:      "decode_errors_total",
		Help:      "Inbound payloads dropped because they failed to decode.",
	})
	PublishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "relay",
		Name:      "publish_errors_total",
		Help:      "Failed publishes to the outbound queue.",
	})
	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "relay",
		Name:      "connected_clients",
		Help:      "Currently connected websocket clients.",
	})
)
