package relay

import (
	"fmt"
	"time"

	"github.com/brianrepro/pingpong-relay/internal/models"
	"github.com/brianrepro/pingpong-relay/pkg/metrics"
	"github.com/sirupsen/logrus"
)

type Broker interface {
	Publish(queue string, data []byte) error
	Subscribe(queue string, handler func(data []byte)) error
}

type Broadcaster interface {
	Broadcast(m models.Message)
}

// Relay bridges one inbound queue, one outbound queue and a real-time fan-out
// channel. The ping and pong services are two instances of this type with the
// queue names swapped.
type Relay struct {
	log           *logrus.Entry
	broker        Broker
	broadcaster   Broadcaster
	inboundQueue  string
	outboundQueue string
	serviceName   string
}

func New(log *logrus.Logger, broker Broker, broadcaster Broadcaster, inbound, outbound, serviceName string) *Relay {
	return &Relay{
		log:           log.WithField("module", "relay").WithField("service", serviceName),
		broker:        broker,
		broadcaster:   broadcaster,
		inboundQueue:  inbound,
		outboundQueue: outbound,
		serviceName:   serviceName,
	}
}

// Start subscribes the inbound queue. Messages arrive serialized, so the
// broadcaster sees them in arrival order.
func (r *Relay) Start() error {
	if err := r.broker.Subscribe(r.inboundQueue, r.handleInbound); err != nil {
		return fmt.Errorf("err starting consumer: %w", err)
	}
	return nil
}

func (r *Relay) Name() string {
	return r.serviceName
}

// handleInbound forwards one delivered payload to the broadcaster. The
// sender's service stamp is preserved unchanged. A payload that fails to
// decode is logged and dropped without reaching the broadcaster.
func (r *Relay) handleInbound(data []byte) {
	metrics.MessagesConsumed.Inc()
	m, err := models.Decode(data)
	if err != nil {
		metrics.DecodeErrors.Inc()
		r.log.Warnf("dropping message from %s: %v", r.inboundQueue, err)
		return
	}
	r.log.Debugf("received %s", m)
	r.broadcaster.Broadcast(m)
}

// Send stamps m with this instance's identity, publishes it to the peer's
// queue and echoes it to local clients. The echo does not depend on the
// publish succeeding: a broker outage loses the message for the peer but the
// sender still sees it rendered through the same path as received messages.
func (r *Relay) Send(m models.Message) models.Message {
	m.Service = r.serviceName
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	r.log.Debugf("sending %s", m)
	data, err := models.Encode(m)
	if err != nil {
		r.log.Warnf("err encoding outgoing message: %v", err)
	} else if err = r.broker.Publish(r.outboundQueue, data); err != nil {
		metrics.PublishErrors.Inc()
		r.log.Warnf("err publishing to %s: %v", r.outboundQueue, err)
	} else {
		metrics.MessagesPublished.Inc()
	}
	r.broadcaster.Broadcast(m)
	return m
}
