package queue

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Reconnect policy for the broker connection. The relay itself takes no
// corrective action on connection loss beyond what the client does here.
const (
	maxReconnects = 3
	reconnectWait = 5 * time.Second
)

// Broker wraps the NATS connection shared by the consumer and the publisher.
type Broker struct {
	log  *logrus.Entry
	conn *nats.Conn
}

func Connect(url string, log *logrus.Logger) (*Broker, error) {
	entry := log.WithField("module", "queue")
	conn, err := nats.Connect(url,
		nats.MaxReconnects(maxReconnects),
		nats.ReconnectWait(reconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			entry.Warnf("broker disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(conn *nats.Conn) {
			entry.Infof("broker reconnected to %s", conn.ConnectedUrl())
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			entry.Warn("broker connection closed")
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			entry.Errorf("broker async error: %v", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("err connecting to broker at %s: %w", url, err)
	}
	entry.Infof("connected to broker at %s", conn.ConnectedUrl())
	return &Broker{log: entry, conn: conn}, nil
}

// Publish sends data to the named queue. Best effort: delivery is not
// acknowledged at the application level.
func (b *Broker) Publish(queue string, data []byte) error {
	if err := b.conn.Publish(queue, data); err != nil {
		return fmt.Errorf("err publishing to %s: %w", queue, err)
	}
	return nil
}

// Subscribe consumes the named queue with a queue group of the same name so
// that only one consumer instance receives each message. Callbacks for a
// single subscription are dispatched serially, which preserves arrival order
// into the handler.
func (b *Broker) Subscribe(queue string, handler func(data []byte)) error {
	if _, err := b.conn.QueueSubscribe(queue, queue, func(msg *nats.Msg) {
		handler(msg.Data)
	}); err != nil {
		return fmt.Errorf("err subscribing to %s: %w", queue, err)
	}
	b.log.Infof("consuming queue %s", queue)
	return nil
}

func (b *Broker) Close() {
	if err := b.conn.Drain(); err != nil {
		b.log.Warnf("err draining broker connection: %v", err)
	}
	b.conn.Close()
}
