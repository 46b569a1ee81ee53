package relay

import (
	"errors"
	"testing"
	"time"

	"github.com/brianrepro/pingpong-relay/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type published struct {
	queue string
	data  []byte
}

type fakeBroker struct {
	published  []published
	publishErr error
	handlers   map[string]func(data []byte)
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{handlers: make(map[string]func(data []byte))}
}

func (b *fakeBroker) Publish(queue string, data []byte) error {
	if b.publishErr != nil {
		return b.publishErr
	}
	b.published = append(b.published, published{queue: queue, data: data})
	return nil
}

func (b *fakeBroker) Subscribe(queue string, handler func(data []byte)) error {
	b.handlers[queue] = handler
	return nil
}

func (b *fakeBroker) deliver(queue string, data []byte) {
	b.handlers[queue](data)
}

type fakeBroadcaster struct {
	messages []models.Message
}

func (f *fakeBroadcaster) Broadcast(m models.Message) {
	f.messages = append(f.messages, m)
}

func newRelay(t *testing.T, broker *fakeBroker, bc *fakeBroadcaster) *Relay {
	t.Helper()
	r := New(logrus.New(), broker, bc, "pong", "ping", "ping")
	require.NoError(t, r.Start())
	return r
}

func TestConsumerBroadcastsOnce(t *testing.T) {
	broker := newFakeBroker()
	bc := &fakeBroadcaster{}
	newRelay(t, broker, bc)
	data, err := models.Encode(models.NewMessage("hi", "alice", "pong"))
	require.NoError(t, err)
	broker.deliver("pong", data)
	require.Len(t, bc.messages, 1)
	require.Equal(t, "hi", bc.messages[0].Content)
	require.Equal(t, "alice", bc.messages[0].Sender)
}

func TestConsumerPreservesServiceStamp(t *testing.T) {
	broker := newFakeBroker()
	bc := &fakeBroadcaster{}
	newRelay(t, broker, bc)
	data, err := models.Encode(models.NewMessage("hi", "alice", "pong"))
	require.NoError(t, err)
	broker.deliver("pong", data)
	require.Len(t, bc.messages, 1)
	require.Equal(t, "pong", bc.messages[0].Service, "consumer must not re-stamp the sender's identity")
}

func TestConsumerDropsMalformedPayload(t *testing.T) {
	broker := newFakeBroker()
	bc := &fakeBroadcaster{}
	newRelay(t, broker, bc)
	broker.deliver("pong", []byte(`not even json`))
	broker.deliver("pong", []byte(`{"_type":"Order","content":"hi","sender":"a"}`))
	require.Empty(t, bc.messages)
}

func TestConsumerKeepsArrivalOrder(t *testing.T) {
	broker := newFakeBroker()
	bc := &fakeBroadcaster{}
	newRelay(t, broker, bc)
	for _, content := range []string{"one", "two", "three"} {
		data, err := models.Encode(models.NewMessage(content, "alice", "pong"))
		require.NoError(t, err)
		broker.deliver("pong", data)
	}
	require.Len(t, bc.messages, 3)
	require.Equal(t, "one", bc.messages[0].Content)
	require.Equal(t, "two", bc.messages[1].Content)
	require.Equal(t, "three", bc.messages[2].Content)
}

func TestSendStampsPublishesAndEchoes(t *testing.T) {
	broker := newFakeBroker()
	bc := &fakeBroadcaster{}
	r := newRelay(t, broker, bc)
	sent := r.Send(models.Message{Content: "hi", Sender: "alice", Service: "spoofed"})
	require.Equal(t, "ping", sent.Service)
	require.False(t, sent.Timestamp.IsZero())
	require.Len(t, broker.published, 1)
	require.Equal(t, "ping", broker.published[0].queue)
	m, err := models.Decode(broker.published[0].data)
	require.NoError(t, err)
	require.Equal(t, "ping", m.Service)
	require.Equal(t, "hi", m.Content)
	require.Len(t, bc.messages, 1)
	require.Equal(t, sent, bc.messages[0])
}

func TestSendKeepsExistingTimestamp(t *testing.T) {
	broker := newFakeBroker()
	bc := &fakeBroadcaster{}
	r := newRelay(t, broker, bc)
	ts := time.Date(2023, 4, 2, 15, 4, 5, 0, time.UTC)
	sent := r.Send(models.Message{Content: "hi", Sender: "alice", Timestamp: ts})
	require.Equal(t, ts, sent.Timestamp)
}

func TestSendEchoesWhenBrokerDown(t *testing.T) {
	broker := newFakeBroker()
	broker.publishErr = errors.New("err no servers available")
	bc := &fakeBroadcaster{}
	r := newRelay(t, broker, bc)
	require.NotPanics(t, func() {
		r.Send(models.Message{Content: "hi", Sender: "alice"})
	})
	require.Empty(t, broker.published)
	require.Len(t, bc.messages, 1, "local echo must not depend on publish success")
}

func TestPingToPongScenario(t *testing.T) {
	pingBroker := newFakeBroker()
	pingBC := &fakeBroadcaster{}
	ping := New(logrus.New(), pingBroker, pingBC, "pong", "ping", "ping")
	require.NoError(t, ping.Start())

	pongBroker := newFakeBroker()
	pongBC := &fakeBroadcaster{}
	pong := New(logrus.New(), pongBroker, pongBC, "ping", "pong", "pong")
	require.NoError(t, pong.Start())

	ping.Send(models.Message{Content: "hi", Sender: "alice"})
	require.Len(t, pingBroker.published, 1)
	pongBroker.deliver("ping", pingBroker.published[0].data)

	require.Len(t, pongBC.messages, 1)
	require.Equal(t, "hi", pongBC.messages[0].Content)
	require.Equal(t, "alice", pongBC.messages[0].Sender)
	require.Equal(t, "ping", pongBC.messages[0].Service)
}
