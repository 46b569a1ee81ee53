package chat

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/brianrepro/pingpong-relay/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func testClient(id string, buffer int) *Client {
	return &Client{id: id, send: make(chan []byte, buffer)}
}

func recvMessage(t *testing.T, c *Client) models.Message {
	t.Helper()
	select {
	case data, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		var m models.Message
		require.NoError(t, json.Unmarshal(data, &m))
		return m
	case <-time.After(time.Second):
		t.Fatal("no broadcast received")
	}
	return models.Message{}
}

func TestHubFansOutToAllClients(t *testing.T) {
	hub := NewHub(logrus.New())
	go hub.Run()
	defer hub.Shutdown()
	c1 := testClient("c1", 1)
	c2 := testClient("c2", 1)
	hub.register <- c1
	hub.register <- c2
	hub.Broadcast(models.NewMessage("hi", "alice", "ping"))
	for _, c := range []*Client{c1, c2} {
		m := recvMessage(t, c)
		require.Equal(t, "hi", m.Content)
		require.Equal(t, "alice", m.Sender)
		require.Equal(t, "ping", m.Service)
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub(logrus.New())
	go hub.Run()
	defer hub.Shutdown()
	slow := testClient("slow", 0)
	ok := testClient("ok", 2)
	hub.register <- slow
	hub.register <- ok
	hub.Broadcast(models.NewMessage("one", "alice", "ping"))
	hub.Broadcast(models.NewMessage("two", "alice", "ping"))
	require.Equal(t, "one", recvMessage(t, ok).Content)
	require.Equal(t, "two", recvMessage(t, ok).Content)
	select {
	case _, open := <-slow.send:
		require.False(t, open, "slow client should have been dropped")
	case <-time.After(time.Second):
		t.Fatal("slow client send channel never closed")
	}
}

func TestHubUnregister(t *testing.T) {
	hub := NewHub(logrus.New())
	go hub.Run()
	defer hub.Shutdown()
	c := testClient("c", 1)
	hub.register <- c
	hub.unregister <- c
	hub.Broadcast(models.NewMessage("hi", "alice", "ping"))
	select {
	case data, open := <-c.send:
		require.False(t, open, "unexpected delivery after unregister: %s", data)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("send channel should be closed after unregister")
	}
}
