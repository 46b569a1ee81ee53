package chat

import (
	"encoding/json"

	"github.com/brianrepro/pingpong-relay/internal/models"
	"github.com/brianrepro/pingpong-relay/pkg/metrics"
	"github.com/sirupsen/logrus"
)

// Hub fans a message out to every currently connected client. Fire-and-forget:
// no delivery confirmation and no backlog for clients that connect later.
type Hub struct {
	log        *logrus.Entry
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		log:        log.WithField("module", "hub"),
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			metrics.ConnectedClients.Inc()
			h.log.Debugf("client %s connected, %d total", client.id, len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.ConnectedClients.Dec()
			}
			h.log.Debugf("client %s disconnected, %d total", client.id, len(h.clients))
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					delete(h.clients, client)
					close(client.send)
					metrics.ConnectedClients.Dec()
				}
			}
			metrics.MessagesBroadcast.Inc()
		case <-h.done:
			return
		}
	}
}

func (h *Hub) Shutdown() {
	close(h.done)
}

// Broadcast delivers m to all connected clients as JSON.
func (h *Hub) Broadcast(m models.Message) {
	data, err := json.Marshal(m)
	if err != nil {
		h.log.Warnf("err marshaling broadcast message: %v", err)
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}
