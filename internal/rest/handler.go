package rest

import (
	"encoding/json"
	"net/http"

	"github.com/brianrepro/pingpong-relay/internal/models"
	"github.com/brianrepro/pingpong-relay/pkg/chat"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type Service interface {
	Send(m models.Message) models.Message
	Name() string
}

type handler struct {
	log      *logrus.Entry
	logger   *logrus.Logger
	service  Service
	hub      *chat.Hub
	page     *pageRenderer
	upgrader websocket.Upgrader
}

func newHandler(log *logrus.Logger, service Service, hub *chat.Hub) *handler {
	return &handler{
		log:     log.WithField("module", "rest"),
		logger:  log,
		service: service,
		hub:     hub,
		page:    newPageRenderer(service.Name()),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
	}
}

func (h *handler) chatPage(w http.ResponseWriter, _ *http.Request) {
	if err := h.page.render(w); err != nil {
		h.log.Warnf("err rendering chat page: %v", err)
	}
}

func (h *handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	var s chat.Submission
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		writeErrResponse(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if s.Content == "" || s.Sender == "" {
		writeErrResponse(w, "content and sender are required", http.StatusBadRequest)
		return
	}
	sent := h.service.Send(models.Message{Content: s.Content, Sender: s.Sender})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(response{Data: sent})
}

func (h *handler) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("err upgrading connection: %v", err)
		return
	}
	client := chat.NewClient(h.hub, conn, func(s chat.Submission) {
		h.service.Send(models.Message{Content: s.Content, Sender: s.Sender})
	}, h.logger)
	go client.Serve()
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeResponse(w, "Ok")
}

type response struct {
	Data interface{} `json:"data,omitempty"`
	Err  string      `json:"error,omitempty"`
}

func writeResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response{Data: data})
}

func writeErrResponse(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(response{Err: message})
}
