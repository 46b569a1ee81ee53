package rest

import (
	"net/http"

	"github.com/brianrepro/pingpong-relay/pkg/chat"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func NewRouter(log *logrus.Logger, service Service, hub *chat.Hub, version string) chi.Router {
	h := newHandler(log, service, hub)
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Get("/health", h.health)
	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		writeResponse(w, version)
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/", h.chatPage)
	r.Get("/"+service.Name(), h.chatPage)
	r.Get("/ws", h.serveWS)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/send", h.sendMessage)
	})
	return r
}
