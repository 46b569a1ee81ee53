package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brianrepro/pingpong-relay/internal/config"
	"github.com/brianrepro/pingpong-relay/internal/queue"
	"github.com/brianrepro/pingpong-relay/internal/relay"
	"github.com/brianrepro/pingpong-relay/internal/rest"
	"github.com/brianrepro/pingpong-relay/pkg/chat"
	"github.com/brianrepro/pingpong-relay/pkg/logging"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var version = `0.0.0`

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		logrus.Panicf("err loading config: %v", err)
	}
	log := logging.GetLogger(cfg.Verbose)

	hub := chat.NewHub(log)
	go hub.Run()
	defer hub.Shutdown()

	broker, err := queue.Connect(cfg.MQURL(), log)
	if err != nil {
		log.Panicf("err connecting to broker: %v", err)
	}
	defer broker.Close()

	service := relay.New(log, broker, hub, cfg.InboundQueue, cfg.OutboundQueue, cfg.ServiceName)
	if err = service.Start(); err != nil {
		log.Panicf("err starting relay: %v", err)
	}

	router := rest.NewRouter(log, service, hub, version)
	if err = startServer(context.Background(), router, log, cfg.HTTPPort); err != nil {
		log.Panic(err)
	}
}

func startServer(ctx context.Context, router http.Handler, log *logrus.Logger, port int) error {
	log.Infof("starting server on port %d", port)
	s := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		ReadHeaderTimeout: 30 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		Handler:           router,
	}
	errCh := make(chan error)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGHUP, syscall.SIGQUIT)
	select {
	case err := <-errCh:
		return err
	case <-sigCh:
	}
	log.Info("terminating...")
	gfCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.Shutdown(gfCtx)
}
