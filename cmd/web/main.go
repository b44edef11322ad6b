package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pagsync/cmd/consumers/app"
	"pagsync/cmd/consumers/config"
	consumerhandlers "pagsync/cmd/consumers/handlers"
	"pagsync/cmd/web/handlers"
	"pagsync/cmd/web/validator"
	"pagsync/internal/ingest"

	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", os.Getenv("PAGSYNC_CONFIG"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer a.Close()
	logger := a.Logger

	g, gctx := errgroup.WithContext(ctx)

	// With the memory broker nothing outside this process sees the queue, so
	// the consumer runs here too.
	if cfg.Broker == config.BrokerMemory {
		proc, err := a.Processor()
		if err != nil {
			logger.Error("processor init error", "error", err.Error())
			return
		}
		orderHandler := consumerhandlers.NewOrderEvent(logger.With("component", "consumer"), proc, a.Recovery, a.Metrics)
		a.Bus.Subscribe(a.Publisher.Topic(), orderHandler.Handle)
		g.Go(func() error {
			a.Bus.Run(gctx)
			return nil
		})
	}

	router := ingest.NewRouter(a.Publisher, logger.With("component", "ingest"))
	notificationH := handlers.NewNotification(validator.NewJSON(), router)

	mux := http.NewServeMux()
	mux.HandleFunc("/notifications/order", notificationH.Order)
	mux.HandleFunc("GET /healthz", handlers.NewHealth(a.Health).Handler)
	mux.HandleFunc("GET /metrics", handlers.NewMetrics(a.Registry).Handler)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: mux, ReadHeaderTimeout: 2 * time.Second}

	g.Go(func() error {
		logger.Info("web server started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("web server error", "error", err.Error())
	}
}
