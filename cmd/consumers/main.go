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
	webhandlers "pagsync/cmd/web/handlers"
	"pagsync/kit/broker"

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

	proc, err := a.Processor()
	if err != nil {
		logger.Error("processor init error", "error", err.Error())
		return
	}
	orderHandler := consumerhandlers.NewOrderEvent(logger.With("component", "consumer"), proc, a.Recovery, a.Metrics)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", webhandlers.NewHealth(a.Health).Handler)
	mux.HandleFunc("GET /metrics", webhandlers.NewMetrics(a.Registry).Handler)
	srv := &http.Server{Addr: cfg.OpsAddr, Handler: mux, ReadHeaderTimeout: 2 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("ops server started", "addr", srv.Addr)
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

	switch cfg.Broker {
	case config.BrokerMemory:
		a.Bus.Subscribe(a.Publisher.Topic(), orderHandler.Handle)
		g.Go(func() error {
			a.Bus.Run(gctx)
			return nil
		})
	default:
		consumer := broker.NewKafkaConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic)
		defer func() { _ = consumer.Close() }()
		g.Go(func() error {
			return consumer.Run(gctx, orderHandler.Handle)
		})
	}

	logger.Info("consumers started", "broker", cfg.Broker, "topic", cfg.Kafka.Topic, "group_id", cfg.Kafka.GroupID)
	if err := g.Wait(); err != nil {
		logger.Error("consumers stopped with error", "error", err.Error())
		return
	}
	logger.Info("consumers stopped")
}
