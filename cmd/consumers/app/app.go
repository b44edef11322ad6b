package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"pagsync/cmd/consumers/config"
	"pagsync/internal/expiry"
	"pagsync/internal/health"
	"pagsync/internal/order"
	"pagsync/internal/processor"
	"pagsync/internal/publisher"
	"pagsync/internal/recovery"
	"pagsync/internal/sweep"
	"pagsync/internal/transaction"
	"pagsync/kit/broker"
	"pagsync/kit/db"
	"pagsync/kit/observability"
	"pagsync/kit/pagbank"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App holds the dependencies shared by the web, consumer and ordersctl
// binaries.
type App struct {
	Config   config.Config
	Logger   *observability.Logger
	Registry *prometheus.Registry
	Metrics  *observability.Metrics

	DB       *db.PgxClient
	Producer broker.Producer
	Bus      *broker.Bus

	Publisher    *publisher.Publisher
	Orders       *order.SQLRepository
	Transactions *transaction.SQLRepository
	Recovery     *recovery.Service
	Health       *health.Service

	closers []func()
}

// Open connects to Postgres and the configured broker. With the memory
// broker every envelope stays inside this process.
func Open(ctx context.Context, cfg config.Config) (*App, error) {
	a := &App{
		Config:   cfg,
		Logger:   observability.NewLoggerWithWriter(os.Stdout, cfg.LogLevel).With("service", cfg.Name),
		Registry: prometheus.NewRegistry(),
	}
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.Metrics = observability.NewMetrics(a.Registry)

	pg, err := db.NewPgxClient(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	a.DB = pg
	a.closers = append(a.closers, pg.Close)

	checks := map[string]health.CheckFunc{"postgres": pg.Ping}
	switch cfg.Broker {
	case config.BrokerMemory:
		a.Bus = broker.New(0)
		a.Producer = a.Bus
		a.closers = append(a.closers, a.Bus.Close)
	default:
		kp := broker.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.WriteTimeout)
		a.Producer = kp
		a.closers = append(a.closers, func() { _ = kp.Close() })
		brokers := cfg.Kafka.Brokers
		checks["kafka"] = func(ctx context.Context) error { return broker.Ping(ctx, brokers) }
	}

	a.Publisher = publisher.New(a.Producer, cfg.Kafka.Topic, a.Logger.With("component", "publisher"), a.Metrics)
	a.Orders = order.NewSQLRepository(pg)
	a.Transactions = transaction.NewSQLRepository(pg)
	a.Recovery = recovery.NewService(a.Logger.With("component", "recovery"), a.Producer, cfg.Kafka.DLQTopic)
	a.Health = health.NewService(2*time.Second, checks)
	return a, nil
}

// Processor builds the order processor with the PagBank client behind a
// circuit breaker and the configured expiry policy.
func (a *App) Processor() (*processor.Processor, error) {
	policy := expiry.DefaultPolicy()
	if path := a.Config.Expiry.PolicyFile; path != "" {
		p, err := expiry.LoadPolicyFile(path)
		if err != nil {
			return nil, err
		}
		policy = p
	}

	gateway := pagbank.NewCircuitBreakerGateway(
		pagbank.NewClient(a.Config.PagBank.BaseURL, a.Config.PagBank.Token, a.Config.PagBank.Timeout),
		pagbank.CircuitBreakerConfig{
			FailureThreshold: 5,
			SuccessThreshold: 1,
			OpenTimeout:      30 * time.Second,
			IsFailure: func(err error) bool {
				return !errors.Is(err, pagbank.ErrClient)
			},
		},
	)

	sweeper := expiry.NewSweeper(a.Orders, policy, a.Logger.With("component", "expiry"), a.Metrics)
	return processor.New(
		a.Transactions,
		a.Orders,
		order.NewPaymentUpdater(gateway),
		sweeper,
		a.Publisher,
		a.Logger.With("component", "processor"),
		a.Metrics,
	), nil
}

func (a *App) Sweep(methods []string) *sweep.Runner {
	return sweep.NewRunner(
		a.Orders,
		a.Transactions,
		a.Publisher,
		a.Logger.With("component", "sweep"),
		a.Metrics,
		sweep.Config{Methods: methods, BatchSize: a.Config.Sweep.BatchSize, Concurrency: a.Config.Sweep.Concurrency},
	)
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
