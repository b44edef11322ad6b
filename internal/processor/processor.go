package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pagsync/internal/envelope"
	"pagsync/internal/order"
	"pagsync/internal/transaction"
	"pagsync/kit/db"
	"pagsync/kit/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrTransientNotFound = errors.New("transaction not found yet")
	ErrLookupFailure     = errors.New("transaction lookup failed")
	ErrLoadFailure       = errors.New("order load failed")
	ErrApplyFailure      = errors.New("payment apply failed")
)

type Outcome int

const (
	OutcomeProcessed Outcome = iota
	OutcomeExpired
	OutcomeSkipped
	OutcomeRequeued
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeProcessed:
		return "processed"
	case OutcomeExpired:
		return "expired"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeRequeued:
		return "requeued"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

type Publisher interface {
	Publish(ctx context.Context, env envelope.Envelope) error
}

type Expirer interface {
	MaybeExpire(ctx context.Context, o *order.Order) (bool, error)
}

type Metrics interface {
	ObserveProcess(d time.Duration)
}

type Processor struct {
	finder    transaction.RepositoryContract
	orders    order.RepositoryContract
	updater   order.PaymentUpdaterContract
	expirer   Expirer
	publisher Publisher
	logger    *observability.Logger
	metrics   Metrics
	locks     KeyedMutex
}

func New(
	finder transaction.RepositoryContract,
	orders order.RepositoryContract,
	updater order.PaymentUpdaterContract,
	expirer Expirer,
	publisher Publisher,
	logger *observability.Logger,
	metrics Metrics,
) *Processor {
	return &Processor{
		finder:    finder,
		orders:    orders,
		updater:   updater,
		expirer:   expirer,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// Process runs one envelope through lookup, eligibility, apply and expiry.
// Only OutcomeRequeued produces a new envelope; every failure stops without
// re-publishing.
func (p *Processor) Process(ctx context.Context, env envelope.Envelope) (Outcome, error) {
	start := time.Now()
	ctx, span := otel.Tracer("pagsync/processor").Start(ctx, "processor.Process")
	defer span.End()
	span.SetAttributes(
		attribute.String("envelope.source", string(env.Source)),
		attribute.String("envelope.pagbank_order_id", env.PagbankOrderID),
		attribute.Int("envelope.count", env.Count),
	)

	outcome, err := p.process(ctx, env)
	if p.metrics != nil {
		p.metrics.ObserveProcess(time.Since(start))
	}
	span.SetAttributes(attribute.String("outcome", outcome.String()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return outcome, err
}

func (p *Processor) process(ctx context.Context, env envelope.Envelope) (Outcome, error) {
	log := p.logger.With("pagbank_order_id", env.PagbankOrderID, "source", env.Source, "count", env.Count)

	txn, err := p.finder.Find(ctx, env.PagbankOrderID)
	if errors.Is(err, db.ErrNotFound) {
		next := env.Retry()
		if perr := p.publisher.Publish(ctx, next); perr != nil {
			log.Error("requeue failed", "err", perr)
			return OutcomeFailed, errors.Join(ErrTransientNotFound, perr)
		}
		log.Info("transaction not found, requeued", "next_count", next.Count)
		return OutcomeRequeued, ErrTransientNotFound
	}
	if err != nil {
		log.Error("transaction lookup failed", "err", err)
		return OutcomeFailed, errors.Join(ErrLookupFailure, err)
	}

	unlock := p.locks.Lock(txn.OrderID)
	defer unlock()

	log = log.With("order_id", txn.OrderID)
	o, err := p.orders.Get(ctx, txn.OrderID)
	if err != nil {
		log.Error("order load failed", "err", err)
		return OutcomeFailed, fmt.Errorf("%w: order %d: %w", ErrLoadFailure, txn.OrderID, err)
	}

	if !o.IsEligible() {
		log.Debug("order not eligible", "state", o.State)
		return OutcomeSkipped, nil
	}

	if err := p.updater.UpdatePaymentStatus(ctx, o, env.PagbankOrderID); err != nil {
		log.Error("payment update failed", "err", err)
		return OutcomeFailed, fmt.Errorf("%w: order %d: %w", ErrApplyFailure, o.ID, err)
	}
	if err := p.orders.Save(ctx, o); err != nil {
		log.Error("order save failed", "err", err)
		return OutcomeFailed, fmt.Errorf("%w: order %d: %w", ErrApplyFailure, o.ID, err)
	}

	expired, err := p.expirer.MaybeExpire(ctx, o)
	if err != nil {
		log.Error("order expiry failed", "err", err)
		return OutcomeFailed, fmt.Errorf("%w: order %d: %w", ErrApplyFailure, o.ID, err)
	}
	if expired {
		return OutcomeExpired, nil
	}
	log.Info("order processed", "state", o.State)
	return OutcomeProcessed, nil
}
