package sweep

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"pagsync/internal/envelope"
	"pagsync/internal/order"
	"pagsync/internal/transaction"
	"pagsync/kit/db"
	"pagsync/kit/observability"

	"golang.org/x/sync/errgroup"
)

type Publisher interface {
	Publish(ctx context.Context, env envelope.Envelope) error
}

type Metrics interface {
	SweepCandidateAdd(method, result string)
}

type Config struct {
	Methods     []string
	BatchSize   int
	Concurrency int
}

type Report struct {
	Published int64
	Skipped   int64
	Failed    int64
}

// Runner walks the pending orders of every payment method group and puts a
// cron envelope on the queue for each one. The processor decides on delivery
// whether the order is updated or expired.
type Runner struct {
	candidates order.CandidateSourceContract
	txns       transaction.RepositoryContract
	publisher  Publisher
	logger     *observability.Logger
	metrics    Metrics
	cfg        Config
}

func NewRunner(
	candidates order.CandidateSourceContract,
	txns transaction.RepositoryContract,
	publisher Publisher,
	logger *observability.Logger,
	metrics Metrics,
	cfg Config,
) *Runner {
	if len(cfg.Methods) == 0 {
		cfg.Methods = order.SweepMethods
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = len(cfg.Methods)
	}
	return &Runner{candidates: candidates, txns: txns, publisher: publisher, logger: logger, metrics: metrics, cfg: cfg}
}

// SweepOnce runs one pass over all method groups. A failing group does not
// stop the others; the first listing error is returned after all finish.
func (r *Runner) SweepOnce(ctx context.Context) (Report, error) {
	var published, skipped, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)

	var listErr error
	var listErrOnce atomic.Bool
	for _, method := range r.cfg.Methods {
		method := method
		g.Go(func() error {
			ids, err := r.candidates.ListPendingIDs(gctx, method, r.cfg.BatchSize)
			if err != nil {
				r.logger.Error("sweep listing failed", "method", method, "err", err)
				if listErrOnce.CompareAndSwap(false, true) {
					listErr = err
				}
				return nil
			}
			for _, id := range ids {
				if err := gctx.Err(); err != nil {
					return err
				}
				switch r.sweepOrder(gctx, method, id) {
				case "published":
					published.Add(1)
				case "skipped":
					skipped.Add(1)
				default:
					failed.Add(1)
				}
			}
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = listErr
	}

	rep := Report{Published: published.Load(), Skipped: skipped.Load(), Failed: failed.Load()}
	r.logger.Info("sweep finished", "published", rep.Published, "skipped", rep.Skipped, "failed", rep.Failed)
	return rep, err
}

func (r *Runner) sweepOrder(ctx context.Context, method string, orderID int64) string {
	result := "published"
	defer func() {
		if r.metrics != nil {
			r.metrics.SweepCandidateAdd(method, result)
		}
	}()

	txn, err := r.txns.FindByOrder(ctx, orderID)
	if errors.Is(err, db.ErrNotFound) || (err == nil && txn.TxnID == "") {
		r.logger.Warn("sweep skipped order without transaction", "order_id", orderID, "method", method)
		result = "skipped"
		return result
	}
	if err != nil {
		r.logger.Error("sweep transaction lookup failed", "order_id", orderID, "method", method, "err", err)
		result = "failed"
		return result
	}

	if err := r.publisher.Publish(ctx, envelope.New(envelope.SourceCron, txn.TxnID)); err != nil {
		result = "failed"
		return result
	}
	return result
}

// Run sweeps every interval until ctx is done, starting with an immediate pass.
func (r *Runner) Run(ctx context.Context, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		if _, err := r.SweepOnce(ctx); err != nil && ctx.Err() == nil {
			r.logger.Error("sweep pass failed", "err", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
