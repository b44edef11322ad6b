package handlers

import (
	"context"
	"errors"

	"pagsync/internal/envelope"
	"pagsync/kit/broker"
	"pagsync/kit/observability"
)

type Status int

const (
	Handled Status = iota
	Failed
)

// Result tells the transport what to do with the message: Handled commits
// it, Failed leaves it for redelivery.
type Result struct {
	Status  Status
	Outcome string
	Err     error
}

const (
	outcomeParseFailure = "parse_failure"
	outcomeDropped      = "dropped"
)

type OrderEvent struct {
	logger    *observability.Logger
	processor ProcessorContract
	recovery  RecoveryContract
	metrics   MetricsContract
}

func NewOrderEvent(logger *observability.Logger, processor ProcessorContract, recovery RecoveryContract, metrics MetricsContract) *OrderEvent {
	return &OrderEvent{logger: logger, processor: processor, recovery: recovery, metrics: metrics}
}

// OnMessage decodes one queue body and runs it through the processor. Every
// domain outcome is Handled; only a cancelled context yields Failed.
func (h *OrderEvent) OnMessage(ctx context.Context, raw []byte) Result {
	env, err := envelope.Decode(raw)
	if err != nil {
		h.logger.Error("envelope parse failed", "err", err, "payload", string(raw))
		return h.done(Result{Status: Handled, Outcome: outcomeParseFailure, Err: err})
	}

	if env.Exhausted() {
		h.drop(ctx, env, raw)
		return h.done(Result{Status: Handled, Outcome: outcomeDropped})
	}

	outcome, err := h.processor.Process(ctx, env)
	if ctxErr := ctx.Err(); ctxErr != nil {
		h.logger.Warn("envelope processing interrupted", "pagbank_order_id", env.PagbankOrderID, "err", ctxErr)
		return h.done(Result{Status: Failed, Outcome: outcome.String(), Err: errors.Join(ctxErr, err)})
	}
	return h.done(Result{Status: Handled, Outcome: outcome.String(), Err: err})
}

// Handle adapts OnMessage to broker.Handler. A nil return acknowledges the
// message.
func (h *OrderEvent) Handle(ctx context.Context, msg broker.Message) error {
	res := h.OnMessage(ctx, msg.Value)
	if res.Status == Failed {
		return res.Err
	}
	return nil
}

// drop records an exhausted envelope once: through the recovery sink when
// one is wired, otherwise as a warning.
func (h *OrderEvent) drop(ctx context.Context, env envelope.Envelope, raw []byte) {
	if h.recovery == nil {
		h.logger.Warn("envelope dropped, retries exhausted", "pagbank_order_id", env.PagbankOrderID, "count", env.Count, "max", envelope.MaxRetryCount)
		return
	}
	if err := h.recovery.SendToDLQ(ctx, envelope.Topic, env.PartitionKey(), "retry count exhausted", raw); err != nil {
		h.logger.Error("dlq forward failed", "pagbank_order_id", env.PagbankOrderID, "count", env.Count, "err", err)
	}
}

func (h *OrderEvent) done(res Result) Result {
	if h.metrics != nil {
		h.metrics.ConsumedAdd(res.Outcome)
	}
	return res
}
