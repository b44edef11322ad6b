package publisher

import (
	"context"
	"fmt"

	"pagsync/internal/envelope"
	"pagsync/kit/broker"
	"pagsync/kit/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PublishError carries the envelope that could not be enqueued.
type PublishError struct {
	Envelope envelope.Envelope
	Err      error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish %s envelope %s: %v", e.Envelope.Source, e.Envelope.PagbankOrderID, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

type Metrics interface {
	PublishedAdd(source, result string)
}

// Publisher puts envelopes on the order topic. It does not check whether the
// referenced transaction exists; the processor does that on delivery.
type Publisher struct {
	producer broker.Producer
	topic    string
	logger   *observability.Logger
	metrics  Metrics
}

// New returns a Publisher writing to topic, or to envelope.Topic when topic
// is empty.
func New(producer broker.Producer, topic string, logger *observability.Logger, metrics Metrics) *Publisher {
	if topic == "" {
		topic = envelope.Topic
	}
	return &Publisher{producer: producer, topic: topic, logger: logger, metrics: metrics}
}

func (p *Publisher) Topic() string { return p.topic }

func (p *Publisher) Publish(ctx context.Context, env envelope.Envelope) error {
	ctx, span := otel.Tracer("pagsync/publisher").Start(ctx, "publisher.Publish")
	defer span.End()
	span.SetAttributes(
		attribute.String("envelope.source", string(env.Source)),
		attribute.String("envelope.pagbank_order_id", env.PagbankOrderID),
		attribute.Int("envelope.count", env.Count),
	)

	body, err := envelope.Encode(env)
	if err != nil {
		p.record(env, "invalid")
		p.logger.Error("envelope rejected", "source", env.Source, "pagbank_order_id", env.PagbankOrderID, "err", err)
		span.SetStatus(codes.Error, err.Error())
		return &PublishError{Envelope: env, Err: err}
	}

	if err := p.producer.Produce(ctx, p.topic, env.PartitionKey(), body); err != nil {
		p.record(env, "error")
		p.logger.Error("envelope publish failed", "topic", p.topic, "source", env.Source, "pagbank_order_id", env.PagbankOrderID, "count", env.Count, "err", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return &PublishError{Envelope: env, Err: err}
	}

	p.record(env, "ok")
	p.logger.Info("envelope published", "topic", p.topic, "source", env.Source, "pagbank_order_id", env.PagbankOrderID, "count", env.Count)
	return nil
}

func (p *Publisher) record(env envelope.Envelope, result string) {
	if p.metrics == nil {
		return
	}
	p.metrics.PublishedAdd(string(env.Source), result)
}
