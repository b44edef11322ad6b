package handlers

import (
	"context"

	"pagsync/internal/envelope"
	"pagsync/internal/processor"
)

// ProcessorContract defines the order processing responsibility used by the consumer.
type ProcessorContract interface {
	Process(ctx context.Context, env envelope.Envelope) (processor.Outcome, error)
}

// RecoveryContract records messages the consumer gives up on.
type RecoveryContract interface {
	SendToDLQ(ctx context.Context, topic, key, reason string, payload []byte) error
}

type MetricsContract interface {
	ConsumedAdd(outcome string)
}
