package recovery

import (
	"context"
	"encoding/json"
	"time"

	"pagsync/kit/broker"
	"pagsync/kit/observability"
)

// DeadLetter is what lands on the dead-letter topic for a message the
// consumer gave up on.
type DeadLetter struct {
	Topic    string          `json:"topic"`
	Reason   string          `json:"reason"`
	Key      string          `json:"key,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	Raw      string          `json:"raw,omitempty"`
	FailedAt time.Time       `json:"failedAt"`
}

type Service struct {
	logger   *observability.Logger
	producer broker.Producer
	dlqTopic string
}

// NewService logs dead letters and, when producer and dlqTopic are both set,
// also forwards them to dlqTopic. Forward errors are returned, not logged.
func NewService(logger *observability.Logger, producer broker.Producer, dlqTopic string) *Service {
	return &Service{logger: logger, producer: producer, dlqTopic: dlqTopic}
}

func (s *Service) SendToDLQ(ctx context.Context, topic, key, reason string, payload []byte) error {
	if s == nil {
		return nil
	}
	s.logger.Error("dlq", "topic", topic, "key", key, "reason", reason, "payload", string(payload))
	if s.producer == nil || s.dlqTopic == "" {
		return nil
	}

	dl := DeadLetter{Topic: topic, Reason: reason, Key: key, FailedAt: time.Now().UTC()}
	if json.Valid(payload) {
		dl.Payload = payload
	} else {
		dl.Raw = string(payload)
	}
	body, err := json.Marshal(dl)
	if err != nil {
		return err
	}
	return s.producer.Produce(ctx, s.dlqTopic, key, body)
}
