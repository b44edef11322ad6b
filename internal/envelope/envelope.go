package envelope

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Topic is the queue topic every envelope travels on.
const Topic = "pagbank.process.order"

// MaxRetryCount is the last retry count that is still processed.
const MaxRetryCount = 5

var ErrInvalidEnvelope = errors.New("invalid envelope")

type Source string

const (
	SourceWebhook Source = "webhook"
	SourceRetry   Source = "retry"
	SourceCron    Source = "cron"
)

func (s Source) Valid() bool {
	switch s {
	case SourceWebhook, SourceRetry, SourceCron:
		return true
	}
	return false
}

type Envelope struct {
	Source         Source `json:"source"`
	PagbankOrderID string `json:"pagbankOrderId"`
	Count          int    `json:"count,omitempty"`
}

func (e Envelope) PartitionKey() string { return e.PagbankOrderID }

// Retry builds the envelope that re-enqueues e for a later attempt.
func (e Envelope) Retry() Envelope {
	return Envelope{Source: SourceRetry, PagbankOrderID: e.PagbankOrderID, Count: e.Count + 1}
}

// Exhausted reports whether a retry envelope went past the retry cap.
func (e Envelope) Exhausted() bool {
	return e.Source == SourceRetry && e.Count > MaxRetryCount
}

func (e Envelope) Validate() error {
	if !e.Source.Valid() {
		return fmt.Errorf("%w: unknown source %q", ErrInvalidEnvelope, e.Source)
	}
	if e.PagbankOrderID == "" {
		return fmt.Errorf("%w: missing pagbankOrderId", ErrInvalidEnvelope)
	}
	if e.Count < 0 {
		return fmt.Errorf("%w: negative count %d", ErrInvalidEnvelope, e.Count)
	}
	return nil
}

func Encode(e Envelope) ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(e)
}

func Decode(raw []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(raw, &e); err != nil {
		return Envelope{}, errors.Join(ErrInvalidEnvelope, err)
	}
	if err := e.Validate(); err != nil {
		return Envelope{}, err
	}
	return e, nil
}

func New(source Source, pagbankOrderID string) Envelope {
	return Envelope{Source: source, PagbankOrderID: pagbankOrderID}
}
