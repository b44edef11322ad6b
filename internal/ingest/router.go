package ingest

import (
	"context"
	"encoding/json"
	"strings"

	"pagsync/internal/envelope"
	"pagsync/kit/observability"
)

type Decision int

const (
	DecisionPublished Decision = iota
	DecisionNotApplicable
	DecisionIgnored
)

func (d Decision) String() string {
	switch d {
	case DecisionPublished:
		return "published"
	case DecisionNotApplicable:
		return "not_applicable"
	case DecisionIgnored:
		return "ignored"
	}
	return "unknown"
}

type Publisher interface {
	Publish(ctx context.Context, env envelope.Envelope) error
}

// Notification is the part of the PagBank order notification the router reads.
type Notification struct {
	ID string `json:"id"`
}

type Router struct {
	publisher Publisher
	logger    *observability.Logger
}

func NewRouter(publisher Publisher, logger *observability.Logger) *Router {
	return &Router{publisher: publisher, logger: logger}
}

// Route turns a webhook body into a webhook envelope. A failed publish still
// yields DecisionPublished: PagBank is answered with success and the failure
// stays in the logs.
func (r *Router) Route(ctx context.Context, raw []byte) Decision {
	var n Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		r.logger.Warn("notification not applicable", "err", err, "size", len(raw))
		return DecisionNotApplicable
	}

	id := strings.TrimSpace(n.ID)
	if id == "" {
		r.logger.Info("notification without id ignored")
		return DecisionIgnored
	}

	if err := r.publisher.Publish(ctx, envelope.New(envelope.SourceWebhook, id)); err != nil {
		r.logger.Error("notification publish failed", "pagbank_order_id", id, "err", err)
	}
	return DecisionPublished
}
