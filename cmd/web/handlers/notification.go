package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"pagsync/cmd/web/validator"
	"pagsync/internal/ingest"
)

type NotificationRouterContract interface {
	Route(ctx context.Context, raw []byte) ingest.Decision
}

type Notification struct {
	json   *validator.JSON
	router NotificationRouterContract
}

func NewNotification(jsonV *validator.JSON, router NotificationRouterContract) *Notification {
	return &Notification{json: jsonV, router: router}
}

type errorResp struct {
	Error   int    `json:"error"`
	Message string `json:"message"`
}

type messageResp struct {
	Message string `json:"message"`
}

// Order receives PagBank order notifications. PagBank only looks at the
// status code; the bodies mirror what the store has always answered.
func (h *Notification) Order(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusNotFound, errorResp{Error: http.StatusNotFound, Message: "You should not be here..."})
		return
	}

	raw, err := h.json.ReadBody(w, r)
	if err != nil {
		log.Printf("layer=handler component=notification method=Order err=%v", err)
		writeJSON(w, http.StatusResetContent, errorResp{Error: http.StatusResetContent, Message: "Not apply."})
		return
	}

	if h.router.Route(r.Context(), raw) == ingest.DecisionNotApplicable {
		writeJSON(w, http.StatusResetContent, errorResp{Error: http.StatusResetContent, Message: "Not apply."})
		return
	}
	writeJSON(w, http.StatusOK, messageResp{Message: "Processed."})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("layer=handler component=web method=writeJSON status=%d err=%v", status, err)
	}
}
