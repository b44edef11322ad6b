package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	h http.Handler
}

func NewMetrics(gatherer prometheus.Gatherer) *Metrics {
	return &Metrics{h: promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})}
}

func (m *Metrics) Handler(w http.ResponseWriter, r *http.Request) {
	m.h.ServeHTTP(w, r)
}
