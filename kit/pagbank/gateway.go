package pagbank

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrTimeout = errors.New("pagbank timeout")
var ErrServer = errors.New("pagbank 5xx")
var ErrClient = errors.New("pagbank 4xx")
var ErrCircuitOpen = errors.New("circuit open")

type ChargeStatus string

const (
	StatusWaiting    ChargeStatus = "WAITING"
	StatusInAnalysis ChargeStatus = "IN_ANALYSIS"
	StatusAuthorized ChargeStatus = "AUTHORIZED"
	StatusPaid       ChargeStatus = "PAID"
	StatusDeclined   ChargeStatus = "DECLINED"
	StatusCanceled   ChargeStatus = "CANCELED"
)

// Gateway returns the authoritative charge status of a PagBank order.
type Gateway interface {
	OrderStatus(ctx context.Context, pagbankOrderID string) (ChargeStatus, error)
}

type CircuitBreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	OpenTimeout      time.Duration
	IsFailure        func(error) bool
}

type CircuitBreakerGateway struct {
	next Gateway
	cfg  CircuitBreakerConfig
	now  func() time.Time

	mu           sync.Mutex
	state        int
	failures     int
	successes    int
	openedAt     time.Time
	halfInFlight bool
}

const (
	cbClosed = iota
	cbOpen
	cbHalfOpen
)

func NewCircuitBreakerGateway(next Gateway, cfg CircuitBreakerConfig) *CircuitBreakerGateway {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 1
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.IsFailure == nil {
		cfg.IsFailure = func(err error) bool {
			return errors.Is(err, ErrTimeout) || errors.Is(err, ErrServer) || errors.Is(err, context.DeadlineExceeded)
		}
	}
	return &CircuitBreakerGateway{next: next, cfg: cfg, state: cbClosed, now: time.Now}
}

func (g *CircuitBreakerGateway) OrderStatus(ctx context.Context, pagbankOrderID string) (ChargeStatus, error) {
	if err := g.beforeCall(); err != nil {
		return "", err
	}

	status, err := g.next.OrderStatus(ctx, pagbankOrderID)
	g.afterCall(err)
	return status, err
}

func (g *CircuitBreakerGateway) beforeCall() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case cbClosed:
		return nil
	case cbOpen:
		if g.now().Sub(g.openedAt) < g.cfg.OpenTimeout {
			return ErrCircuitOpen
		}
		g.state = cbHalfOpen
		g.successes = 0
		g.halfInFlight = false
		fallthrough
	case cbHalfOpen:
		if g.halfInFlight {
			return ErrCircuitOpen
		}
		g.halfInFlight = true
		return nil
	default:
		return ErrCircuitOpen
	}
}

func (g *CircuitBreakerGateway) afterCall(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == cbHalfOpen {
		g.halfInFlight = false
	}

	if err == nil {
		switch g.state {
		case cbClosed:
			g.failures = 0
		case cbHalfOpen:
			g.successes++
			if g.successes >= g.cfg.SuccessThreshold {
				g.state = cbClosed
				g.failures = 0
				g.successes = 0
			}
		}
		return
	}

	if !g.cfg.IsFailure(err) {
		return
	}

	switch g.state {
	case cbClosed:
		g.failures++
		if g.failures >= g.cfg.FailureThreshold {
			g.trip()
		}
	case cbHalfOpen:
		g.trip()
	}
}

func (g *CircuitBreakerGateway) trip() {
	g.state = cbOpen
	g.openedAt = g.now()
	g.failures = g.cfg.FailureThreshold
	g.successes = 0
	g.halfInFlight = false
}

// FakeGateway answers from a fixed table; ids it does not know are WAITING.
type FakeGateway struct {
	mu       sync.RWMutex
	statuses map[string]ChargeStatus
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{statuses: make(map[string]ChargeStatus)}
}

func (g *FakeGateway) Set(pagbankOrderID string, status ChargeStatus) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statuses[pagbankOrderID] = status
}

func (g *FakeGateway) OrderStatus(ctx context.Context, pagbankOrderID string) (ChargeStatus, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	if s, ok := g.statuses[pagbankOrderID]; ok {
		return s, nil
	}
	return StatusWaiting, nil
}
