package health

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

type CheckFunc func(ctx context.Context) error

// Service runs dependency probes and caches the combined result for ttl, so a
// busy probe endpoint does not hammer Postgres or the brokers.
type Service struct {
	mu sync.Mutex

	checks  map[string]CheckFunc
	ttl     time.Duration
	timeout time.Duration

	nextCheckAt time.Time
	lastResult  Result
}

type Result struct {
	At     time.Time         `json:"at"`
	OK     bool              `json:"ok"`
	Checks map[string]string `json:"checks"`
}

func NewService(ttl time.Duration, checks map[string]CheckFunc) *Service {
	return &Service{ttl: ttl, timeout: 2 * time.Second, checks: checks, lastResult: Result{Checks: map[string]string{}}}
}

// WithTimeout bounds each individual probe.
func (s *Service) WithTimeout(d time.Duration) *Service {
	s.timeout = d
	return s
}

func (s *Service) Names() []string {
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Service) Check(ctx context.Context) Result {
	s.mu.Lock()
	if time.Now().Before(s.nextCheckAt) {
		res := s.lastResult
		s.mu.Unlock()
		return res
	}
	s.mu.Unlock()

	var mu sync.Mutex
	res := Result{At: time.Now().UTC(), OK: true, Checks: make(map[string]string, len(s.checks))}
	set := func(name, status string, ok bool) {
		mu.Lock()
		defer mu.Unlock()
		res.Checks[name] = status
		if !ok {
			res.OK = false
		}
	}

	var g errgroup.Group
	for name, fn := range s.checks {
		name, fn := name, fn
		if fn == nil {
			set(name, "invalid check", false)
			continue
		}
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			if err := fn(cctx); err != nil {
				set(name, err.Error(), false)
				return nil
			}
			set(name, "ok", true)
			return nil
		})
	}
	_ = g.Wait()

	s.mu.Lock()
	s.lastResult = res
	s.nextCheckAt = time.Now().Add(s.ttl)
	s.mu.Unlock()

	return res
}
