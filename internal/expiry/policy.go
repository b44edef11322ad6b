package expiry

import (
	"fmt"
	"os"
	"time"

	"pagsync/internal/order"

	"gopkg.in/yaml.v3"
)

const DefaultAllowed = 10080 * time.Minute

// Policy maps a payment method to how long its payment window stays open.
// A Policy is never mutated after construction.
type Policy struct {
	allowed  map[string]time.Duration
	fallback time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		allowed: map[string]time.Duration{
			order.MethodPix:      5 * time.Minute,
			order.MethodDeepLink: 5 * time.Minute,
			order.MethodBoleto:   2880 * time.Minute,
		},
		fallback: DefaultAllowed,
	}
}

// NewPolicy copies overrides on top of the default windows. A zero fallback
// keeps DefaultAllowed.
func NewPolicy(overrides map[string]time.Duration, fallback time.Duration) Policy {
	p := DefaultPolicy()
	for method, d := range overrides {
		p.allowed[method] = d
	}
	if fallback > 0 {
		p.fallback = fallback
	}
	return p
}

func (p Policy) Allowed(method string) time.Duration {
	if d, ok := p.allowed[method]; ok {
		return d
	}
	if p.fallback == 0 {
		return DefaultAllowed
	}
	return p.fallback
}

// Expired reports whether a payment window opened at expiresAt has lapsed at
// now. The boundary itself is still inside the window.
func (p Policy) Expired(method string, expiresAt *time.Time, now time.Time) bool {
	if expiresAt == nil {
		return false
	}
	return now.Add(-p.Allowed(method)).After(*expiresAt)
}

type policyFile struct {
	DefaultMinutes int            `yaml:"default_minutes"`
	Minutes        map[string]int `yaml:"minutes"`
}

// LoadPolicyFile reads minute overrides from a YAML document:
//
//	default_minutes: 10080
//	minutes:
//	  pagbank_paymentmagento_pix: 5
func LoadPolicyFile(path string) (Policy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read expiry policy: %w", err)
	}
	var f policyFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return Policy{}, fmt.Errorf("parse expiry policy %s: %w", path, err)
	}

	overrides := make(map[string]time.Duration, len(f.Minutes))
	for method, m := range f.Minutes {
		if m <= 0 {
			return Policy{}, fmt.Errorf("expiry policy %s: method %s has non-positive window %d", path, method, m)
		}
		overrides[method] = time.Duration(m) * time.Minute
	}
	return NewPolicy(overrides, time.Duration(f.DefaultMinutes)*time.Minute), nil
}
