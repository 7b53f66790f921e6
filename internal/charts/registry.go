package charts

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"scantimeline/internal/dom"
)

// ErrDuplicateChart is returned under PolicyReject when a placeholder key
// already has a live chart.
var ErrDuplicateChart = errors.New("chart already constructed for placeholder")

// DuplicatePolicy decides what happens when a chart is requested for a
// placeholder key that already has one.
type DuplicatePolicy int

const (
	// PolicyReplace destroys the previous chart(s) before constructing.
	PolicyReplace DuplicatePolicy = iota
	// PolicyReject refuses the new construction with ErrDuplicateChart.
	PolicyReject
	// PolicyAllow constructs again without touching earlier charts.
	PolicyAllow
)

func (p DuplicatePolicy) String() string {
	switch p {
	case PolicyReplace:
		return "replace"
	case PolicyReject:
		return "reject"
	case PolicyAllow:
		return "allow"
	default:
		return fmt.Sprintf("DuplicatePolicy(%d)", int(p))
	}
}

// ParseDuplicatePolicy accepts "replace", "reject" or "allow".
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "replace":
		return PolicyReplace, nil
	case "reject":
		return PolicyReject, nil
	case "allow":
		return PolicyAllow, nil
	default:
		return PolicyReplace, fmt.Errorf("invalid duplicate chart policy %q", s)
	}
}

// Registry tracks constructed charts by placeholder key.
type Registry struct {
	mu      sync.Mutex
	policy  DuplicatePolicy
	factory Factory
	charts  map[string][]Chart
}

// NewRegistry returns a registry constructing charts with factory.
func NewRegistry(factory Factory, policy DuplicatePolicy) *Registry {
	return &Registry{
		policy:  policy,
		factory: factory,
		charts:  make(map[string][]Chart),
	}
}

// Policy returns the duplicate policy in force.
func (r *Registry) Policy() DuplicatePolicy {
	return r.policy
}

// Construct builds a chart for key on target, applying the duplicate policy.
// Factory errors are returned unchanged and leave the registry untouched.
func (r *Registry) Construct(key string, target *dom.Element, cfg Config) (Chart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.charts[key]
	if len(existing) > 0 {
		switch r.policy {
		case PolicyReject:
			return nil, fmt.Errorf("%w: %s", ErrDuplicateChart, key)
		case PolicyReplace:
			for _, c := range existing {
				c.Destroy()
			}
			delete(r.charts, key)
		}
	}

	c, err := r.factory.New(target, cfg)
	if err != nil {
		return nil, err
	}
	r.charts[key] = append(r.charts[key], c)
	return c, nil
}

// Charts returns the live charts for key, oldest first.
func (r *Registry) Charts(key string) []Chart {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Chart(nil), r.charts[key]...)
}

// Len returns the number of live charts across all keys.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, cs := range r.charts {
		n += len(cs)
	}
	return n
}

// DestroyAll tears down every chart.
func (r *Registry) DestroyAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, cs := range r.charts {
		for _, c := range cs {
			c.Destroy()
		}
		delete(r.charts, key)
	}
}
