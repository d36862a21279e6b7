package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics keeps in-process counters for HTTP traffic and authorization
// outcomes. Counters are keyed by "<part>|<part>|..." strings so a
// snapshot is trivially serializable.
type Metrics struct {
	mu             sync.RWMutex
	requests       map[string]int64
	errors         map[string]int64
	authzDecisions map[string]int64
	latencySumMs   map[string]int64
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Requests       map[string]int64 `json:"requests"`
	Errors         map[string]int64 `json:"errors"`
	AuthzDecisions map[string]int64 `json:"authz_decisions"`
	LatencySumMs   map[string]int64 `json:"latency_sum_ms"`
}

// NewMetrics initializes empty counters.
func NewMetrics() *Metrics {
	return &Metrics{
		requests:       make(map[string]int64),
		errors:         make(map[string]int64),
		authzDecisions: make(map[string]int64),
		latencySumMs:   make(map[string]int64),
	}
}

// RecordRequest counts a finished request and accumulates its latency.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := counterKey(path, method, strconv.Itoa(status))
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[key]++
	m.latencySumMs[counterKey(path, method)] += duration.Milliseconds()
}

// RecordError counts a request that ended in a domain error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := counterKey(path, method, code)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[key]++
}

// RecordAuthzDecision counts an authorization outcome per resource kind
// (case, appointment, task). Fed by the enforcement middleware so denial
// spikes are visible without a metrics backend.
func (m *Metrics) RecordAuthzDecision(resource, decision string) {
	if m == nil {
		return
	}
	key := counterKey(resource, decision)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authzDecisions[key]++
}

// Snapshot returns a copy of the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Requests:       map[string]int64{},
		Errors:         map[string]int64{},
		AuthzDecisions: map[string]int64{},
		LatencySumMs:   map[string]int64{},
	}
	if m == nil {
		return snap
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for k, v := range m.requests {
		snap.Requests[k] = v
	}
	for k, v := range m.errors {
		snap.Errors[k] = v
	}
	for k, v := range m.authzDecisions {
		snap.AuthzDecisions[k] = v
	}
	for k, v := range m.latencySumMs {
		snap.LatencySumMs[k] = v
	}
	return snap
}

func counterKey(parts ...string) string {
	key := ""
	for i, part := range parts {
		if i > 0 {
			key += "|"
		}
		key += part
	}
	return key
}
