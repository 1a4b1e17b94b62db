package observability

import (
	"sync"
	"time"
)

// routeStats accumulates per-route counters.
type routeStats struct {
	Requests      int64
	TotalDuration time.Duration
	ErrorsByCode  map[string]int64
}

// Metrics keeps in-process request counters keyed by method and path.
// Good enough for the health surface this service exposes; a scrape
// endpoint can be layered on top without touching call sites.
type Metrics struct {
	mu     sync.RWMutex
	routes map[string]*routeStats
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{routes: make(map[string]*routeStats)}
}

// RecordRequest counts a completed request and its latency.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := m.route(method, path)
	stats.Requests++
	stats.TotalDuration += duration
}

// RecordError counts a request that resolved to a domain error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := m.route(method, path)
	if stats.ErrorsByCode == nil {
		stats.ErrorsByCode = make(map[string]int64)
	}
	stats.ErrorsByCode[code]++
}

// RequestCount returns how many requests the route has served.
func (m *Metrics) RequestCount(method, path string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if stats, ok := m.routes[method+" "+path]; ok {
		return stats.Requests
	}
	return 0
}

// ErrorCount returns how often the route resolved to the given error code.
func (m *Metrics) ErrorCount(method, path, code string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if stats, ok := m.routes[method+" "+path]; ok {
		return stats.ErrorsByCode[code]
	}
	return 0
}

// route must be called with the write lock held.
func (m *Metrics) route(method, path string) *routeStats {
	key := method + " " + path
	stats, ok := m.routes[key]
	if !ok {
		stats = &routeStats{}
		m.routes[key] = stats
	}
	return stats
}
