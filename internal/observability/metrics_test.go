package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsCountsPerRoute(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/orders", "POST", 201, 5*time.Millisecond)
	m.RecordRequest("/orders", "POST", 400, 1*time.Millisecond)
	m.RecordRequest("/cart", "GET", 200, 1*time.Millisecond)

	assert.Equal(t, int64(2), m.RequestCount("POST", "/orders"))
	assert.Equal(t, int64(1), m.RequestCount("GET", "/cart"))
	assert.Zero(t, m.RequestCount("GET", "/orders"))
}

func TestMetricsCountsErrorsByCode(t *testing.T) {
	m := NewMetrics()

	m.RecordError("/orders", "POST", "VALIDATION_FAILED")
	m.RecordError("/orders", "POST", "VALIDATION_FAILED")
	m.RecordError("/orders", "POST", "FORBIDDEN")

	assert.Equal(t, int64(2), m.ErrorCount("POST", "/orders", "VALIDATION_FAILED"))
	assert.Equal(t, int64(1), m.ErrorCount("POST", "/orders", "FORBIDDEN"))
	assert.Zero(t, m.ErrorCount("POST", "/orders", "NOT_FOUND"))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordRequest("/cart", "GET", 200, time.Millisecond)
		m.RecordError("/cart", "GET", "INTERNAL_ERROR")
	})
}
