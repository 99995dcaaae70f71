package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	ordersSubmitted  atomic.Uint64
	ordersFilled     atomic.Uint64
	ocoSubmitted     atomic.Uint64
	pollCycles       atomic.Uint64
	transientRetries atomic.Uint64
	cancelAttempts   atomic.Uint64
	errorsTotal      atomic.Uint64
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordOrderSubmitted records a buy order accepted by the exchange.
func (m *Metrics) RecordOrderSubmitted() {
	m.ordersSubmitted.Add(1)
}

// RecordOrderFilled records a confirmed fill.
func (m *Metrics) RecordOrderFilled() {
	m.ordersFilled.Add(1)
}

// RecordOCOSubmitted records a submitted sell bracket.
func (m *Metrics) RecordOCOSubmitted() {
	m.ocoSubmitted.Add(1)
}

// RecordPollCycle records one fill-status poll cycle.
func (m *Metrics) RecordPollCycle() {
	m.pollCycles.Add(1)
}

// RecordTransientRetry records a retried transient gateway failure.
func (m *Metrics) RecordTransientRetry() {
	m.transientRetries.Add(1)
}

// RecordCancelAttempt records an escalation cancel call.
func (m *Metrics) RecordCancelAttempt() {
	m.cancelAttempts.Add(1)
}

// RecordError records an error occurrence.
func (m *Metrics) RecordError() {
	m.errorsTotal.Add(1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	OrdersSubmitted  uint64
	OrdersFilled     uint64
	OCOSubmitted     uint64
	PollCycles       uint64
	TransientRetries uint64
	CancelAttempts   uint64
	ErrorsTotal      uint64
	Timestamp        time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		OrdersSubmitted:  m.ordersSubmitted.Load(),
		OrdersFilled:     m.ordersFilled.Load(),
		OCOSubmitted:     m.ocoSubmitted.Load(),
		PollCycles:       m.pollCycles.Load(),
		TransientRetries: m.transientRetries.Load(),
		CancelAttempts:   m.cancelAttempts.Load(),
		ErrorsTotal:      m.errorsTotal.Load(),
		Timestamp:        time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.ordersSubmitted.Store(0)
	m.ordersFilled.Store(0)
	m.ocoSubmitted.Store(0)
	m.pollCycles.Store(0)
	m.transientRetries.Store(0)
	m.cancelAttempts.Store(0)
	m.errorsTotal.Store(0)
}
