package ws

import (
	"sync/atomic"
)

// Metrics tracks flush activity with monotonic counters. Only the flush and
// fan-out path writes them, all other operations leave them untouched.
type Metrics struct {
	flushes         uint64
	messagesBatched uint64
	framesSent      uint64
}

// MetricsSnapshot is a point in time copy of the counters.
type MetricsSnapshot struct {
	Flushes         uint64 `json:"flushes"`
	MessagesBatched uint64 `json:"messagesBatched"`
	FramesSent      uint64 `json:"framesSent"`
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordFlush counts one non-empty flush and the messages it drained.
func (m *Metrics) RecordFlush(batched int) {
	atomic.AddUint64(&m.flushes, 1)
	atomic.AddUint64(&m.messagesBatched, uint64(batched))
}

// RecordFrameSent counts one successful delivery to a member.
func (m *Metrics) RecordFrameSent() {
	atomic.AddUint64(&m.framesSent, 1)
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Flushes:         atomic.LoadUint64(&m.flushes),
		MessagesBatched: atomic.LoadUint64(&m.messagesBatched),
		FramesSent:      atomic.LoadUint64(&m.framesSent),
	}
}
