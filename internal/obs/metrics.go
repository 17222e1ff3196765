package obs

import (
	"sync/atomic"
	"time"
)

// Metrics collects lightweight counters and latency stats of the price feed.
type Metrics struct {
	messages            uint64
	batchesRejected     uint64
	recordsApplied      uint64
	recordsRejected     uint64
	connects            uint64
	disconnects         uint64
	reconnectsScheduled uint64
	exhaustions         uint64

	applyLatency LatencyStats
}

// LatencyStats aggregates duration samples in nanoseconds.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// Snapshot captures the current metrics values.
type Snapshot struct {
	Messages            uint64
	BatchesRejected     uint64
	RecordsApplied      uint64
	RecordsRejected     uint64
	Connects            uint64
	Disconnects         uint64
	ReconnectsScheduled uint64
	Exhaustions         uint64
	ApplyLatency        LatencySnapshot
}

// NewMetrics allocates a metrics container.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// ObserveMessage counts one inbound stream message.
func (m *Metrics) ObserveMessage() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.messages, 1)
}

// IncBatchRejected records a message dropped as a whole.
func (m *Metrics) IncBatchRejected() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.batchesRejected, 1)
}

// AddRecords records applied and rejected ticker records of one batch.
func (m *Metrics) AddRecords(applied, rejected int) {
	if m == nil {
		return
	}
	if applied > 0 {
		atomic.AddUint64(&m.recordsApplied, uint64(applied))
	}
	if rejected > 0 {
		atomic.AddUint64(&m.recordsRejected, uint64(rejected))
	}
}

func (m *Metrics) IncConnect() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.connects, 1)
}

func (m *Metrics) IncDisconnect() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.disconnects, 1)
}

func (m *Metrics) IncReconnectScheduled() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.reconnectsScheduled, 1)
}

func (m *Metrics) IncExhausted() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.exhaustions, 1)
}

// ObserveApply measures decode and cache update of one message.
func (m *Metrics) ObserveApply(d time.Duration) {
	if m == nil {
		return
	}
	m.applyLatency.Observe(d)
}

// Snapshot returns a copy of the current metrics values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	return Snapshot{
		Messages:            atomic.LoadUint64(&m.messages),
		BatchesRejected:     atomic.LoadUint64(&m.batchesRejected),
		RecordsApplied:      atomic.LoadUint64(&m.recordsApplied),
		RecordsRejected:     atomic.LoadUint64(&m.recordsRejected),
		Connects:            atomic.LoadUint64(&m.connects),
		Disconnects:         atomic.LoadUint64(&m.disconnects),
		ReconnectsScheduled: atomic.LoadUint64(&m.reconnectsScheduled),
		Exhaustions:         atomic.LoadUint64(&m.exhaustions),
		ApplyLatency:        m.applyLatency.Snapshot(),
	}
}

// Observe records a duration sample.
func (l *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	nanos := uint64(d)
	atomic.AddUint64(&l.count, 1)
	atomic.AddUint64(&l.sum, nanos)

	for {
		min := atomic.LoadUint64(&l.min)
		if min != 0 && nanos >= min {
			break
		}
		if atomic.CompareAndSwapUint64(&l.min, min, nanos) {
			break
		}
	}

	for {
		max := atomic.LoadUint64(&l.max)
		if nanos <= max {
			break
		}
		if atomic.CompareAndSwapUint64(&l.max, max, nanos) {
			break
		}
	}
}

// Snapshot returns the aggregated latency stats.
func (l *LatencyStats) Snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&l.count)
	if count == 0 {
		return LatencySnapshot{}
	}
	sum := atomic.LoadUint64(&l.sum)
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(atomic.LoadUint64(&l.min)),
		Max:   time.Duration(atomic.LoadUint64(&l.max)),
		Avg:   time.Duration(sum / count),
	}
}
