package core

import (
	"sync"
	"time"
)

const AVG_COUNT uint8 = 30

// LoadMetrics keeps per manager counters and a rolling average of load times over the last AVG_COUNT loads.
type LoadMetrics struct {
	mutex sync.Mutex

	avgCounter uint8
	samples    [AVG_COUNT]float64
	sampled    uint8
	msAvg      float64

	Adds      uint64
	Hits      uint64
	Loads     uint64
	Failures  uint64
	Unloads   uint64
	Fallbacks uint64
}

// MetricsSnapshot is a copy of the counters safe to read without locking.
type MetricsSnapshot struct {
	Adds         uint64
	Hits         uint64
	Loads        uint64
	Failures     uint64
	Unloads      uint64
	Fallbacks    uint64
	AvgLoadMilli float64
}

func (m *LoadMetrics) RecordAdd(hit bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if hit {
		m.Hits++
		return
	}
	m.Adds++
}

func (m *LoadMetrics) RecordLoad(elapsed time.Duration, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err != nil {
		m.Failures++
		return
	}
	m.Loads++

	m.samples[m.avgCounter] = float64(elapsed.Microseconds()) / 1000.0
	if m.sampled < AVG_COUNT {
		m.sampled++
	}
	m.msAvg = 0
	for i := uint8(0); i < m.sampled; i++ {
		m.msAvg += m.samples[i]
	}
	m.msAvg /= float64(m.sampled)

	m.avgCounter++
	m.avgCounter %= AVG_COUNT
}

func (m *LoadMetrics) RecordFallback() {
	m.mutex.Lock()
	m.Fallbacks++
	m.mutex.Unlock()
}

func (m *LoadMetrics) RecordUnload() {
	m.mutex.Lock()
	m.Unloads++
	m.mutex.Unlock()
}

func (m *LoadMetrics) Snapshot() MetricsSnapshot {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return MetricsSnapshot{
		Adds:         m.Adds,
		Hits:         m.Hits,
		Loads:        m.Loads,
		Failures:     m.Failures,
		Unloads:      m.Unloads,
		Fallbacks:    m.Fallbacks,
		AvgLoadMilli: m.msAvg,
	}
}
