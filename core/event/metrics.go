package event

import (
	"reflect"
	"sync"
	"sync/atomic"
	"time"
)

// EventMetadata is a point-in-time snapshot of the counters kept for one event type.
type EventMetadata struct {
	Name          string
	Type          Type
	DispatchCount uint64 // includes blocked dispatches
	BlockedCount  uint64
	ListenerCount int // sync and async listeners currently registered
	LastDispatch  time.Time
}

// TimeSinceLastDispatch returns how long ago the type was last dispatched.
// Zero if it was never dispatched; never negative.
func (m EventMetadata) TimeSinceLastDispatch() time.Duration {
	if m.LastDispatch.IsZero() {
		return 0
	}
	return max(time.Since(m.LastDispatch), 0)
}

// typeMetrics holds the live counters for one event type.
// Counters are atomics so dispatches never serialize on them.
type typeMetrics struct {
	name         string
	rt           reflect.Type
	dispatches   atomic.Uint64
	blocked      atomic.Uint64
	listeners    atomic.Int64
	lastDispatch atomic.Int64 // unix nanoseconds, 0 = never
}

func (m *typeMetrics) snapshot() EventMetadata {
	meta := EventMetadata{
		Name:          m.name,
		Type:          Type{rt: m.rt},
		DispatchCount: m.dispatches.Load(),
		BlockedCount:  m.blocked.Load(),
		ListenerCount: int(m.listeners.Load()),
	}
	if ns := m.lastDispatch.Load(); ns != 0 {
		meta.LastDispatch = time.Unix(0, ns)
	}
	return meta
}

func (m *typeMetrics) reset() {
	m.dispatches.Store(0)
	m.blocked.Store(0)
	m.lastDispatch.Store(0)
}

// metricsTable is keyed by reflect.Type. Entries are created lazily by the
// first subscription or dispatch of a type and cache the type's name.
type metricsTable struct {
	entries sync.Map
}

func (t *metricsTable) entry(rt reflect.Type, name func() string) *typeMetrics {
	if v, ok := t.entries.Load(rt); ok {
		return v.(*typeMetrics)
	}
	v, _ := t.entries.LoadOrStore(rt, &typeMetrics{name: name(), rt: rt})
	return v.(*typeMetrics)
}

func (t *metricsTable) lookup(rt reflect.Type) (*typeMetrics, bool) {
	v, ok := t.entries.Load(rt)
	if !ok {
		return nil, false
	}
	return v.(*typeMetrics), true
}

func (t *metricsTable) each(fn func(*typeMetrics)) {
	t.entries.Range(func(_, v any) bool {
		fn(v.(*typeMetrics))
		return true
	})
}

func (t *metricsTable) snapshot() map[Type]EventMetadata {
	out := make(map[Type]EventMetadata)
	t.each(func(m *typeMetrics) {
		out[Type{rt: m.rt}] = m.snapshot()
	})
	return out
}
