package cache

import (
	"log/slog"
	"sync"
	"time"
)

// subBufSize is the per-subscriber expiry event buffer depth.
const subBufSize = 128

// Expiry is one expiration notification: the entry's key and the value it
// held when its TTL elapsed.
type Expiry[V any] struct {
	Key   uint64
	Value V
}

type entry[V any] struct {
	value V
	timer *time.Timer
	gen   uint64 // guards against a stale timer firing after overwrite
}

// Map is a keyed collection with an independent TTL per entry. Entries leave
// either explicitly (Remove) or implicitly when their TTL elapses, in which
// case an Expiry is delivered to every subscriber.
//
// Map synchronizes its own structure only; callers serialize compound
// operations (size check + put, get + remove) with the lock registry.
type Map[V any] struct {
	name string

	mu   sync.Mutex
	data map[uint64]*entry[V]
	gen  uint64

	subMu   sync.Mutex
	subs    map[int]chan Expiry[V]
	nextSub int
}

// NewMap creates an empty Map. The name only appears in logs.
func NewMap[V any](name string) *Map[V] {
	return &Map[V]{
		name: name,
		data: make(map[uint64]*entry[V]),
		subs: make(map[int]chan Expiry[V]),
	}
}

// Put stores or replaces the value for key. A positive ttl arms an expiration
// timer; ttl zero means the entry never expires. Replacing an entry cancels
// its previous timer.
func (m *Map[V]) Put(key uint64, v V, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.data[key]; ok && old.timer != nil {
		old.timer.Stop()
	}
	m.gen++
	e := &entry[V]{value: v, gen: m.gen}
	if ttl > 0 {
		gen := e.gen
		e.timer = time.AfterFunc(ttl, func() { m.expire(key, gen) })
	}
	m.data[key] = e
}

// Get returns the value for key, if present.
func (m *Map[V]) Get(key uint64) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.data[key]
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Remove deletes the entry for key, cancelling its timer, and returns the
// value it held. A removed entry never produces an Expiry.
func (m *Map[V]) Remove(key uint64) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.data[key]
	if !ok {
		var zero V
		return zero, false
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	delete(m.data, key)
	return e.value, true
}

// Len returns the number of resident entries.
func (m *Map[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// Values returns the resident values in no particular order.
func (m *Map[V]) Values() []V {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]V, 0, len(m.data))
	for _, e := range m.data {
		out = append(out, e.value)
	}
	return out
}

// Subscribe registers an expiration listener and returns its event channel
// together with a cancel function. Callers register one subscription per map
// at startup and cancel it on shutdown.
func (m *Map[V]) Subscribe() (<-chan Expiry[V], func()) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	id := m.nextSub
	m.nextSub++
	ch := make(chan Expiry[V], subBufSize)
	m.subs[id] = ch

	cancel := func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subs, id)
	}
	return ch, cancel
}

// expire fires when an entry's TTL elapses. The generation check discards
// timers that lost a race with Put or Remove.
func (m *Map[V]) expire(key uint64, gen uint64) {
	m.mu.Lock()
	e, ok := m.data[key]
	if !ok || e.gen != gen {
		m.mu.Unlock()
		return
	}
	delete(m.data, key)
	v := e.value
	m.mu.Unlock()

	m.subMu.Lock()
	defer m.subMu.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- Expiry[V]{Key: key, Value: v}:
		default:
			// Subscriber has fallen behind; expiration delivery is
			// best-effort and must never block the timer goroutine.
			slog.Warn("cache: dropping expiry event", "map", m.name, "key", key)
		}
	}
}
