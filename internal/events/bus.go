package events

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/order"
	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/shelf"
)

// subBufSize is the per-subscriber event buffer depth.
const subBufSize = 64

// Snapshot is one shelf-change event: the full contents of a shelf right
// after a structural mutation.
type Snapshot struct {
	EventID string
	Kind    shelf.Kind
	Orders  []*order.Order
	At      time.Time
}

// Bus fans shelf-change snapshots out to subscribers. Publication is fire and
// forget: a subscriber that has fallen behind loses events rather than
// blocking the mutating operation.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]chan Snapshot
	next int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Snapshot)}
}

// Publish stamps the event with an identifier and delivers it to every
// subscriber that has room.
func (b *Bus) Publish(kind shelf.Kind, orders []*order.Order) {
	snap := Snapshot{
		EventID: uuid.NewString(),
		Kind:    kind,
		Orders:  orders,
		At:      time.Now().UTC(),
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- snap:
		default:
			slog.Warn("events: dropping shelf-change event", "shelf", kind, "event_id", snap.EventID)
		}
	}
}

// Subscribe registers a listener and returns its channel with a cancel
// function.
func (b *Bus) Subscribe() (<-chan Snapshot, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Snapshot, subBufSize)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
	return ch, cancel
}
