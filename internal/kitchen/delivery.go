package kitchen

import (
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/metrics"
	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/order"
	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/shelf"
)

// Courier simulates the pickup side: each accepted order gets a one-shot
// delivery timer with a uniformly random delay within the configured bounds.
type Courier struct {
	mu  sync.Mutex
	min time.Duration
	max time.Duration
}

// NewCourier creates a Courier with the given delay bounds. Bounds are
// swapped if given out of order.
func NewCourier(min, max time.Duration) *Courier {
	if max < min {
		min, max = max, min
	}
	return &Courier{min: min, max: max}
}

// Delay draws one uniformly random pickup delay.
func (c *Courier) Delay() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.max == c.min {
		return c.min
	}
	return c.min + time.Duration(rand.Int64N(int64(c.max-c.min)+1))
}

// SetDelayBounds replaces the delay bounds; pending timers keep their already
// drawn delays. Used by config hot reload.
func (c *Courier) SetDelayBounds(min, max time.Duration) {
	if max < min {
		min, max = max, min
	}
	c.mu.Lock()
	c.min, c.max = min, max
	c.mu.Unlock()
}

// scheduleDelivery arms the pickup timer for one accepted order.
func (e *Engine) scheduleDelivery(o *order.Order) {
	d := e.courier.Delay()
	slog.Debug("kitchen: courier dispatched", "order", o.Name, "pickup_in", d)
	time.AfterFunc(d, func() { e.deliver(o) })
}

// deliver fires when the courier arrives: it locates the order through the
// location index and removes it from whichever shelf holds it. Losing the
// race to expiration or a recovery move is a normal outcome, never an error.
func (e *Engine) deliver(o *order.Order) {
	id := o.ID()
	guard := e.locator.Guard(id)
	guard.Lock()
	defer guard.Unlock()

	loc, tracked := e.locator.Get(id)
	if !tracked {
		slog.Info("kitchen: courier too late, order already decayed", "order", o.Name, "id", id)
		return
	}
	if loc == shelf.Pending {
		// Still bouncing through busy retries; the courier leaves without
		// it and the order runs out its shelf life after placement.
		slog.Warn("kitchen: courier arrived before placement", "order", o.Name, "id", id)
		return
	}

	shelfGuard := e.store.Guard(loc)
	shelfGuard.Lock()
	picked, onShelf := e.store.Remove(loc, id)
	shelfGuard.Unlock()

	if !onShelf {
		// Expired between the index read and the shelf lock; the expiry
		// handler cleans the index entry once it gets the order guard.
		slog.Info("kitchen: order decayed just before pickup", "order", o.Name, "shelf", loc)
		return
	}

	e.locator.Remove(id)
	metrics.Delivered.Inc()
	slog.Info("kitchen: order delivered", "order", picked.Name, "shelf", loc,
		"normalized_value", picked.NormalizedValue(e.now()))
	e.notify(loc)
}
