package kitchen

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/events"
	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/intake"
	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/metrics"
	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/order"
	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/shelf"
)

// Engine is the shelf lifecycle engine: it consumes validated orders from the
// intake queue, places them on shelves, reacts to TTL expirations, runs the
// overflow recovery scan, and hands each accepted order to the courier.
type Engine struct {
	store   *shelf.Store
	locator *shelf.Locator
	tracker *shelf.Tracker
	queue   *intake.Queue
	bus     *events.Bus
	courier *Courier

	now func() time.Time // injectable for deterministic tests
}

// New wires an Engine to its collaborators.
func New(st *shelf.Store, loc *shelf.Locator, tr *shelf.Tracker, q *intake.Queue, bus *events.Bus, courier *Courier) *Engine {
	return &Engine{
		store:   st,
		locator: loc,
		tracker: tr,
		queue:   q,
		bus:     bus,
		courier: courier,
		now:     time.Now,
	}
}

// Accept takes a validated order into the system: it enters the location
// index as pending, a courier pickup is armed exactly once, and the order is
// published to the placement queue. Accept returns immediately; the order's
// eventual fate is only observable through snapshots and the event stream.
func (e *Engine) Accept(o *order.Order) {
	id := o.ID()
	e.locator.Set(id, shelf.Pending)
	e.scheduleDelivery(o)
	e.queue.Publish(o)
	slog.Info("kitchen: order accepted", "order", o.Name, "id", id, "temp", o.Temp)
}

// Run starts the intake consume loop and one expiration listener per shelf,
// then blocks until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	var wg conc.WaitGroup

	for _, k := range shelf.Kinds() {
		ch, cancel := e.store.Expirations(k)
		defer cancel()
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case ev, ok := <-ch:
					if !ok {
						return
					}
					e.handleExpiry(k, ev.Value)
				}
			}
		})
	}

	wg.Go(func() {
		for {
			select {
			case <-ctx.Done():
				return
			case o := <-e.queue.Orders():
				e.Place(o)
			}
		}
	})

	<-ctx.Done()
	wg.Wait()
}

// Place decides target shelf vs. overflow vs. reject for one incoming order.
// It never blocks on a lock: contention resubmits the order through the
// intake queue instead of stalling the consume loop.
func (e *Engine) Place(o *order.Order) {
	target := shelf.TargetKind(o.Temp)
	guard := e.store.Guard(target)
	if !guard.TryLock() {
		metrics.Requeued.Inc()
		e.queue.Requeue(o)
		return
	}
	defer guard.Unlock()

	if e.store.Len(target) < e.store.Capacity(target) {
		e.putOnShelf(o, false)
		e.queue.ResetBackoff()
		return
	}

	// Target full: try the overflow shelf.
	ovGuard := e.store.Guard(shelf.Overflow)
	if !ovGuard.TryLock() {
		metrics.Requeued.Inc()
		e.queue.Requeue(o)
		return
	}
	defer ovGuard.Unlock()

	if e.store.Len(shelf.Overflow) < e.store.Capacity(shelf.Overflow) {
		e.putOnShelf(o, true)
		e.queue.ResetBackoff()
		return
	}

	// Both full: the order is wasted. Terminal, reported, never retried.
	e.locator.Remove(o.ID())
	metrics.Wasted.Inc()
	e.queue.ResetBackoff()
	slog.Info("kitchen: no shelf space, order wasted", "order", o.Name, "id", o.ID())
}

// putOnShelf transitions the order, stores it with a TTL matching its
// projected decay, and updates the indexes. Callers hold the destination
// shelf's write lock (and the overflow lock when toOverflow is set).
func (e *Engine) putOnShelf(o *order.Order, toOverflow bool) {
	latest := o.Transition(e.now(), toOverflow)

	dest := shelf.TargetKind(o.Temp)
	if toOverflow {
		dest = shelf.Overflow
	}

	ttl := ttlFor(latest)
	e.store.Put(dest, o, ttl)
	e.locator.Set(o.ID(), dest)
	if toOverflow {
		e.tracker.Add(o.ID(), latest)
	}

	metrics.Placed.WithLabelValues(string(dest)).Inc()
	slog.Info("kitchen: order placed", "order", o.Name, "shelf", dest, "ttl", ttl)
	e.notify(dest)
}

// handleExpiry runs when a shelf entry's TTL elapsed without pickup: the
// order decayed. Overflow decays drop the tracker entry; target-shelf decays
// free a slot and trigger the recovery scan.
func (e *Engine) handleExpiry(k shelf.Kind, o *order.Order) {
	id := o.ID()
	guard := e.locator.Guard(id)
	guard.Lock()
	loc, tracked := e.locator.Get(id)
	// A location other than the emitting shelf means the recovery scan moved
	// the order before this event was consumed; the event is stale.
	tracked = tracked && loc == k
	if tracked {
		e.locator.Remove(id)
	}
	guard.Unlock()

	if !tracked {
		// Lost the race to a concurrent delivery or a recovery move.
		return
	}

	metrics.Decayed.WithLabelValues(string(loc)).Inc()
	slog.Info("kitchen: order decayed, wasted", "order", o.Name, "shelf", k)

	if loc == shelf.Overflow {
		ovGuard := e.store.Guard(shelf.Overflow)
		ovGuard.Lock()
		e.tracker.Remove(id)
		ovGuard.Unlock()
	} else {
		e.scanOverflow()
	}
	e.notify(loc)
}

// notify publishes a snapshot of the shelf to the change bus. Fire and
// forget, off the mutating goroutine: the snapshot's read lock must not be
// taken while the caller still holds the write lock.
func (e *Engine) notify(k shelf.Kind) {
	go func() {
		e.bus.Publish(k, e.store.Snapshot(k))
		metrics.Occupancy.WithLabelValues(string(k)).Set(float64(e.store.Len(k)))
	}()
}

// ttlFor converts a projected latest delivery time in seconds to the entry
// TTL: always the ceiling, and never zero — an already-decayed projection
// expires immediately rather than living forever.
func ttlFor(latestSeconds float64) time.Duration {
	s := math.Ceil(latestSeconds)
	if s < 1 {
		return time.Nanosecond
	}
	return time.Duration(s) * time.Second
}
