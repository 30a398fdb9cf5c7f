package kitchen

import (
	"log/slog"

	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/metrics"
	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/shelf"
)

// scanOverflow runs after a target-shelf expiration frees a slot: it tries to
// move one overflow order back to its target shelf.
//
// The candidate is the tracked order with the largest remaining delivery
// time, not the most urgent one. Counter-intuitive, but it is the selection
// the rest of the system was validated against.
func (e *Engine) scanOverflow() {
	ovGuard := e.store.Guard(shelf.Overflow)
	ovGuard.Lock()
	defer ovGuard.Unlock()

	for e.store.Len(shelf.Overflow) > 0 {
		id, score, ok := e.tracker.PopMax()
		if !ok {
			return
		}
		o, present := e.store.Get(shelf.Overflow, id)
		if !present {
			// Stale tracker entry: the order expired or was picked up
			// since it was scored. Discard and try the next candidate.
			continue
		}

		target := shelf.TargetKind(o.Temp)
		guard := e.store.Guard(target)
		guard.Lock()
		if e.store.Len(target) < e.store.Capacity(target) {
			// No transition before removal; the value settles as part of
			// the placement transition.
			if moved, taken := e.store.Remove(shelf.Overflow, id); taken {
				e.putOnShelf(moved, false)
				metrics.Recovered.Inc()
				slog.Info("kitchen: recovered order from overflow", "order", moved.Name, "shelf", target)
				e.notify(shelf.Overflow)
			}
		} else {
			// Target filled back up meanwhile; requeue the candidate with
			// its prior score. Nothing else to try this round.
			e.tracker.Add(id, score)
		}
		guard.Unlock()

		// At most one move per trigger.
		return
	}
}
