package shelf

import (
	"strconv"
	"sync"

	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/cache"
)

// Locator is the single source of truth for "where is this order right now":
// a TTL-less mapping from order identifier to the kind of shelf holding it,
// or Pending before first placement. Absence means the order is gone —
// delivered, decayed or wasted.
//
// Set is internally synchronized and safe to call while holding shelf locks.
// Get and Remove participate in the per-order locking discipline: callers
// that need a stable read-then-act sequence hold Guard(id) across it.
type Locator struct {
	m     *cache.Map[Kind]
	locks *cache.Locks
}

// NewLocator creates an empty location index.
func NewLocator(locks *cache.Locks) *Locator {
	return &Locator{
		m:     cache.NewMap[Kind]("order_status"),
		locks: locks,
	}
}

// Guard returns the mutex that totally orders operations touching the given
// order's location.
func (l *Locator) Guard(id uint64) *sync.RWMutex {
	return l.locks.Get("order_status/" + strconv.FormatUint(id, 10))
}

// Set records that the order now resides on shelf k (or is Pending).
func (l *Locator) Set(id uint64, k Kind) {
	l.m.Put(id, k, 0)
}

// Get returns the shelf currently holding the order.
func (l *Locator) Get(id uint64) (Kind, bool) {
	return l.m.Get(id)
}

// Remove drops the order from tracking and returns its last known shelf.
func (l *Locator) Remove(id uint64) (Kind, bool) {
	return l.m.Remove(id)
}
