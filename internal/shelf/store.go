package shelf

import (
	"sort"
	"sync"
	"time"

	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/cache"
	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/order"
)

// Store is the capacity- and TTL-bounded keyed collection of orders, one map
// per shelf kind, backed by the cache. Structural mutation of a shelf must
// happen under that shelf's write lock (Guard); Snapshot takes the read lock
// itself.
//
// The store does not enforce capacity — the placement engine checks Len
// against Capacity while holding the write lock, so enforcement and
// placement stay one atomic step.
type Store struct {
	maps  map[Kind]*cache.Map[*order.Order]
	caps  map[Kind]int
	locks *cache.Locks
}

// NewStore creates the per-shelf maps with the given capacities.
func NewStore(locks *cache.Locks, caps map[Kind]int) *Store {
	s := &Store{
		maps:  make(map[Kind]*cache.Map[*order.Order], len(Kinds())),
		caps:  make(map[Kind]int, len(Kinds())),
		locks: locks,
	}
	for _, k := range Kinds() {
		s.maps[k] = cache.NewMap[*order.Order](string(k))
		s.caps[k] = caps[k]
	}
	return s
}

// Guard returns the read-write mutex that serializes structural mutation of
// the given shelf.
func (s *Store) Guard(k Kind) *sync.RWMutex {
	return s.locks.Get(string(k) + "_lock")
}

// Put stores o on shelf k with the given TTL. Callers hold the shelf's write
// lock.
func (s *Store) Put(k Kind, o *order.Order, ttl time.Duration) {
	s.maps[k].Put(o.ID(), o, ttl)
}

// Get returns the order with the given identifier if it still sits on shelf k.
func (s *Store) Get(k Kind, id uint64) (*order.Order, bool) {
	return s.maps[k].Get(id)
}

// Remove takes the order off shelf k, cancelling its expiration. Callers hold
// the shelf's write lock.
func (s *Store) Remove(k Kind, id uint64) (*order.Order, bool) {
	return s.maps[k].Remove(id)
}

// Len returns the number of orders resident on shelf k.
func (s *Store) Len(k Kind) int {
	return s.maps[k].Len()
}

// Capacity returns the configured capacity of shelf k.
func (s *Store) Capacity(k Kind) int {
	return s.caps[k]
}

// Snapshot returns copies of the orders on shelf k, sorted by name for
// stable display. The copies are taken under the shelf's read lock; the
// result never aliases a live order, so callers may publish it and read the
// value fields without holding any lock.
func (s *Store) Snapshot(k Kind) []*order.Order {
	guard := s.Guard(k)
	guard.RLock()
	live := s.maps[k].Values()
	orders := make([]*order.Order, 0, len(live))
	for _, o := range live {
		cp := *o
		orders = append(orders, &cp)
	}
	guard.RUnlock()

	sort.Slice(orders, func(i, j int) bool { return orders[i].Name < orders[j].Name })
	return orders
}

// Expirations registers an expiration listener on shelf k and returns the
// event channel with its teardown function. One subscription per shelf is
// made when the engine starts and cancelled when it stops.
func (s *Store) Expirations(k Kind) (<-chan cache.Expiry[*order.Order], func()) {
	return s.maps[k].Subscribe()
}
