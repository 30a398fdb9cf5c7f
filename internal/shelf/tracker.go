package shelf

import "sort"

type scored struct {
	id    uint64
	score float64
}

// Tracker is the ordered index over orders currently on the overflow shelf,
// scored by each order's latest delivery time at placement. The recovery
// scan pops the candidate with the largest score.
//
// The tracker carries no lock of its own: it is only ever touched while the
// caller holds the overflow shelf's write lock.
type Tracker struct {
	entries []scored // ascending by score
	present map[uint64]struct{}
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{present: make(map[uint64]struct{})}
}

// Add indexes id under score, replacing any previous entry for id.
func (t *Tracker) Add(id uint64, score float64) {
	if _, ok := t.present[id]; ok {
		t.Remove(id)
	}
	i := sort.Search(len(t.entries), func(i int) bool { return t.entries[i].score > score })
	t.entries = append(t.entries, scored{})
	copy(t.entries[i+1:], t.entries[i:])
	t.entries[i] = scored{id: id, score: score}
	t.present[id] = struct{}{}
}

// Remove drops id from the index if present.
func (t *Tracker) Remove(id uint64) {
	if _, ok := t.present[id]; !ok {
		return
	}
	for i, e := range t.entries {
		if e.id == id {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			break
		}
	}
	delete(t.present, id)
}

// PopMax removes and returns the entry with the largest score — the overflow
// order with the most delivery time left.
func (t *Tracker) PopMax() (id uint64, score float64, ok bool) {
	n := len(t.entries)
	if n == 0 {
		return 0, 0, false
	}
	e := t.entries[n-1]
	t.entries = t.entries[:n-1]
	delete(t.present, e.id)
	return e.id, e.score, true
}

// Len returns the number of indexed orders.
func (t *Tracker) Len() int {
	return len(t.entries)
}
