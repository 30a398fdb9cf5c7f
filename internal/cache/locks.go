package cache

import "sync"

// Locks hands out named read-write mutexes on demand, mirroring how a
// distributed cache scopes mutual exclusion by key. The same name always
// yields the same mutex for the life of the registry.
//
// Two tiers of names are in use: one lock per shelf and one lock per order
// identifier. sync.RWMutex supports the blocking Lock/RLock and the
// non-blocking TryLock the placement engine relies on.
type Locks struct {
	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

// NewLocks creates an empty registry.
func NewLocks() *Locks {
	return &Locks{locks: make(map[string]*sync.RWMutex)}
}

// Get returns the mutex registered under name, creating it on first use.
func (l *Locks) Get(name string) *sync.RWMutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[name]
	if !ok {
		m = &sync.RWMutex{}
		l.locks[name] = m
	}
	return m
}
