package cache

import (
	"sync"
	"testing"
	"time"
)

func TestPutGetRemove(t *testing.T) {
	m := NewMap[string]("test")

	m.Put(1, "soup", 0)
	if v, ok := m.Get(1); !ok || v != "soup" {
		t.Fatalf("Get: got (%q, %v), want (soup, true)", v, ok)
	}

	if v, ok := m.Remove(1); !ok || v != "soup" {
		t.Fatalf("Remove: got (%q, %v), want (soup, true)", v, ok)
	}
	if _, ok := m.Get(1); ok {
		t.Fatal("Get after Remove: expected absent")
	}
}

func TestLen_Values(t *testing.T) {
	m := NewMap[int]("test")
	for i := uint64(0); i < 3; i++ {
		m.Put(i, int(i)*10, 0)
	}
	if n := m.Len(); n != 3 {
		t.Errorf("Len: got %d, want 3", n)
	}
	if vs := m.Values(); len(vs) != 3 {
		t.Errorf("Values: got %d values, want 3", len(vs))
	}
}

func TestTTL_ExpiresAndNotifies(t *testing.T) {
	m := NewMap[string]("test")
	events, cancel := m.Subscribe()
	defer cancel()

	m.Put(7, "pizza", 20*time.Millisecond)

	select {
	case e := <-events:
		if e.Key != 7 || e.Value != "pizza" {
			t.Errorf("Expiry: got (%d, %q), want (7, pizza)", e.Key, e.Value)
		}
	case <-time.After(time.Second):
		t.Fatal("expiry event not delivered within 1s")
	}

	if _, ok := m.Get(7); ok {
		t.Error("Get after expiry: expected absent")
	}
}

func TestRemove_SuppressesExpiry(t *testing.T) {
	m := NewMap[string]("test")
	events, cancel := m.Subscribe()
	defer cancel()

	m.Put(7, "pizza", 20*time.Millisecond)
	if _, ok := m.Remove(7); !ok {
		t.Fatal("Remove: expected entry")
	}

	select {
	case e := <-events:
		t.Fatalf("unexpected expiry after explicit remove: %+v", e)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPut_ReplacesTimer(t *testing.T) {
	m := NewMap[string]("test")
	events, cancel := m.Subscribe()
	defer cancel()

	m.Put(7, "stale", 20*time.Millisecond)
	m.Put(7, "fresh", 500*time.Millisecond)

	// The first timer must not evict the replacement entry.
	select {
	case e := <-events:
		t.Fatalf("stale timer fired after overwrite: %+v", e)
	case <-time.After(100 * time.Millisecond):
	}
	if v, ok := m.Get(7); !ok || v != "fresh" {
		t.Errorf("Get: got (%q, %v), want (fresh, true)", v, ok)
	}
}

func TestSubscribe_CancelStopsDelivery(t *testing.T) {
	m := NewMap[string]("test")
	events, cancel := m.Subscribe()
	cancel()

	m.Put(7, "pizza", 10*time.Millisecond)

	select {
	case e, ok := <-events:
		if ok {
			t.Fatalf("event delivered after cancel: %+v", e)
		}
	case <-time.After(100 * time.Millisecond):
	}
}

func TestConcurrentPuts(t *testing.T) {
	m := NewMap[int]("test")
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			m.Put(uint64(n%10), n, 0)
		}(i)
	}
	wg.Wait()

	if n := m.Len(); n != 10 {
		t.Errorf("Len after concurrent puts: got %d, want 10", n)
	}
}

func TestLocks_SameNameSameMutex(t *testing.T) {
	l := NewLocks()
	a := l.Get("hot_lock")
	b := l.Get("hot_lock")
	if a != b {
		t.Error("Get: same name returned distinct mutexes")
	}
	if l.Get("cold_lock") == a {
		t.Error("Get: distinct names returned the same mutex")
	}
}

func TestLocks_TryLockContention(t *testing.T) {
	l := NewLocks()
	mu := l.Get("hot_lock")

	mu.Lock()
	if mu.TryLock() {
		t.Error("TryLock: succeeded while write-locked")
	}
	mu.Unlock()

	if !mu.TryLock() {
		t.Error("TryLock: failed on a free lock")
	}
	mu.Unlock()
}
