package intake

import (
	"testing"
	"time"

	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/order"
)

func TestPublish_Delivers(t *testing.T) {
	q := NewQueue(4)
	o, _ := order.New("soup", order.Hot, 100, 0.5)

	q.Publish(o)
	select {
	case got := <-q.Orders():
		if got.Name != "soup" {
			t.Errorf("Orders: got %q, want soup", got.Name)
		}
	case <-time.After(time.Second):
		t.Fatal("published order not delivered")
	}
}

func TestRequeue_RedeliversAfterDelay(t *testing.T) {
	q := NewQueue(4)
	o, _ := order.New("soup", order.Hot, 100, 0.5)

	start := time.Now()
	q.Requeue(o)

	select {
	case got := <-q.Orders():
		if got.Name != "soup" {
			t.Errorf("Orders: got %q, want soup", got.Name)
		}
		if time.Since(start) < 10*time.Millisecond {
			t.Error("Requeue: redelivered with no visible delay")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("requeued order never redelivered")
	}
	q.Drain()
}

func TestRequeue_BackoffGrowsUntilReset(t *testing.T) {
	q := NewQueue(16)

	q.mu.Lock()
	first := q.bo.NextBackOff()
	second := q.bo.NextBackOff()
	q.mu.Unlock()
	if second < first {
		t.Errorf("backoff shrank while busy: %v then %v", first, second)
	}

	q.ResetBackoff()
	q.mu.Lock()
	afterReset := q.bo.NextBackOff()
	q.mu.Unlock()
	if afterReset > second {
		t.Errorf("backoff did not reset: %v after reset, %v before", afterReset, second)
	}
}
