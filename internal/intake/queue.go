package intake

import (
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/order"
)

// Queue is the intake channel between order acceptance and the placement
// engine. It also carries the busy-retry path: an order that could not take
// a shelf lock is re-published after an exponential-backoff delay instead of
// blocking inside the engine.
type Queue struct {
	ch chan *order.Order

	mu sync.Mutex
	bo *backoff.ExponentialBackOff
	wg sync.WaitGroup // outstanding requeue timers
}

// NewQueue creates a Queue with the given buffer depth.
func NewQueue(size int) *Queue {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 50 * time.Millisecond
	bo.MaxInterval = 2 * time.Second
	return &Queue{
		ch: make(chan *order.Order, size),
		bo: bo,
	}
}

// Publish hands an order to the placement engine. Blocks only when the
// buffer is full.
func (q *Queue) Publish(o *order.Order) {
	q.ch <- o
}

// Requeue re-publishes an order that lost a lock race, after the next
// backoff interval. The delay grows while the system stays busy and resets
// on the next successful placement.
func (q *Queue) Requeue(o *order.Order) {
	q.mu.Lock()
	d := q.bo.NextBackOff()
	q.mu.Unlock()

	slog.Info("intake: system busy, requeueing order", "order", o.Name, "delay", d)
	q.wg.Add(1)
	time.AfterFunc(d, func() {
		defer q.wg.Done()
		q.ch <- o
	})
}

// ResetBackoff collapses the retry delay back to its initial interval.
// The engine calls it after any placement that did not hit contention.
func (q *Queue) ResetBackoff() {
	q.mu.Lock()
	q.bo.Reset()
	q.mu.Unlock()
}

// Orders is the consumer side of the queue.
func (q *Queue) Orders() <-chan *order.Order {
	return q.ch
}

// Drain waits for outstanding requeue timers, for tests and orderly
// shutdown.
func (q *Queue) Drain() {
	q.wg.Wait()
}
