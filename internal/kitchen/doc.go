// Package kitchen is the shelf lifecycle engine: placement with overflow and
// load shedding, TTL-driven decay handling, overflow recovery, and simulated
// courier pickup.
//
// Locking discipline, in two tiers:
//
//   - The per-order lock (Locator.Guard) totally orders every operation that
//     touches one order's location: delivery and expiry handling take it
//     before anything else.
//   - Each shelf's lock (Store.Guard) totally orders structural mutation of
//     that shelf. Intake placement uses non-blocking TryLock and requeues on
//     contention; the recovery scan, delivery removal and expiry handling
//     block.
//
// Whenever both tiers are held, the per-order lock is taken first. Placement
// and the recovery scan never take per-order locks (the location index Set
// is internally synchronized), so no cycle exists between the tiers. The
// overflow tracker is only touched under the overflow shelf's write lock.
package kitchen
