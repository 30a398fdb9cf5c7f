// Package shelf holds the persisted-state layout of the kitchen: four
// TTL-capable order maps (hot, cold, frozen, overflow), the TTL-less
// location index, and the scored overflow tracker. This shape is
// load-bearing — the engine's locking discipline is defined in terms of it.
// An order waiting for placement exists only as a Pending entry in the
// location index; there is no waiting shelf.
package shelf
