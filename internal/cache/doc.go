// Package cache is the in-process stand-in for the distributed cache the
// shelf engine is written against: TTL-keyed maps with per-entry expiration
// notifications, plus a registry of named read-write mutexes.
//
// Map[V] holds one keyed collection. Every entry carries its own expiration
// deadline; when it elapses without an explicit Remove, the entry is dropped
// and an Expiry event is delivered to the map's subscribers. Subscriptions
// are explicit and torn down via the returned cancel function.
//
// Locks scopes mutual exclusion by name the way a distributed lock service
// scopes it by key, so the engine's two-tier discipline (per-shelf locks,
// per-order locks) reads the same whether the backing store is in-process
// or remote.
package cache
