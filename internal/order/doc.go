// Package order holds the order entity and its decay model — pure
// computation, no I/O.
//
// An order's residual value decreases while it sits on a shelf; the decay
// coefficient doubles on the overflow shelf. Transition must be called on
// every placement or move: it settles the value lost on the shelf being
// left, stamps the new placement time, and projects DecayAt — the instant
// the value reaches zero under the new shelf's rate. Shelf TTLs and the
// overflow tracker score both derive from that projection.
package order
