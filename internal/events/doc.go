// Package events is the shelf-change notification channel: every structural
// shelf mutation publishes a snapshot of that shelf's contents for external
// consumption. Delivery is best effort — the WebSocket hub and any other
// subscriber may lose events under backpressure, never the mutating
// operation.
package events
