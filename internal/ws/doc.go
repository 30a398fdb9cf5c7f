// Package ws streams live shelf contents to WebSocket clients. Each client
// receives a full snapshot of every shelf on connect, then one message per
// shelf change as the kitchen publishes them. A ?shelf= query parameter
// narrows the stream to a single shelf.
package ws
