// Package api implements the HTTP surface of the takeaway monitor.
//
// New(engine, store) returns a Handler that serves:
//
//	POST /api/v1/orders          — accept a new order; immediate 202 ack
//	GET  /api/v1/shelves         — snapshots of all four shelves
//	GET  /api/v1/shelves/{kind}  — single shelf snapshot; 404 if unknown
//	GET  /api/v1/health          — per-shelf occupancy
//
// All endpoints respond with Content-Type: application/json and return 405
// for unsupported methods. Snapshot reads go through the shelf store's
// read-locked Snapshot. RequireAPIKey optionally guards the whole surface.
package api
