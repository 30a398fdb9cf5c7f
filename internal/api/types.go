package api

import (
	"time"

	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/order"
	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/shelf"
)

// OrderRequest is the payload for POST /api/v1/orders. Field names follow the
// upstream order feed.
type OrderRequest struct {
	Name      string  `json:"name"`
	Temp      string  `json:"temp"`
	ShelfLife float64 `json:"shelfLife"`
	DecayRate float64 `json:"decayRate"`
}

// AcceptedResponse acknowledges an accepted order. The order's eventual fate
// is observable only through the snapshot and streaming interfaces.
type AcceptedResponse struct {
	Status string `json:"status"`
	ID     uint64 `json:"id"`
}

// OrderView is one order as rendered in shelf snapshots.
type OrderView struct {
	ID                 uint64  `json:"id"`
	Name               string  `json:"name"`
	Temp               string  `json:"temp"`
	ShelfLife          float64 `json:"shelfLife"`
	DecayRate          float64 `json:"decayRate"`
	NormalizedValue    float64 `json:"normalizedValue"`
	LatestDeliveryTime float64 `json:"latestDeliveryTime"`
	OnOverflow         bool    `json:"onOverflow"`
}

// ShelfResponse is the payload for GET /api/v1/shelves/{kind} and one entry
// in GET /api/v1/shelves.
type ShelfResponse struct {
	Type     string      `json:"type"`
	Capacity int         `json:"capacity"`
	Orders   []OrderView `json:"orders"`
}

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Shelves map[string]ShelfOccupancy `json:"shelves"`
}

// ShelfOccupancy is one shelf's fill state.
type ShelfOccupancy struct {
	Resident int `json:"resident"`
	Capacity int `json:"capacity"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

// ToOrderView renders an order at time now.
func ToOrderView(o *order.Order, now time.Time) OrderView {
	return OrderView{
		ID:                 o.ID(),
		Name:               o.Name,
		Temp:               string(o.Temp),
		ShelfLife:          o.ShelfLife,
		DecayRate:          o.DecayRate,
		NormalizedValue:    o.NormalizedValue(now),
		LatestDeliveryTime: o.LatestDeliveryTime(now),
		OnOverflow:         o.OnOverflow,
	}
}

// ToShelfResponse renders a shelf snapshot at time now.
func ToShelfResponse(k shelf.Kind, capacity int, orders []*order.Order, now time.Time) ShelfResponse {
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, ToOrderView(o, now))
	}
	return ShelfResponse{Type: string(k), Capacity: capacity, Orders: views}
}
