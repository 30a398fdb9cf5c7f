package api

import (
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/order"
	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/shelf"
)

// Accepter takes a validated order into the kitchen. Implemented by
// kitchen.Engine.
type Accepter interface {
	Accept(*order.Order)
}

// Handler is the HTTP handler for all /api/v1/* endpoints.
type Handler struct {
	engine Accepter
	store  *shelf.Store
	mux    *http.ServeMux
	now    func() time.Time // injectable for deterministic tests
}

// New creates a Handler wired to the engine and shelf store and registers
// all routes.
func New(engine Accepter, st *shelf.Store) *Handler {
	h := &Handler{engine: engine, store: st, mux: http.NewServeMux(), now: time.Now}

	h.mux.HandleFunc("/api/v1/orders", h.placeOrder)
	h.mux.HandleFunc("/api/v1/shelves", h.listShelves)
	h.mux.HandleFunc("/api/v1/shelves/", h.getShelf) // subtree — extracts {kind}
	h.mux.HandleFunc("/api/v1/health", h.health)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// placeOrder handles POST /api/v1/orders — validates and accepts a new
// order, acknowledging immediately.
func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, http.StatusBadRequest, "malformed order: "+err.Error())
		return
	}

	temp, err := order.ParseTemperature(req.Temp)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}
	o, err := order.New(req.Name, temp, req.ShelfLife, req.DecayRate)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}

	h.engine.Accept(o)
	jsonResp(w, http.StatusAccepted, AcceptedResponse{Status: "accepted", ID: o.ID()})
}

// listShelves handles GET /api/v1/shelves — snapshots of all four shelves.
func (h *Handler) listShelves(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	now := h.now()
	out := make([]ShelfResponse, 0, len(shelf.Kinds()))
	for _, k := range shelf.Kinds() {
		out = append(out, ToShelfResponse(k, h.store.Capacity(k), h.store.Snapshot(k), now))
	}
	jsonResp(w, http.StatusOK, out)
}

// getShelf handles GET /api/v1/shelves/{kind} — a single shelf snapshot,
// read under the shelf's read lock.
func (h *Handler) getShelf(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/api/v1/shelves/")
	if name == "" {
		h.listShelves(w, r)
		return
	}
	k, err := shelf.ParseKind(name)
	if err != nil {
		jsonErr(w, http.StatusNotFound, "shelf not found")
		return
	}

	jsonResp(w, http.StatusOK, ToShelfResponse(k, h.store.Capacity(k), h.store.Snapshot(k), h.now()))
}

// health handles GET /api/v1/health — per-shelf occupancy.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resp := HealthResponse{Shelves: make(map[string]ShelfOccupancy, len(shelf.Kinds()))}
	for _, k := range shelf.Kinds() {
		resp.Shelves[string(k)] = ShelfOccupancy{
			Resident: h.store.Len(k),
			Capacity: h.store.Capacity(k),
		}
	}
	jsonResp(w, http.StatusOK, resp)
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
