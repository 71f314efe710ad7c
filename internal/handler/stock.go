package handler

import (
	"encoding/json"
	"net/http"

	"semicloud-gen-bot/internal/service"
	"semicloud-gen-bot/internal/store"
	"semicloud-gen-bot/pkg/apierror"
	"semicloud-gen-bot/pkg/response"

	"github.com/go-chi/chi/v5"
)

// StockHandler handles stock-related HTTP requests.
type StockHandler struct {
	inventory store.InventoryStore
	generator *service.Generator
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(inventory store.InventoryStore, generator *service.Generator) *StockHandler {
	return &StockHandler{
		inventory: inventory,
		generator: generator,
	}
}

// ServiceStock is one service's listing entry.
type ServiceStock struct {
	Service string `json:"service"`
	Count   int    `json:"count"`
}

// ListStock handles GET /api/v1/stock
func (h *StockHandler) ListStock(w http.ResponseWriter, r *http.Request) {
	services, err := h.inventory.ListServices(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}

	listing := make([]ServiceStock, 0, len(services))
	for _, svc := range services {
		count, err := h.inventory.Count(r.Context(), svc)
		if err != nil {
			response.Error(w, err)
			return
		}
		listing = append(listing, ServiceStock{Service: svc, Count: count})
	}

	response.OK(w, listing)
}

// GetStock handles GET /api/v1/stock/{service}
func (h *StockHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	svc := chi.URLParam(r, "service")
	if svc == "" {
		response.Error(w, apierror.BadRequest("service is required"))
		return
	}

	count, err := h.inventory.Count(r.Context(), svc)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, ServiceStock{Service: store.NormalizeService(svc), Count: count})
}

// GenRequest represents the request body for a generation.
type GenRequest struct {
	UserID  string `json:"user_id"`
	Service string `json:"service"`
}

// Generate handles POST /api/v1/gen. Draws one account and delivers it to
// the user's DMs, exactly like the chat command.
func (h *StockHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if req.UserID == "" {
		response.Error(w, apierror.BadRequest("user_id is required"))
		return
	}
	if req.Service == "" {
		response.Error(w, apierror.BadRequest("service is required"))
		return
	}

	result, err := h.generator.Generate(r.Context(), req.UserID, req.Service)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"status":  "delivered",
		"service": result.Service,
		"user_id": req.UserID,
	})
}
