package handler

import (
	"encoding/json"
	"net/http"

	"semicloud-gen-bot/internal/store"
	"semicloud-gen-bot/pkg/apierror"
	"semicloud-gen-bot/pkg/response"

	"github.com/go-chi/chi/v5"
)

// VouchHandler handles vouch-related HTTP requests.
type VouchHandler struct {
	vouches store.VouchStore
}

// NewVouchHandler creates a new vouch handler.
func NewVouchHandler(vouches store.VouchStore) *VouchHandler {
	return &VouchHandler{vouches: vouches}
}

// GetVouches handles GET /api/v1/vouches/{user_id}
func (h *VouchHandler) GetVouches(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if userID == "" {
		response.Error(w, apierror.BadRequest("user_id is required"))
		return
	}

	count, err := h.vouches.Get(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"user_id": userID,
		"vouches": count,
	})
}

// RemoveRequest represents the request body for a vouch removal.
type RemoveRequest struct {
	Count int `json:"count"`
}

// RemoveVouches handles POST /api/v1/admin/vouches/{user_id}/remove
func (h *VouchHandler) RemoveVouches(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if userID == "" {
		response.Error(w, apierror.BadRequest("user_id is required"))
		return
	}

	req := RemoveRequest{Count: 1}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, apierror.BadRequest("invalid request body"))
			return
		}
		defer r.Body.Close()
	}
	if req.Count < 1 {
		response.Error(w, apierror.BadRequest("count must be a positive number"))
		return
	}

	remaining, err := h.vouches.Decrement(r.Context(), userID, req.Count)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"user_id": userID,
		"removed": req.Count,
		"vouches": remaining,
	})
}
