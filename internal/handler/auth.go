package handler

import (
	"encoding/json"
	"net/http"

	"semicloud-gen-bot/internal/model"
	"semicloud-gen-bot/internal/service"
	"semicloud-gen-bot/internal/store"
	"semicloud-gen-bot/pkg/apierror"
	"semicloud-gen-bot/pkg/response"
)

// AuthHandler handles operator authentication HTTP requests.
type AuthHandler struct {
	tokenService *service.TokenService
	operators    *store.MySQLOperatorStore
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(tokenService *service.TokenService, operators *store.MySQLOperatorStore) *AuthHandler {
	return &AuthHandler{
		tokenService: tokenService,
		operators:    operators,
	}
}

// TokenRequest represents the request body for token generation.
type TokenRequest struct {
	Key string `json:"key"`
}

// TokenResponse represents the response for token generation.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// GenerateToken handles POST /api/v1/auth/token
func (h *AuthHandler) GenerateToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if req.Key == "" {
		response.Error(w, apierror.BadRequest("key is required"))
		return
	}

	operator, err := h.operators.ValidateKey(r.Context(), req.Key)
	if err != nil {
		response.Error(w, apierror.Unauthorized(err.Error()))
		return
	}

	token, err := h.tokenService.GenerateToken(r.Context(), model.SessionData{
		OperatorID: operator.ID,
		Name:       operator.Name,
		Role:       operator.Role,
	})
	if err != nil {
		response.Error(w, apierror.InternalError("failed to generate token"))
		return
	}

	response.OK(w, TokenResponse{
		Token:     token,
		ExpiresIn: int(service.TokenTTL.Seconds()),
	})
}

// RevokeToken handles POST /api/v1/auth/revoke
func (h *AuthHandler) RevokeToken(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Token")
	if token == "" {
		response.Error(w, apierror.BadRequest("X-Token header required"))
		return
	}

	if err := h.tokenService.RevokeToken(r.Context(), token); err != nil {
		response.Error(w, apierror.InternalError("failed to revoke token"))
		return
	}

	response.OK(w, map[string]string{"status": "revoked"})
}

// RefreshToken handles POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Token")
	if token == "" {
		response.Error(w, apierror.BadRequest("X-Token header required"))
		return
	}

	if err := h.tokenService.RefreshToken(r.Context(), token); err != nil {
		response.Error(w, apierror.Unauthorized(err.Error()))
		return
	}

	response.OK(w, map[string]interface{}{
		"status":     "refreshed",
		"expires_in": int(service.TokenTTL.Seconds()),
	})
}
