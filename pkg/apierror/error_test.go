package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"semicloud-gen-bot/internal/store"

	"github.com/stretchr/testify/assert"
)

func TestFromStore(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{store.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{store.ErrAlreadyExists, http.StatusConflict, "ALREADY_EXISTS"},
		{store.ErrOutOfStock, http.StatusConflict, "OUT_OF_STOCK"},
		{store.ErrNoBalance, http.StatusConflict, "NO_BALANCE"},
		{store.ErrDeliveryBlocked, http.StatusBadGateway, "DELIVERY_BLOCKED"},
		{store.ErrPersistence, http.StatusInternalServerError, "PERSISTENCE_FAILURE"},
		{errors.New("anything else"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		got := FromStore(tt.err)
		assert.Equal(t, tt.status, got.StatusCode, "error %v", tt.err)
		assert.Equal(t, tt.code, got.Code, "error %v", tt.err)
	}
}

func TestFromStore_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("%w: write stock file: disk full", store.ErrPersistence)
	got := FromStore(wrapped)
	assert.Equal(t, "PERSISTENCE_FAILURE", got.Code)
}

func TestErrorToJSON(t *testing.T) {
	e := BadRequest("service is required")
	assert.JSONEq(t,
		`{"success": false, "error": {"code": "BAD_REQUEST", "message": "service is required"}}`,
		string(e.ToJSON()))
}
