package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"semicloud-gen-bot/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVouchRouter(t *testing.T) (*chi.Mux, *store.FileVouchStore) {
	t.Helper()

	vouches, err := store.NewFileVouchStore(filepath.Join(t.TempDir(), "vouches.json"))
	require.NoError(t, err)
	h := NewVouchHandler(vouches)

	r := chi.NewRouter()
	r.Get("/vouches/{user_id}", h.GetVouches)
	r.Post("/admin/vouches/{user_id}/remove", h.RemoveVouches)
	return r, vouches
}

func TestVouchHandler_GetVouches(t *testing.T) {
	r, vouches := newVouchRouter(t)

	_, err := vouches.Increment(context.Background(), "100", 3)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/vouches/100", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["vouches"])

	// Unknown user reads zero
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/vouches/999", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	data = decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["vouches"])
}

func TestVouchHandler_RemoveVouches(t *testing.T) {
	r, vouches := newVouchRouter(t)
	ctx := context.Background()

	_, err := vouches.Increment(ctx, "100", 3)
	require.NoError(t, err)

	// Count defaults to 1 without a body
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/vouches/100/remove", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["vouches"])

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/vouches/100/remove", strings.NewReader(`{"count": 5}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	data = decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["vouches"])

	// Nothing left to remove
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/vouches/100/remove", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Zero or negative counts are rejected
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/vouches/100/remove", strings.NewReader(`{"count": 0}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
