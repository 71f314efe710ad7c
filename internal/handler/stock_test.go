package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"semicloud-gen-bot/internal/platform"
	"semicloud-gen-bot/internal/service"
	"semicloud-gen-bot/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nullMessenger struct {
	directErr error
}

func (n *nullMessenger) SendChannel(ctx context.Context, channelID string, msg *platform.Message) error {
	return nil
}

func (n *nullMessenger) SendDirect(ctx context.Context, userID string, msg *platform.Message) error {
	return n.directErr
}

func newStockRouter(t *testing.T, messenger platform.Messenger) (*chi.Mux, store.InventoryStore) {
	t.Helper()
	dir := t.TempDir()

	inventory, err := store.NewFileInventoryStore(filepath.Join(dir, "stock"))
	require.NoError(t, err)
	genLog, err := store.NewFileGenLog(filepath.Join(dir, "gen_logs.txt"))
	require.NoError(t, err)

	generator := service.NewGenerator(inventory, genLog, messenger, "")
	h := NewStockHandler(inventory, generator)

	r := chi.NewRouter()
	r.Get("/stock", h.ListStock)
	r.Get("/stock/{service}", h.GetStock)
	r.Post("/gen", h.Generate)
	return r, inventory
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestStockHandler_ListStock(t *testing.T) {
	r, inventory := newStockRouter(t, &nullMessenger{})
	ctx := context.Background()

	_, err := inventory.Append(ctx, "netflix", []string{"a:1", "b:2"})
	require.NoError(t, err)
	require.NoError(t, inventory.Create(ctx, "hulu"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stock", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])

	listing := body["data"].([]interface{})
	require.Len(t, listing, 2)
	first := listing[0].(map[string]interface{})
	assert.Equal(t, "hulu", first["service"])
	assert.Equal(t, float64(0), first["count"])
}

func TestStockHandler_GetStock(t *testing.T) {
	r, inventory := newStockRouter(t, &nullMessenger{})

	_, err := inventory.Append(context.Background(), "netflix", []string{"a:1"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stock/NETFLIX", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "netflix", data["service"])
	assert.Equal(t, float64(1), data["count"])
}

func TestStockHandler_GenerateDelivers(t *testing.T) {
	r, inventory := newStockRouter(t, &nullMessenger{})

	_, err := inventory.Append(context.Background(), "netflix", []string{"a:1"})
	require.NoError(t, err)

	payload, _ := json.Marshal(map[string]string{"user_id": "100", "service": "netflix"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/gen", bytes.NewReader(payload)))

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "delivered", data["status"])

	count, err := inventory.Count(context.Background(), "netflix")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStockHandler_GenerateErrors(t *testing.T) {
	r, inventory := newStockRouter(t, &nullMessenger{})
	ctx := context.Background()

	// Missing fields
	payload, _ := json.Marshal(map[string]string{"service": "netflix"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/gen", bytes.NewReader(payload)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown service
	payload, _ = json.Marshal(map[string]string{"user_id": "100", "service": "nosuch"})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/gen", bytes.NewReader(payload)))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Empty service
	require.NoError(t, inventory.Create(ctx, "empty"))
	payload, _ = json.Marshal(map[string]string{"user_id": "100", "service": "empty"})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/gen", bytes.NewReader(payload)))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStockHandler_GenerateBlockedDMs(t *testing.T) {
	r, inventory := newStockRouter(t, &nullMessenger{directErr: store.ErrDeliveryBlocked})

	_, err := inventory.Append(context.Background(), "netflix", []string{"a:1"})
	require.NoError(t, err)

	payload, _ := json.Marshal(map[string]string{"user_id": "100", "service": "netflix"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/gen", bytes.NewReader(payload)))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
}
