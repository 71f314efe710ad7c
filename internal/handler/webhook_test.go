package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"semicloud-gen-bot/internal/command"
	"semicloud-gen-bot/internal/model"
	"semicloud-gen-bot/internal/service"
	"semicloud-gen-bot/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWebhookHandler(t *testing.T) (*WebhookHandler, store.InventoryStore) {
	t.Helper()
	dir := t.TempDir()

	inventory, err := store.NewFileInventoryStore(filepath.Join(dir, "stock"))
	require.NoError(t, err)
	vouches, err := store.NewFileVouchStore(filepath.Join(dir, "vouches.json"))
	require.NoError(t, err)
	genLog, err := store.NewFileGenLog(filepath.Join(dir, "gen_logs.txt"))
	require.NoError(t, err)

	messenger := &nullMessenger{}
	generator := service.NewGenerator(inventory, genLog, messenger, "")
	dispatcher := command.New(command.Config{
		Inventory:    inventory,
		Vouches:      vouches,
		Generator:    generator,
		Messenger:    messenger,
		IsPrivileged: func(msg model.ChatMessage) bool { return true },
		Prefix:       "$",
		VouchChannel: "bot-vouch",
		BotUserID:    "bot-1",
	})

	return NewWebhookHandler(dispatcher), inventory
}

func TestWebhookHandler_DispatchesCommand(t *testing.T) {
	h, inventory := newWebhookHandler(t)

	body := strings.NewReader(`{
		"author_id": "100",
		"channel_id": "chan-1",
		"channel_name": "general",
		"content": "$create netflix"
	}`)
	rec := httptest.NewRecorder()
	h.HandleMessage(rec, httptest.NewRequest(http.MethodPost, "/webhook/message", body))

	require.Equal(t, http.StatusOK, rec.Code)

	services, err := inventory.ListServices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"netflix"}, services)
}

func TestWebhookHandler_RejectsMalformedPayload(t *testing.T) {
	h, _ := newWebhookHandler(t)

	rec := httptest.NewRecorder()
	h.HandleMessage(rec, httptest.NewRequest(http.MethodPost, "/webhook/message", strings.NewReader("not json")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookHandler_RequiresAuthorAndChannel(t *testing.T) {
	h, _ := newWebhookHandler(t)

	rec := httptest.NewRecorder()
	h.HandleMessage(rec, httptest.NewRequest(http.MethodPost, "/webhook/message", strings.NewReader(`{"content": "$stock"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
