package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"semicloud-gen-bot/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SendChannel(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]*Message

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	msg := &Message{Title: "Hello", Color: ColorSuccess}

	err := c.SendChannel(context.Background(), "chan-1", msg)
	require.NoError(t, err)

	assert.Equal(t, "/channels/chan-1/messages", gotPath)
	assert.Equal(t, "Bot secret", gotAuth)
	require.NotNil(t, gotBody["embed"])
	assert.Equal(t, "Hello", gotBody["embed"].Title)
}

func TestClient_SendDirectForbiddenMapsToBlocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "cannot send messages to this user", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	err := c.SendDirect(context.Background(), "100", &Message{Title: "DM"})
	assert.ErrorIs(t, err, store.ErrDeliveryBlocked)
}

func TestClient_SendDirectOtherErrorsPassThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	err := c.SendDirect(context.Background(), "100", &Message{Title: "DM"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrDeliveryBlocked)
	assert.Contains(t, err.Error(), "429")
}
