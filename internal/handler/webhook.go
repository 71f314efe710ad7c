package handler

import (
	"encoding/json"
	"net/http"

	"semicloud-gen-bot/internal/command"
	"semicloud-gen-bot/internal/model"
	"semicloud-gen-bot/pkg/apierror"
	"semicloud-gen-bot/pkg/response"
)

// WebhookHandler receives inbound chat messages from the platform and feeds
// them to the command dispatcher.
type WebhookHandler struct {
	dispatcher *command.Dispatcher
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(dispatcher *command.Dispatcher) *WebhookHandler {
	return &WebhookHandler{dispatcher: dispatcher}
}

// HandleMessage handles POST /api/v1/webhook/message
//
// The dispatcher renders typed failures to the channel itself; a non-2xx
// here means either a malformed payload or an unexpected internal failure.
func (h *WebhookHandler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var msg model.ChatMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		response.Error(w, apierror.BadRequest("invalid message payload"))
		return
	}
	defer r.Body.Close()

	if msg.AuthorID == "" || msg.ChannelID == "" {
		response.Error(w, apierror.BadRequest("author_id and channel_id are required"))
		return
	}

	if err := h.dispatcher.HandleMessage(r.Context(), msg); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]string{"status": "handled"})
}
