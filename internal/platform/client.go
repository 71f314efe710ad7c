package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"semicloud-gen-bot/internal/store"
)

// Messenger delivers rendered messages to the chat platform. SendDirect
// returns store.ErrDeliveryBlocked when the recipient cannot receive DMs.
type Messenger interface {
	SendChannel(ctx context.Context, channelID string, msg *Message) error
	SendDirect(ctx context.Context, userID string, msg *Message) error
}

// Client posts messages to the chat platform's HTTP API, authenticated with
// the bot token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a platform client for the given base URL.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SendChannel posts a message into a channel.
func (c *Client) SendChannel(ctx context.Context, channelID string, msg *Message) error {
	return c.post(ctx, fmt.Sprintf("%s/channels/%s/messages", c.baseURL, channelID), msg)
}

// SendDirect posts a message to a user's DMs. A 403 from the platform means
// the user has DMs disabled and maps to store.ErrDeliveryBlocked.
func (c *Client) SendDirect(ctx context.Context, userID string, msg *Message) error {
	err := c.post(ctx, fmt.Sprintf("%s/users/%s/messages", c.baseURL, userID), msg)
	if err, ok := err.(*statusError); ok && err.status == http.StatusForbidden {
		return store.ErrDeliveryBlocked
	}
	return err
}

type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("platform returned %d: %s", e.status, e.body)
}

func (c *Client) post(ctx context.Context, url string, msg *Message) error {
	body, err := json.Marshal(map[string]interface{}{"embed": msg})
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bot "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &statusError{status: resp.StatusCode, body: string(b)}
	}
	return nil
}

// Ensure Client implements Messenger
var _ Messenger = (*Client)(nil)
