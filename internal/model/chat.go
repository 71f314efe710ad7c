package model

// ChatMessage is an inbound message from the chat platform, as posted to the
// message webhook. Roles carries the author's role names so the access layer
// can compute the privileged flag without knowing the platform's role model.
type ChatMessage struct {
	MessageID   string      `json:"message_id"`
	AuthorID    string      `json:"author_id"`
	AuthorName  string      `json:"author_name"`
	AuthorIsBot bool        `json:"author_is_bot"`
	ChannelID   string      `json:"channel_id"`
	ChannelName string      `json:"channel_name"`
	Content     string      `json:"content"`
	Roles       []string    `json:"roles,omitempty"`
	Mentions    []string    `json:"mentions,omitempty"`
	Attachment  *Attachment `json:"attachment,omitempty"`
}

// Attachment is a file attached to a chat message (stock uploads).
type Attachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}
