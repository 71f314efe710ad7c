package platform

// Embed colors used across all rendered messages.
const (
	ColorPrimary = 0x5865F2
	ColorSuccess = 0x57F287
	ColorError   = 0xED4245
	ColorWarning = 0xFEE75C
	ColorInfo    = 0xEB459E
)

// Message is an embed-style rendered response sent back to the chat
// platform.
type Message struct {
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Color       int     `json:"color,omitempty"`
	Fields      []Field `json:"fields,omitempty"`
	Footer      string  `json:"footer,omitempty"`
}

// Field is one embed field.
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// AddField appends a field and returns the message for chaining.
func (m *Message) AddField(name, value string, inline bool) *Message {
	m.Fields = append(m.Fields, Field{Name: name, Value: value, Inline: inline})
	return m
}
