package model

import (
	"time"

	"sctui/api"
)

// Roles as the backend sends them.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Metadata is the subset of a message's meta_data the UI renders.
type Metadata struct {
	ComparisonID string
	Model        string
	Provider     string
	Style        string
	Latency      float64
}

// ChatMessage is a message as held in local UI state. Server-persisted
// messages carry the server's positive ID; optimistic local entries
// (the submitted user message and the streaming placeholder) carry a
// negative timestamp-derived ID until the post-stream re-fetch replaces
// them with authoritative state.
type ChatMessage struct {
	ID        int64
	Role      string
	Content   string
	Rendered  string // cached markdown rendering
	CreatedAt time.Time
	Meta      Metadata
}

// IsLocal reports whether the message is an optimistic local entry that the
// server has never seen.
func (m ChatMessage) IsLocal() bool {
	return m.ID < 0
}

// NewLocalID returns an ID for an optimistic entry. Negative nanosecond
// timestamps cannot collide with server-assigned IDs and stay unique within
// a single UI session.
func NewLocalID() int64 {
	return -time.Now().UnixNano()
}

// FromAPIMessage converts a wire message into local state.
func FromAPIMessage(msg api.Message) ChatMessage {
	out := ChatMessage{
		ID:        msg.ID,
		Role:      msg.Role,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
	if msg.Meta != nil {
		out.Meta = Metadata{
			ComparisonID: string(msg.Meta.ComparisonID),
			Model:        msg.Meta.Model,
			Provider:     msg.Meta.Provider,
			Style:        msg.Meta.Style,
			Latency:      msg.Meta.Latency,
		}
	}
	return out
}

// FromAPIMessages converts a full message list.
func FromAPIMessages(msgs []api.Message) []ChatMessage {
	out := make([]ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, FromAPIMessage(m))
	}
	return out
}
