package model

import (
	"context"
	"time"

	"sctui/api"
	"sctui/config"
	"sctui/storage"
)

// Chat is the conversation currently open in the chat view.
type Chat struct {
	ID       int64
	Title    string
	Messages []ChatMessage
}

// Model holds the application data and business-logic state shared by all
// views. UI state (focus, viewports, inputs) lives in the ui package.
type Model struct {
	// Core dependencies
	Config *config.Config
	Client *api.Client
	Cache  *storage.ChatCache
	Ledger *storage.VoteLedger

	// Account
	User api.User

	// Chat data
	Chats   []api.Chat // list view entries, without message bodies
	Current *Chat

	// Send settings relayed with each message
	Provider string
	ModelID  string
	Style    string

	// Arena
	ArenaMode   bool
	ArenaModels [2]string
	votedPairs  map[string]bool

	// Streaming state. Only one stream may be in flight per chat view;
	// Streaming is the caller-level busy flag that blocks further sends.
	Streaming    bool
	CancelStream context.CancelFunc

	// Application metadata
	Version string
}

// NewModel assembles the shared model. ledger may be nil when the vote
// database could not be opened; voted-pair state then lives only in memory.
func NewModel(cfg *config.Config, client *api.Client, cache *storage.ChatCache, ledger *storage.VoteLedger, version string) *Model {
	m := &Model{
		Config:     cfg,
		Client:     client,
		Cache:      cache,
		Ledger:     ledger,
		Provider:   cfg.DefaultProvider,
		ModelID:    cfg.DefaultModel,
		Style:      cfg.DefaultStyle,
		votedPairs: make(map[string]bool),
		Version:    version,
	}
	if len(cfg.ArenaModels) == 2 {
		m.ArenaModels[0] = cfg.ArenaModels[0]
		m.ArenaModels[1] = cfg.ArenaModels[1]
	}
	if ledger != nil {
		if voted, err := ledger.VotedComparisons(); err == nil {
			for _, id := range voted {
				m.votedPairs[id] = true
			}
		}
	}
	return m
}

// BeginSend records the user's message optimistically and, unless arena
// mode is active, installs the empty assistant placeholder that the stream
// consumer will grow. Returns false when a send is already in flight or no
// chat is open.
func (m *Model) BeginSend(content string) bool {
	if m.Streaming || m.Current == nil {
		return false
	}

	now := time.Now()
	m.Current.Messages = append(m.Current.Messages, ChatMessage{
		ID:        NewLocalID(),
		Role:      RoleUser,
		Content:   content,
		CreatedAt: now,
	})

	if !m.ArenaMode {
		m.Current.Messages = append(m.Current.Messages, ChatMessage{
			ID:        NewLocalID(),
			Role:      RoleAssistant,
			CreatedAt: now,
		})
	}

	m.Streaming = true
	return true
}

// ApplyStreamContent replaces the placeholder's content with the full
// accumulated text of the in-flight reply. Updates are whole-value: the
// consumer always supplies the running total, never a fragment to merge.
func (m *Model) ApplyStreamContent(content string) {
	if m.Current == nil || len(m.Current.Messages) == 0 {
		return
	}
	last := &m.Current.Messages[len(m.Current.Messages)-1]
	if last.Role != RoleAssistant || !last.IsLocal() {
		return
	}
	last.Content = content
	last.Rendered = ""
}

// FinishStream ends the optimistic phase after a normal stream completion.
// The placeholder is dropped; the caller follows up with a re-fetch that
// replaces local state with the server's persisted version.
func (m *Model) FinishStream() {
	m.dropPlaceholder()
	m.endStream()
}

// AbortStream ends the optimistic phase after a cancellation or transport
// failure. The placeholder disappears and no re-fetch follows; the user's
// own message stays, since the server persists it before streaming begins.
func (m *Model) AbortStream() {
	m.dropPlaceholder()
	m.endStream()
}

func (m *Model) endStream() {
	m.Streaming = false
	if m.CancelStream != nil {
		m.CancelStream()
		m.CancelStream = nil
	}
}

// dropPlaceholder removes the trailing local assistant entry, if present.
func (m *Model) dropPlaceholder() {
	if m.Current == nil || len(m.Current.Messages) == 0 {
		return
	}
	last := m.Current.Messages[len(m.Current.Messages)-1]
	if last.Role == RoleAssistant && last.IsLocal() {
		m.Current.Messages = m.Current.Messages[:len(m.Current.Messages)-1]
	}
}

// ReplaceFromServer swaps the open chat for the authoritative server copy.
// Replacement is wholesale: local optimistic entries are never merged
// field-by-field with persisted ones.
func (m *Model) ReplaceFromServer(chat api.Chat) {
	m.Current = &Chat{
		ID:       chat.ID,
		Title:    chat.Title,
		Messages: FromAPIMessages(chat.Messages),
	}
}

// AppendArenaReplies appends the comparison pair. Arena replies are never
// optimistic: they exist only once the server returns both finalized
// messages, so there is no placeholder to drop.
func (m *Model) AppendArenaReplies(replies []ChatMessage) {
	if m.Current == nil {
		return
	}
	m.Current.Messages = append(m.Current.Messages, replies...)
	m.Streaming = false
}

// CanVote reports whether the pair is still open for voting.
func (m *Model) CanVote(comparisonID string) bool {
	if comparisonID == "" {
		return false
	}
	return !m.votedPairs[comparisonID]
}

// MarkVoted finalises a pair client-side. Idempotent.
func (m *Model) MarkVoted(comparisonID string) {
	if comparisonID == "" {
		return
	}
	m.votedPairs[comparisonID] = true
}
