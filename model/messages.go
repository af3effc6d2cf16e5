package model

import (
	"context"

	"sctui/api"
	"sctui/storage"
)

// Bubble Tea messages produced by the model's commands.

type LoginResultMsg struct {
	Token string
	User  api.User
	Err   error
}

type RegisterResultMsg struct {
	User api.User
	Err  error
}

type ChatsListMsg struct {
	Chats []api.Chat
	Err   error
}

type ChatLoadedMsg struct {
	Chat api.Chat
	Err  error
}

type ChatCreatedMsg struct {
	Chat api.Chat
	Err  error
}

type ChatRenamedMsg struct {
	Chat api.Chat
	Err  error
}

type ChatDeletedMsg struct {
	ID  int64
	Err error
}

// StreamStartedMsg hands the open event channel and its cancel handle to
// the update loop, which pumps it one event per command.
type StreamStartedMsg struct {
	Events <-chan api.StreamEvent
	Cancel context.CancelFunc
}

// StreamChunkMsg carries the full accumulated reply text so far.
type StreamChunkMsg struct {
	Content string
}

// StreamDoneMsg signals normal termination; the handler re-fetches the chat.
type StreamDoneMsg struct{}

// StreamCanceledMsg signals a user-initiated abort. Not an error.
type StreamCanceledMsg struct{}

// StreamErrorMsg signals a transport failure terminating the send.
type StreamErrorMsg struct {
	Err error
}

type ArenaRepliesMsg struct {
	Replies []ChatMessage
	Err     error
}

type VoteSubmittedMsg struct {
	ComparisonID string
	Err          error
}

type MetricsMsg struct {
	Recent      api.RecentMetrics
	Global      *api.GlobalMetrics // nil for non-admin accounts
	Leaderboard []api.LeaderboardEntry
	Err         error
}

type MemoriesMsg struct {
	Memories []api.Memory
	Err      error
}

type MemorySavedMsg struct {
	Memory api.Memory
	Err    error
}

type MemoryDeletedMsg struct {
	ID  int64
	Err error
}

type CacheSearchMsg struct {
	Matches []storage.ChatMatch
	Err     error
}

type MarkdownRenderedMsg struct {
	MessageIndex int
	Rendered     string
}
