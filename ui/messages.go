package ui

import (
	"sctui/model"
)

// Message type aliases - the messages themselves are defined in the model
// package next to the commands that produce them.
type loginResultMsg = model.LoginResultMsg
type registerResultMsg = model.RegisterResultMsg
type chatsListMsg = model.ChatsListMsg
type chatLoadedMsg = model.ChatLoadedMsg
type chatCreatedMsg = model.ChatCreatedMsg
type chatRenamedMsg = model.ChatRenamedMsg
type chatDeletedMsg = model.ChatDeletedMsg
type streamStartedMsg = model.StreamStartedMsg
type streamChunkMsg = model.StreamChunkMsg
type streamDoneMsg = model.StreamDoneMsg
type streamCanceledMsg = model.StreamCanceledMsg
type streamErrorMsg = model.StreamErrorMsg
type arenaRepliesMsg = model.ArenaRepliesMsg
type voteSubmittedMsg = model.VoteSubmittedMsg
type metricsMsg = model.MetricsMsg
type memoriesMsg = model.MemoriesMsg
type memorySavedMsg = model.MemorySavedMsg
type memoryDeletedMsg = model.MemoryDeletedMsg
type cacheSearchMsg = model.CacheSearchMsg
type markdownRenderedMsg = model.MarkdownRenderedMsg
