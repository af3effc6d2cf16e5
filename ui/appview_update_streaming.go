package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"sctui/config"
	appmodel "sctui/model"
)

// handleStreamingMessage handles the send lifecycle: stream events for the
// normal path, the one-shot reply message for the arena path.
func (a AppView) handleStreamingMessage(msg tea.Msg) (AppView, tea.Cmd) {
	switch msg := msg.(type) {
	case streamStartedMsg:
		// The request is accepted; hold the cancel handle and start pumping.
		// One event is read per command so the event loop stays responsive.
		a.dataModel.CancelStream = msg.Cancel
		a.streamEvents = msg.Events
		return a, appmodel.WaitForStream(msg.Events)

	case streamChunkMsg:
		a.dataModel.ApplyStreamContent(msg.Content)
		a.updateViewportContent(true)
		return a, appmodel.WaitForStream(a.streamEvents)

	case streamDoneMsg:
		if config.DebugLog != nil {
			config.DebugLog.Printf("stream completed, re-fetching chat")
		}
		a.dataModel.FinishStream()
		a.streamEvents = nil
		a.updateViewportContent(true)
		// The server's persisted copy replaces the locally accumulated one.
		return a, a.dataModel.RefetchChat()

	case streamCanceledMsg:
		a.dataModel.AbortStream()
		a.streamEvents = nil
		a.status = "Response canceled"
		a.updateViewportContent(true)
		return a, nil

	case streamErrorMsg:
		a.dataModel.AbortStream()
		a.streamEvents = nil
		a.status = "Send failed: " + msg.Err.Error()
		a.updateViewportContent(true)
		return a, nil

	case arenaRepliesMsg:
		if msg.Err != nil {
			a.dataModel.AbortStream()
			a.status = "Comparison failed: " + msg.Err.Error()
			a.updateViewportContent(true)
			return a, nil
		}
		a.dataModel.AppendArenaReplies(msg.Replies)
		a.status = "Vote: 1 left, 2 right, 3 tie"
		a.updateViewportContent(true)
		return a, nil
	}

	return a, nil
}
