package model

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"sctui/api"
	"sctui/config"
)

// sendTimeout bounds the blocking arena send; streaming sends have no
// deadline and are bounded by cancellation instead.
const sendTimeout = 120 * time.Second

// sendRequest assembles the wire request from the model's current settings.
func (m *Model) sendRequest(content string) api.SendRequest {
	req := api.SendRequest{
		Message:  content,
		Style:    m.Style,
		Provider: m.Provider,
		Model:    m.ModelID,
	}
	if m.ArenaMode {
		req.Models = []string{m.ArenaModels[0], m.ArenaModels[1]}
		req.Provider = ""
		req.Model = ""
	}
	return req
}

// StartStream opens the streaming send for the current chat. The returned
// command resolves to StreamStartedMsg on success; the update loop then
// pumps events with WaitForStream. The context deliberately has no timeout:
// a long reply holds the connection for as long as it streams, and Esc
// cancels through the cancel handle.
func (m *Model) StartStream(content string) tea.Cmd {
	if m.Current == nil {
		return nil
	}
	client := m.Client
	chatID := m.Current.ID
	req := m.sendRequest(content)

	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())
		events, err := client.StreamMessage(ctx, chatID, req)
		if err != nil {
			cancel()
			return StreamErrorMsg{Err: err}
		}
		return StreamStartedMsg{Events: events, Cancel: cancel}
	}
}

// WaitForStream reads one event from the stream, translating it into the
// corresponding UI message. The update loop re-issues it after every chunk,
// so the event loop stays responsive between reads.
func WaitForStream(events <-chan api.StreamEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return StreamDoneMsg{}
		}
		if ev.Err != nil {
			if errors.Is(ev.Err, context.Canceled) {
				return StreamCanceledMsg{}
			}
			return StreamErrorMsg{Err: ev.Err}
		}
		return StreamChunkMsg{Content: ev.Content}
	}
}

// SendArena performs the blocking comparison send. The server answers with
// both finalized messages at once; nothing optimistic is created for them.
func (m *Model) SendArena(content string) tea.Cmd {
	if m.Current == nil {
		return nil
	}
	client := m.Client
	chatID := m.Current.ID
	req := m.sendRequest(content)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		msgs, err := client.SendMessage(ctx, chatID, req)
		if err != nil {
			return ArenaRepliesMsg{Err: err}
		}
		return ArenaRepliesMsg{Replies: FromAPIMessages(msgs)}
	}
}

// VoteOutcome is the user's verdict on an arena pair.
type VoteOutcome int

const (
	LeftBetter VoteOutcome = iota
	RightBetter
	Tie
)

// SubmitVote records an arena verdict: two correlated submissions, one per
// side. A winner produces better+worse; a tie produces tie+tie. Submission
// failures are logged and reported but never retried, and the pair is
// finalised client-side regardless (the UI assumes success optimistically).
func (m *Model) SubmitVote(pair RenderItem, outcome VoteOutcome) tea.Cmd {
	if !pair.Pair || m.Current == nil {
		return nil
	}
	comparisonID := pair.ComparisonID()
	if !m.CanVote(comparisonID) {
		return nil
	}
	m.MarkVoted(comparisonID)

	client := m.Client
	ledger := m.Ledger
	chatID := m.Current.ID
	leftID, rightID := pair.Left.ID, pair.Right.ID

	leftVote, rightVote := api.VoteTie, api.VoteTie
	winner := ""
	switch outcome {
	case LeftBetter:
		leftVote, rightVote = api.VoteBetter, api.VoteWorse
		winner = pair.Left.Meta.Model
	case RightBetter:
		leftVote, rightVote = api.VoteWorse, api.VoteBetter
		winner = pair.Right.Meta.Model
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		var firstErr error
		if err := client.Vote(ctx, chatID, leftID, leftVote); err != nil {
			config.Logf("vote %s for message %d failed: %v", leftVote, leftID, err)
			firstErr = err
		}
		if err := client.Vote(ctx, chatID, rightID, rightVote); err != nil {
			config.Logf("vote %s for message %d failed: %v", rightVote, rightID, err)
			if firstErr == nil {
				firstErr = err
			}
		}

		if ledger != nil {
			if err := ledger.Record(comparisonID, chatID, winner, outcomeLabel(outcome)); err != nil {
				config.Logf("vote ledger write failed: %v", err)
			}
		}

		return VoteSubmittedMsg{ComparisonID: comparisonID, Err: firstErr}
	}
}

func outcomeLabel(o VoteOutcome) string {
	switch o {
	case LeftBetter:
		return "left"
	case RightBetter:
		return "right"
	default:
		return "tie"
	}
}

// RefetchChat re-synchronises the open chat with the server after a stream
// completes: the persisted message may differ in id and exact text from the
// locally accumulated one, so authoritative state replaces it wholesale.
func (m *Model) RefetchChat() tea.Cmd {
	if m.Current == nil {
		return nil
	}
	client := m.Client
	chatID := m.Current.ID

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		chat, err := client.GetChat(ctx, chatID)
		return ChatLoadedMsg{Chat: chat, Err: err}
	}
}
