package ui

import (
	"testing"

	"sctui/api"
	"sctui/config"
	appmodel "sctui/model"
)

func testAppView() AppView {
	cfg := &config.Config{
		DefaultProvider: "openai",
		DefaultModel:    "gpt-4o-mini",
		DefaultStyle:    "balanced",
		ArenaModels:     []string{"model-a", "model-b"},
	}
	client := api.NewClient("http://localhost:8000", api.StaticToken("t"))
	dm := appmodel.NewModel(cfg, client, nil, nil, "test")
	dm.Current = &appmodel.Chat{ID: 1, Title: "test"}

	a := NewAppView(dm, config.DefaultKeybindings())
	a.ready = true
	a.width = 80
	a.height = 24
	return a
}

func TestStreamLifecycle_DoneTriggersRefetch(t *testing.T) {
	a := testAppView()
	a.dataModel.BeginSend("hello")

	a, _ = a.handleStreamingMessage(streamChunkMsg{Content: "partial"})
	a, cmd := a.handleStreamingMessage(streamDoneMsg{})

	if cmd == nil {
		t.Error("normal completion must schedule the authoritative re-fetch")
	}
	if a.dataModel.Streaming {
		t.Error("streaming flag still set after completion")
	}
	if a.streamEvents != nil {
		t.Error("event channel not released")
	}
}

func TestStreamLifecycle_CancelSkipsRefetch(t *testing.T) {
	a := testAppView()
	a.dataModel.BeginSend("hello")

	a, cmd := a.handleStreamingMessage(streamCanceledMsg{})

	if cmd != nil {
		t.Error("cancellation must not schedule a re-fetch")
	}
	if a.dataModel.Streaming {
		t.Error("streaming flag still set after cancel")
	}
	// only the user's message survives
	if got := len(a.dataModel.Current.Messages); got != 1 {
		t.Errorf("got %d messages after cancel, want 1", got)
	}
}

func TestStreamLifecycle_ErrorSkipsRefetch(t *testing.T) {
	a := testAppView()
	a.dataModel.BeginSend("hello")

	a, cmd := a.handleStreamingMessage(streamErrorMsg{Err: api.ErrNoBody})

	if cmd != nil {
		t.Error("transport failure must not schedule a re-fetch")
	}
	if a.status == "" {
		t.Error("failure left no status for the user")
	}
}

func TestStreamLifecycle_ChunkKeepsPumping(t *testing.T) {
	a := testAppView()
	a.dataModel.BeginSend("hello")

	events := make(chan api.StreamEvent)
	a.streamEvents = events

	a, cmd := a.handleStreamingMessage(streamChunkMsg{Content: "Hello th"})
	if cmd == nil {
		t.Error("chunk handling must re-issue the channel read")
	}

	last := a.dataModel.Current.Messages[len(a.dataModel.Current.Messages)-1]
	if last.Content != "Hello th" {
		t.Errorf("placeholder content = %q", last.Content)
	}
}

func TestArenaReplies_RenderAsVotablePair(t *testing.T) {
	a := testAppView()
	a.dataModel.ArenaMode = true
	a.dataModel.BeginSend("compare")

	a, _ = a.handleStreamingMessage(arenaRepliesMsg{
		Replies: []appmodel.ChatMessage{
			{ID: 10, Role: appmodel.RoleAssistant, Content: "a", Meta: appmodel.Metadata{ComparisonID: "cmp-1", Model: "model-a"}},
			{ID: 11, Role: appmodel.RoleAssistant, Content: "b", Meta: appmodel.Metadata{ComparisonID: "cmp-1", Model: "model-b"}},
		},
	})

	pair, ok := a.latestVotablePair()
	if !ok {
		t.Fatal("no votable pair after arena replies")
	}
	if pair.ComparisonID() != "cmp-1" {
		t.Errorf("pair id = %q", pair.ComparisonID())
	}

	a.dataModel.MarkVoted("cmp-1")
	if _, ok := a.latestVotablePair(); ok {
		t.Error("pair still votable after voting")
	}
}
