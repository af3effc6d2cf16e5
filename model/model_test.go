package model

import (
	"testing"
	"time"

	"sctui/api"
)

func testModel() *Model {
	return &Model{
		votedPairs: make(map[string]bool),
		Current:    &Chat{ID: 1, Title: "test"},
	}
}

func TestBeginSend(t *testing.T) {
	t.Run("appends user message and placeholder", func(t *testing.T) {
		m := testModel()
		if !m.BeginSend("hello") {
			t.Fatal("BeginSend refused")
		}
		if len(m.Current.Messages) != 2 {
			t.Fatalf("got %d messages, want 2", len(m.Current.Messages))
		}
		u, a := m.Current.Messages[0], m.Current.Messages[1]
		if u.Role != RoleUser || u.Content != "hello" || !u.IsLocal() {
			t.Errorf("user message wrong: %+v", u)
		}
		if a.Role != RoleAssistant || a.Content != "" || !a.IsLocal() {
			t.Errorf("placeholder wrong: %+v", a)
		}
		if !m.Streaming {
			t.Error("Streaming flag not set")
		}
	})

	t.Run("arena mode skips the placeholder", func(t *testing.T) {
		m := testModel()
		m.ArenaMode = true
		if !m.BeginSend("compare") {
			t.Fatal("BeginSend refused")
		}
		if len(m.Current.Messages) != 1 {
			t.Fatalf("got %d messages, want 1", len(m.Current.Messages))
		}
	})

	t.Run("refuses while streaming", func(t *testing.T) {
		m := testModel()
		m.Streaming = true
		if m.BeginSend("again") {
			t.Error("BeginSend accepted a second in-flight send")
		}
		if len(m.Current.Messages) != 0 {
			t.Error("message appended despite refusal")
		}
	})

	t.Run("refuses without an open chat", func(t *testing.T) {
		m := testModel()
		m.Current = nil
		if m.BeginSend("nowhere") {
			t.Error("BeginSend accepted with no chat open")
		}
	})
}

func TestApplyStreamContent(t *testing.T) {
	m := testModel()
	m.BeginSend("hi")

	m.ApplyStreamContent("Hel")
	m.ApplyStreamContent("Hello there")

	last := m.Current.Messages[len(m.Current.Messages)-1]
	if last.Content != "Hello there" {
		t.Errorf("placeholder content = %q, want the full running total", last.Content)
	}

	t.Run("ignores non-placeholder tail", func(t *testing.T) {
		m := testModel()
		m.Current.Messages = []ChatMessage{{ID: 5, Role: RoleAssistant, Content: "persisted"}}
		m.ApplyStreamContent("overwrite attempt")
		if m.Current.Messages[0].Content != "persisted" {
			t.Error("server-owned message was overwritten")
		}
	})
}

func TestFinishStream_DropsPlaceholderKeepsUser(t *testing.T) {
	m := testModel()
	m.BeginSend("hi")
	m.ApplyStreamContent("partial reply")

	m.FinishStream()

	if m.Streaming {
		t.Error("Streaming flag still set")
	}
	if len(m.Current.Messages) != 1 {
		t.Fatalf("got %d messages, want only the user's", len(m.Current.Messages))
	}
	if m.Current.Messages[0].Role != RoleUser {
		t.Errorf("surviving message role = %q, want user", m.Current.Messages[0].Role)
	}
}

func TestAbortStream(t *testing.T) {
	m := testModel()
	m.BeginSend("hi")
	m.ApplyStreamContent("partial")

	canceled := false
	m.CancelStream = func() { canceled = true }

	m.AbortStream()

	if !canceled {
		t.Error("pending stream context not canceled")
	}
	if m.CancelStream != nil {
		t.Error("CancelStream not cleared")
	}
	if len(m.Current.Messages) != 1 || m.Current.Messages[0].Role != RoleUser {
		t.Errorf("expected only the user's message to survive, got %+v", m.Current.Messages)
	}
}

func TestReplaceFromServer(t *testing.T) {
	m := testModel()
	m.BeginSend("hi")
	m.FinishStream()

	now := time.Now()
	m.ReplaceFromServer(api.Chat{
		ID:    1,
		Title: "test",
		Messages: []api.Message{
			{ID: 100, Role: "user", Content: "hi", CreatedAt: now},
			{ID: 101, Role: "assistant", Content: "full reply", CreatedAt: now},
		},
	})

	if len(m.Current.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(m.Current.Messages))
	}
	for _, msg := range m.Current.Messages {
		if msg.IsLocal() {
			t.Errorf("local message survived the server replacement: %+v", msg)
		}
	}
	if m.Current.Messages[1].Content != "full reply" {
		t.Errorf("assistant content = %q", m.Current.Messages[1].Content)
	}
}

func TestAppendArenaReplies(t *testing.T) {
	m := testModel()
	m.ArenaMode = true
	m.BeginSend("compare")

	m.AppendArenaReplies([]ChatMessage{
		{ID: 200, Role: RoleAssistant, Content: "a", Meta: Metadata{ComparisonID: "cmp-1"}},
		{ID: 201, Role: RoleAssistant, Content: "b", Meta: Metadata{ComparisonID: "cmp-1"}},
	})

	if m.Streaming {
		t.Error("Streaming flag still set after arena replies landed")
	}
	if len(m.Current.Messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(m.Current.Messages))
	}
	items := BuildRenderList(m.Current.Messages)
	if len(items) != 2 || !items[1].Pair {
		t.Errorf("arena replies did not render as a pair: %+v", items)
	}
}

func TestVoteFinalization(t *testing.T) {
	m := testModel()

	if !m.CanVote("cmp-1") {
		t.Error("fresh pair not votable")
	}
	m.MarkVoted("cmp-1")
	if m.CanVote("cmp-1") {
		t.Error("pair votable after voting")
	}
	m.MarkVoted("cmp-1") // idempotent
	if m.CanVote("cmp-2") {
		// unrelated pair unaffected
	} else {
		t.Error("voting on cmp-1 locked cmp-2")
	}
	if m.CanVote("") {
		t.Error("empty comparison id must never be votable")
	}
}
