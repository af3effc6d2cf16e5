package model

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"sctui/api"
)

func votablePair(comparisonID string, leftID, rightID int64) RenderItem {
	return RenderItem{
		Pair: true,
		Left: ChatMessage{
			ID: leftID, Role: RoleAssistant,
			Meta: Metadata{ComparisonID: comparisonID, Model: "model-a"},
		},
		Right: ChatMessage{
			ID: rightID, Role: RoleAssistant,
			Meta: Metadata{ComparisonID: comparisonID, Model: "model-b"},
		},
	}
}

func TestSubmitVote_CorrelatedCalls(t *testing.T) {
	tests := []struct {
		name      string
		outcome   VoteOutcome
		wantVotes map[string]string // path -> vote_type
	}{
		{
			name:    "left better",
			outcome: LeftBetter,
			wantVotes: map[string]string{
				"/chats/1/messages/10/vote": "better",
				"/chats/1/messages/11/vote": "worse",
			},
		},
		{
			name:    "right better",
			outcome: RightBetter,
			wantVotes: map[string]string{
				"/chats/1/messages/10/vote": "worse",
				"/chats/1/messages/11/vote": "better",
			},
		},
		{
			name:    "tie",
			outcome: Tie,
			wantVotes: map[string]string{
				"/chats/1/messages/10/vote": "tie",
				"/chats/1/messages/11/vote": "tie",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mu sync.Mutex
			got := make(map[string]string)
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				mu.Lock()
				got[r.URL.Path] = r.URL.Query().Get("vote_type")
				mu.Unlock()
				fmt.Fprint(w, `{"message": "Vote recorded"}`)
			}))
			defer server.Close()

			m := testModel()
			m.Client = api.NewClient(server.URL, api.StaticToken("tok"))

			cmd := m.SubmitVote(votablePair("cmp-1", 10, 11), tt.outcome)
			if cmd == nil {
				t.Fatal("SubmitVote returned no command")
			}

			msg, ok := cmd().(VoteSubmittedMsg)
			if !ok {
				t.Fatal("command did not produce VoteSubmittedMsg")
			}
			if msg.Err != nil {
				t.Fatalf("vote error: %v", msg.Err)
			}
			if msg.ComparisonID != "cmp-1" {
				t.Errorf("comparison id: got %q", msg.ComparisonID)
			}

			mu.Lock()
			defer mu.Unlock()
			if len(got) != len(tt.wantVotes) {
				t.Fatalf("got %d vote calls, want %d: %v", len(got), len(tt.wantVotes), got)
			}
			for path, vote := range tt.wantVotes {
				if got[path] != vote {
					t.Errorf("%s: got vote %q, want %q", path, got[path], vote)
				}
			}
		})
	}
}

func TestSubmitVote_FinalizesOnce(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"message": "Vote recorded"}`)
	}))
	defer server.Close()

	m := testModel()
	m.Client = api.NewClient(server.URL, api.StaticToken("tok"))

	pair := votablePair("cmp-2", 20, 21)
	if cmd := m.SubmitVote(pair, Tie); cmd == nil {
		t.Fatal("first vote refused")
	} else {
		cmd()
	}

	if m.CanVote("cmp-2") {
		t.Error("pair still votable after submission")
	}
	if cmd := m.SubmitVote(pair, LeftBetter); cmd != nil {
		t.Error("second vote on the same pair was accepted")
	}
	if calls != 2 {
		t.Errorf("got %d HTTP calls, want 2", calls)
	}
}
