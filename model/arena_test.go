package model

import (
	"testing"
	"time"
)

func assistant(id int64, comparisonID string, at time.Time) ChatMessage {
	return ChatMessage{
		ID:        id,
		Role:      RoleAssistant,
		Content:   "reply",
		CreatedAt: at,
		Meta:      Metadata{ComparisonID: comparisonID},
	}
}

func user(id int64, at time.Time) ChatMessage {
	return ChatMessage{ID: id, Role: RoleUser, Content: "question", CreatedAt: at}
}

func TestBuildRenderList(t *testing.T) {
	base := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		msgs []ChatMessage
		want []struct {
			id   int64
			pair bool
		}
	}{
		{
			name: "adjacent same id pairs",
			msgs: []ChatMessage{
				user(1, base),
				assistant(2, "cmp-7", base),
				assistant(3, "cmp-7", base),
			},
			want: []struct {
				id   int64
				pair bool
			}{{1, false}, {2, true}},
		},
		{
			name: "orphan at end stays single",
			msgs: []ChatMessage{
				assistant(1, "cmp-7", base),
				user(2, base),
			},
			want: []struct {
				id   int64
				pair bool
			}{{1, false}, {2, false}},
		},
		{
			name: "differing ids never merge",
			msgs: []ChatMessage{
				assistant(1, "cmp-7", base),
				assistant(2, "cmp-8", base),
			},
			want: []struct {
				id   int64
				pair bool
			}{{1, false}, {2, false}},
		},
		{
			name: "user message between partners breaks the pair",
			msgs: []ChatMessage{
				assistant(1, "cmp-7", base),
				user(2, base),
				assistant(3, "cmp-7", base),
			},
			want: []struct {
				id   int64
				pair bool
			}{{1, false}, {2, false}, {3, false}},
		},
		{
			name: "plain assistant next to tagged one stays single",
			msgs: []ChatMessage{
				assistant(1, "cmp-7", base),
				assistant(2, "", base),
			},
			want: []struct {
				id   int64
				pair bool
			}{{1, false}, {2, false}},
		},
		{
			name: "two pairs back to back",
			msgs: []ChatMessage{
				assistant(1, "cmp-1", base),
				assistant(2, "cmp-1", base),
				assistant(3, "cmp-2", base),
				assistant(4, "cmp-2", base),
			},
			want: []struct {
				id   int64
				pair bool
			}{{1, true}, {3, true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := BuildRenderList(tt.msgs)
			if len(items) != len(tt.want) {
				t.Fatalf("got %d items, want %d", len(items), len(tt.want))
			}
			for i, w := range tt.want {
				if items[i].Left.ID != w.id {
					t.Errorf("item %d: left id = %d, want %d", i, items[i].Left.ID, w.id)
				}
				if items[i].Pair != w.pair {
					t.Errorf("item %d: pair = %v, want %v", i, items[i].Pair, w.pair)
				}
			}
		})
	}
}

func TestBuildRenderList_PairOrderAndID(t *testing.T) {
	base := time.Now()
	items := BuildRenderList([]ChatMessage{
		assistant(10, "cmp-42", base),
		assistant(11, "cmp-42", base),
	})
	if len(items) != 1 || !items[0].Pair {
		t.Fatalf("expected a single pair, got %+v", items)
	}
	if items[0].Left.ID != 10 || items[0].Right.ID != 11 {
		t.Errorf("pair order flipped: left=%d right=%d", items[0].Left.ID, items[0].Right.ID)
	}
	if got := items[0].ComparisonID(); got != "cmp-42" {
		t.Errorf("ComparisonID() = %q, want cmp-42", got)
	}
}

func TestBuildRenderList_Grouping(t *testing.T) {
	base := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		msgs []ChatMessage
		want []bool // grouped flag per item
	}{
		{
			name: "same role within window groups",
			msgs: []ChatMessage{
				user(1, base),
				user(2, base.Add(30*time.Second)),
			},
			want: []bool{false, true},
		},
		{
			name: "gap past the window breaks the group",
			msgs: []ChatMessage{
				user(1, base),
				user(2, base.Add(5*time.Minute)),
			},
			want: []bool{false, false},
		},
		{
			name: "role change breaks the group",
			msgs: []ChatMessage{
				user(1, base),
				assistant(2, "", base.Add(10*time.Second)),
				assistant(3, "", base.Add(20*time.Second)),
			},
			want: []bool{false, false, true},
		},
		{
			name: "pair resets grouping for what follows",
			msgs: []ChatMessage{
				assistant(1, "", base),
				assistant(2, "cmp-1", base.Add(5*time.Second)),
				assistant(3, "cmp-1", base.Add(5*time.Second)),
				assistant(4, "", base.Add(10*time.Second)),
			},
			want: []bool{false, false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := BuildRenderList(tt.msgs)
			if len(items) != len(tt.want) {
				t.Fatalf("got %d items, want %d", len(items), len(tt.want))
			}
			for i, w := range tt.want {
				if items[i].Grouped != w {
					t.Errorf("item %d: grouped = %v, want %v", i, items[i].Grouped, w)
				}
			}
		})
	}
}
