package model

import "time"

// groupWindow is the display-only window within which consecutive same-role
// messages collapse their header (avatar/timestamp) into the previous one.
const groupWindow = 2 * time.Minute

// RenderItem is one visual unit of the chat transcript: either a single
// message or a side-by-side arena pair.
type RenderItem struct {
	Left  ChatMessage
	Right ChatMessage // valid only when Pair is set
	Pair  bool

	// Grouped marks a single message whose header should be suppressed
	// because the previously emitted item is a same-role message close in
	// time. Never set on pairs.
	Grouped bool
}

// ComparisonID returns the pair's correlation id, or "" for singles.
func (r RenderItem) ComparisonID() string {
	if !r.Pair {
		return ""
	}
	return r.Left.Meta.ComparisonID
}

// BuildRenderList folds a flat ordered message list into render units.
//
// One left-to-right scan: an assistant message carrying a comparison id
// merges with the immediately following message when that message is also
// an assistant reply with the same id, preserving left/right order and
// skipping the partner. Everything else is emitted individually. An orphaned
// comparison id (partner missing, mismatched, or separated by another
// message) degrades to a normal single message.
//
// Matching is deliberately adjacency-only; the backend always persists a
// pair back to back, and a whole-list search would change semantics if it
// ever did not.
func BuildRenderList(msgs []ChatMessage) []RenderItem {
	items := make([]RenderItem, 0, len(msgs))
	var prev *ChatMessage // last individually emitted message

	for i := 0; i < len(msgs); i++ {
		m := msgs[i]

		if m.Role == RoleAssistant && m.Meta.ComparisonID != "" && i+1 < len(msgs) {
			next := msgs[i+1]
			if next.Role == RoleAssistant && next.Meta.ComparisonID == m.Meta.ComparisonID {
				items = append(items, RenderItem{Left: m, Right: next, Pair: true})
				prev = nil
				i++ // skip the partner
				continue
			}
		}

		grouped := prev != nil &&
			prev.Role == m.Role &&
			absDuration(m.CreatedAt.Sub(prev.CreatedAt)) <= groupWindow

		items = append(items, RenderItem{Left: m, Grouped: grouped})
		prev = &msgs[i]
	}

	return items
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
