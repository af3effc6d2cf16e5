package storage

import (
	"strings"
	"time"
)

// ChatMatch is one search hit inside a cached chat snapshot.
type ChatMatch struct {
	ChatID       int64
	ChatTitle    string
	MessageIndex int
	Role         string
	Content      string
	Preview      string
	Timestamp    time.Time
}

// SearchIndex searches across all cached chat snapshots.
type SearchIndex struct {
	cache *ChatCache
}

func NewSearchIndex(cache *ChatCache) *SearchIndex {
	return &SearchIndex{cache: cache}
}

// Search returns every message in the cache containing the query,
// case-insensitively. System messages are skipped.
func (si *SearchIndex) Search(query string) ([]ChatMatch, error) {
	if query == "" {
		return []ChatMatch{}, nil
	}

	entries, err := si.cache.List()
	if err != nil {
		return nil, err
	}

	queryLower := strings.ToLower(query)
	var matches []ChatMatch

	for _, entry := range entries {
		chat, err := si.cache.Load(entry.ID)
		if err != nil {
			continue
		}

		for i, msg := range chat.Messages {
			if msg.Role == "system" {
				continue
			}

			if strings.Contains(strings.ToLower(msg.Content), queryLower) {
				preview := msg.Content
				if len(preview) > 100 {
					preview = preview[:100] + "..."
				}

				matches = append(matches, ChatMatch{
					ChatID:       chat.ID,
					ChatTitle:    chat.Title,
					MessageIndex: i,
					Role:         msg.Role,
					Content:      msg.Content,
					Preview:      preview,
					Timestamp:    msg.CreatedAt,
				})
			}
		}
	}

	return matches, nil
}
