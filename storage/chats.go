package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"sctui/api"
)

// ChatCache keeps local JSON snapshots of server chats, one file per chat.
// The server is always the source of truth; the cache exists for offline
// search and a faster cold start of the chat list.
type ChatCache struct {
	chatsDir string
}

// CacheEntry is a lightweight description of a cached chat for listing.
type CacheEntry struct {
	ID           int64
	Title        string
	UpdatedAt    time.Time
	MessageCount int
}

// NewChatCache creates the cache under dataDir.
func NewChatCache(dataDir string) (*ChatCache, error) {
	chatsDir := filepath.Join(dataDir, "chats")

	// 0700 - snapshots contain conversation history
	if err := os.MkdirAll(chatsDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create chat cache directory: %w", err)
	}

	return &ChatCache{chatsDir: chatsDir}, nil
}

func (c *ChatCache) path(id int64) string {
	return filepath.Join(c.chatsDir, fmt.Sprintf("%d.json", id))
}

// Save writes a chat snapshot to disk.
func (c *ChatCache) Save(chat api.Chat) error {
	data, err := json.MarshalIndent(chat, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal chat: %w", err)
	}

	// 0600 - conversation history is sensitive
	if err := os.WriteFile(c.path(chat.ID), data, 0600); err != nil {
		return fmt.Errorf("failed to write chat snapshot: %w", err)
	}

	return nil
}

// Load reads a chat snapshot from disk.
func (c *ChatCache) Load(id int64) (api.Chat, error) {
	data, err := os.ReadFile(c.path(id))
	if err != nil {
		return api.Chat{}, fmt.Errorf("failed to read chat snapshot: %w", err)
	}

	var chat api.Chat
	if err := json.Unmarshal(data, &chat); err != nil {
		return api.Chat{}, fmt.Errorf("failed to unmarshal chat snapshot: %w", err)
	}

	return chat, nil
}

// List returns entries for all cached chats, newest first.
func (c *ChatCache) List() ([]CacheEntry, error) {
	files, err := os.ReadDir(c.chatsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read chat cache directory: %w", err)
	}

	var entries []CacheEntry

	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}

		id, err := strconv.ParseInt(strings.TrimSuffix(f.Name(), ".json"), 10, 64)
		if err != nil {
			continue // not a snapshot file
		}

		chat, err := c.Load(id)
		if err != nil {
			continue // skip corrupted snapshots
		}

		entries = append(entries, CacheEntry{
			ID:           chat.ID,
			Title:        chat.Title,
			UpdatedAt:    chat.UpdatedAt,
			MessageCount: len(chat.Messages),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})

	return entries, nil
}

// Delete removes a chat snapshot. Deleting a snapshot that was never cached
// is not an error.
func (c *ChatCache) Delete(id int64) error {
	err := os.Remove(c.path(id))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
