package model

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"sctui/api"
	"sctui/config"
	"sctui/storage"
)

// FetchChats retrieves the chat list for the picker.
func (m *Model) FetchChats() tea.Cmd {
	client := m.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		chats, err := client.ListChats(ctx)
		return ChatsListMsg{Chats: chats, Err: err}
	}
}

// LoadChat opens a chat with its full history and refreshes the local
// snapshot cache in passing. Cache write failures are logged, never fatal:
// the cache is a convenience, the server is the source of truth.
func (m *Model) LoadChat(id int64) tea.Cmd {
	client := m.Client
	cache := m.Cache

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		chat, err := client.GetChat(ctx, id)
		if err != nil {
			return ChatLoadedMsg{Err: err}
		}
		if cache != nil {
			if cacheErr := cache.Save(chat); cacheErr != nil {
				config.Logf("chat cache write failed: %v", cacheErr)
			}
		}
		return ChatLoadedMsg{Chat: chat}
	}
}

// CreateChat starts a new conversation on the server.
func (m *Model) CreateChat(title string) tea.Cmd {
	client := m.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		chat, err := client.CreateChat(ctx, title)
		return ChatCreatedMsg{Chat: chat, Err: err}
	}
}

// RenameChat updates a conversation title.
func (m *Model) RenameChat(id int64, title string) tea.Cmd {
	client := m.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		chat, err := client.RenameChat(ctx, id, title)
		return ChatRenamedMsg{Chat: chat, Err: err}
	}
}

// DeleteChat removes a conversation on the server and drops its local
// snapshot.
func (m *Model) DeleteChat(id int64) tea.Cmd {
	client := m.Client
	cache := m.Cache

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		if err := client.DeleteChat(ctx, id); err != nil {
			return ChatDeletedMsg{ID: id, Err: err}
		}
		if cache != nil {
			if err := cache.Delete(id); err != nil {
				config.Logf("chat cache delete failed: %v", err)
			}
		}
		return ChatDeletedMsg{ID: id}
	}
}

// SearchCache looks for a query across locally cached chat snapshots.
func (m *Model) SearchCache(query string) tea.Cmd {
	if m.Cache == nil {
		return nil
	}
	index := storage.NewSearchIndex(m.Cache)
	return func() tea.Msg {
		matches, err := index.Search(query)
		return CacheSearchMsg{Matches: matches, Err: err}
	}
}
