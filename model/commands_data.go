package model

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"sctui/api"
	"sctui/config"
)

// FetchMetrics gathers everything the dashboard shows in one command:
// recent metrics and the leaderboard for everyone, plus global totals for
// admin accounts. A forbidden global call on a non-admin account is not an
// error, just an absent section.
func (m *Model) FetchMetrics() tea.Cmd {
	client := m.Client
	isAdmin := m.User.IsAdmin

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		recent, err := client.RecentMetrics(ctx)
		if err != nil {
			return MetricsMsg{Err: err}
		}

		leaderboard, err := client.Leaderboard(ctx)
		if err != nil {
			return MetricsMsg{Err: err}
		}

		var global *api.GlobalMetrics
		if isAdmin {
			g, err := client.GlobalMetrics(ctx)
			switch {
			case err == nil:
				global = &g
			case errors.Is(err, api.ErrUnauthorized) || isForbidden(err):
				// Admin flag out of date; the section is simply absent.
				config.Logf("global metrics refused: %v", err)
			default:
				return MetricsMsg{Err: err}
			}
		}

		return MetricsMsg{Recent: recent, Global: global, Leaderboard: leaderboard}
	}
}

func isForbidden(err error) bool {
	var apiErr *api.APIError
	return errors.As(err, &apiErr) && apiErr.Status == 403
}

// FetchMemories loads the user's memory store.
func (m *Model) FetchMemories() tea.Cmd {
	client := m.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		memories, err := client.ListMemories(ctx)
		return MemoriesMsg{Memories: memories, Err: err}
	}
}

// AddMemory creates a manual memory entry.
func (m *Model) AddMemory(category, key, value string) tea.Cmd {
	client := m.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		memory, err := client.CreateMemory(ctx, api.MemoryCreate{
			Category: category,
			Key:      key,
			Value:    value,
		})
		return MemorySavedMsg{Memory: memory, Err: err}
	}
}

// DeleteMemory removes a memory entry.
func (m *Model) DeleteMemory(id int64) tea.Cmd {
	client := m.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		return MemoryDeletedMsg{ID: id, Err: client.DeleteMemory(ctx, id)}
	}
}
