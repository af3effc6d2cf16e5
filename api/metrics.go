package api

import (
	"context"
	"net/http"
)

// RecentMetrics returns dashboard metrics over recent assistant messages.
func (c *Client) RecentMetrics(ctx context.Context) (RecentMetrics, error) {
	var m RecentMetrics
	if err := c.doJSON(ctx, http.MethodGet, "/metrics", nil, &m); err != nil {
		return RecentMetrics{}, err
	}
	return m, nil
}

// GlobalMetrics returns system-wide totals. Admin only; non-admin accounts
// get ErrUnauthorized.
func (c *Client) GlobalMetrics(ctx context.Context) (GlobalMetrics, error) {
	var m GlobalMetrics
	if err := c.doJSON(ctx, http.MethodGet, "/metrics/global", nil, &m); err != nil {
		return GlobalMetrics{}, err
	}
	return m, nil
}

// Leaderboard returns the arena model standings.
func (c *Client) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	if err := c.doJSON(ctx, http.MethodGet, "/metrics/leaderboard", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
