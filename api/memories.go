package api

import (
	"context"
	"fmt"
	"net/http"
)

// ListMemories returns the user's memory store entries.
func (c *Client) ListMemories(ctx context.Context) ([]Memory, error) {
	var memories []Memory
	if err := c.doJSON(ctx, http.MethodGet, "/memories", nil, &memories); err != nil {
		return nil, err
	}
	return memories, nil
}

// CreateMemory adds a manual memory entry. A zero confidence lets the
// server apply its default.
func (c *Client) CreateMemory(ctx context.Context, req MemoryCreate) (Memory, error) {
	var memory Memory
	if err := c.doJSON(ctx, http.MethodPost, "/memories", req, &memory); err != nil {
		return Memory{}, err
	}
	return memory, nil
}

// DeleteMemory removes a memory entry.
func (c *Client) DeleteMemory(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/memories/%d", id), nil, nil)
}
