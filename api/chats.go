package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// CreateChat starts a new conversation.
func (c *Client) CreateChat(ctx context.Context, title string) (Chat, error) {
	body := struct {
		Title string `json:"title"`
	}{title}

	var chat Chat
	if err := c.doJSON(ctx, http.MethodPost, "/chats", body, &chat); err != nil {
		return Chat{}, err
	}
	return chat, nil
}

// ListChats returns the user's conversations, without message bodies.
func (c *Client) ListChats(ctx context.Context) ([]Chat, error) {
	var chats []Chat
	if err := c.doJSON(ctx, http.MethodGet, "/chats", nil, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// GetChat returns one conversation with its full message list. This is also
// the re-synchronisation call after a stream completes: the persisted
// assistant message replaces the local placeholder wholesale.
func (c *Client) GetChat(ctx context.Context, id int64) (Chat, error) {
	var chat Chat
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/chats/%d", id), nil, &chat); err != nil {
		return Chat{}, err
	}
	return chat, nil
}

// RenameChat updates a conversation title.
func (c *Client) RenameChat(ctx context.Context, id int64, title string) (Chat, error) {
	body := struct {
		Title string `json:"title"`
	}{title}

	var chat Chat
	if err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/chats/%d", id), body, &chat); err != nil {
		return Chat{}, err
	}
	return chat, nil
}

// DeleteChat removes a conversation.
func (c *Client) DeleteChat(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/chats/%d", id), nil, nil)
}

// SendMessage performs a blocking (non-streaming) send. The response is one
// assistant message in the normal flow, or an array of two when the request
// carried a model pair; both shapes decode into the returned slice, so
// len(result) == 2 implies an arena comparison.
func (c *Client) SendMessage(ctx context.Context, chatID int64, req SendRequest) ([]Message, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	path := fmt.Sprintf("/chats/%d/messages", chatID)
	httpReq, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := decodeError(resp)
		c.logf("[api] POST %s -> %v", path, err)
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read POST %s response: %w", path, err)
	}
	return decodeMessages(body)
}

// decodeMessages accepts either a single message object or an array of
// messages and normalises both to a slice.
func decodeMessages(body []byte) ([]Message, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var msgs []Message
		if err := json.Unmarshal(trimmed, &msgs); err != nil {
			return nil, fmt.Errorf("decode message array: %w", err)
		}
		return msgs, nil
	}

	var msg Message
	if err := json.Unmarshal(trimmed, &msg); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	return []Message{msg}, nil
}

// Vote records an arena outcome for one message. The two correlated calls
// for a pair (better+worse, or tie+tie) are the caller's responsibility;
// this is a single fire-and-forget submission.
func (c *Client) Vote(ctx context.Context, chatID, messageID int64, vote VoteType) error {
	path := fmt.Sprintf("/chats/%d/messages/%d/vote?%s",
		chatID, messageID, url.Values{"vote_type": {string(vote)}}.Encode())
	return c.doJSON(ctx, http.MethodPost, path, nil, nil)
}
