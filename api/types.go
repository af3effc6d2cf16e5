package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Wire types for the Secure LLM Chat backend. Field names follow the
// server's JSON exactly; the client never reshapes payloads beyond decoding.

// Token is the response of POST /auth/login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// User is the authenticated account as returned by /auth/me and /auth/register.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// ComparisonID correlates the two assistant messages of one arena turn.
// The server has emitted it both as a JSON string and as a number over time,
// so it decodes from either.
type ComparisonID string

func (c *ComparisonID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = ComparisonID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("comparison_id: %w", err)
	}
	*c = ComparisonID(n.String())
	return nil
}

func (c ComparisonID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(c))
}

// MessageMeta is the open-ended meta_data mapping on a message. Only the
// fields the client renders are decoded; everything else stays server-side.
type MessageMeta struct {
	ComparisonID ComparisonID `json:"comparison_id,omitempty"`
	Model        string       `json:"model,omitempty"`
	Provider     string       `json:"provider,omitempty"`
	Style        string       `json:"style,omitempty"`
	Latency      float64      `json:"latency,omitempty"`
	MaskedUsed   bool         `json:"masked_used,omitempty"`
}

// Message is a persisted chat message.
type Message struct {
	ID        int64        `json:"id"`
	ChatID    int64        `json:"chat_id"`
	Role      string       `json:"role"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"created_at"`
	Meta      *MessageMeta `json:"meta_data,omitempty"`
}

// Chat is a conversation. List endpoints may return it without messages.
type Chat struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	UserID    int64     `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages,omitempty"`
}

// SendRequest is the body of both the blocking and streaming send endpoints.
// Setting Models to exactly two entries requests an arena comparison; the
// blocking endpoint then answers with two messages instead of one.
type SendRequest struct {
	Message  string   `json:"message"`
	Style    string   `json:"style,omitempty"`
	Provider string   `json:"provider,omitempty"`
	Model    string   `json:"model,omitempty"`
	Models   []string `json:"models,omitempty"`
}

// VoteType is the outcome recorded for one side of an arena pair.
type VoteType string

const (
	VoteBetter VoteType = "better"
	VoteWorse  VoteType = "worse"
	VoteTie    VoteType = "tie"
)

// Memory is one entry of the user's long-term memory store.
type Memory struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Category   string    `json:"category"`
	Key        string    `json:"key"`
	Value      string    `json:"value"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MemoryCreate is the body of POST /memories.
type MemoryCreate struct {
	Category   string  `json:"category"`
	Key        string  `json:"key"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence,omitempty"`
}

// RecentMetrics is visible to any authenticated user.
type RecentMetrics struct {
	TotalMessages     int64   `json:"total_messages"`
	RecentAvgLatency  float64 `json:"recent_avg_latency"`
	RecentMaskedCount int     `json:"recent_masked_count"`
	SampleSize        int     `json:"sample_size"`
}

// GlobalMetrics requires an admin account.
type GlobalMetrics struct {
	TotalUsers     int64          `json:"total_users"`
	TotalMessages  int64          `json:"total_messages"`
	MaskedMessages int            `json:"masked_messages"`
	TotalTokens    int64          `json:"total_tokens"`
	ModelUsage     map[string]int `json:"model_usage"`
}

// LeaderboardEntry is one row of the arena model leaderboard.
type LeaderboardEntry struct {
	Model  string `json:"model"`
	Votes  int    `json:"votes"`
	Wins   int    `json:"wins,omitempty"`
	Losses int    `json:"losses,omitempty"`
	Ties   int    `json:"ties,omitempty"`
}
