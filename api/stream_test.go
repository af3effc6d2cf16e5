package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// streamHandler writes the given byte slices to the response in order,
// flushing between writes so each slice arrives as its own chunk.
func streamHandler(t *testing.T, chunks [][]byte) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			t.Fatal("response writer does not support flushing")
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		for _, chunk := range chunks {
			if _, err := w.Write(chunk); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// collect drains the event channel, returning all contents and the terminal
// error (nil for a clean close).
func collect(t *testing.T, events <-chan StreamEvent) ([]string, error) {
	t.Helper()
	var contents []string
	for ev := range events {
		if ev.Err != nil {
			return contents, ev.Err
		}
		contents = append(contents, ev.Content)
	}
	return contents, nil
}

func startStream(t *testing.T, handler http.HandlerFunc) (<-chan StreamEvent, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	client := NewClient(server.URL, StaticToken("test-token"))

	events, err := client.StreamMessage(context.Background(), 1, SendRequest{Message: "hi"})
	if err != nil {
		server.Close()
		t.Fatalf("StreamMessage: %v", err)
	}
	return events, server.Close
}

func TestStreamMessage_AccumulatesDeltas(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		want   string
	}{
		{
			name: "one block per chunk",
			chunks: []string{
				"data: {\"delta\": \"Hello\"}\n\n",
				"data: {\"delta\": \", world\"}\n\n",
				"data: {\"done\": true}\n\n",
			},
			want: "Hello, world",
		},
		{
			name: "block split mid-payload",
			chunks: []string{
				"data: {\"del",
				"ta\": \"Hel",
				"lo\"}\n\n",
				"data: {\"delta\": \"!\"}\n\n",
			},
			want: "Hello!",
		},
		{
			name: "delimiter split across chunks",
			chunks: []string{
				"data: {\"delta\": \"a\"}\n",
				"\ndata: {\"delta\": \"b\"}\n\n",
			},
			want: "ab",
		},
		{
			// The rune "і" (0xD1 0x96) is split between two chunks.
			name: "multi-byte rune split across chunks",
			chunks: []string{
				"data: {\"delta\": \"прив\xd1",
				"\x96т\"}\n\n",
				"data: {\"delta\": \"!\"}\n\n",
			},
			want: "привіт!",
		},
		{
			name: "done before further content",
			chunks: []string{
				"data: {\"delta\": \"first\"}\n\n",
				"data: {\"done\": true}\n\n",
				"data: {\"delta\": \" second\"}\n\n",
			},
			want: "first second",
		},
		{
			name: "final block unterminated at close",
			chunks: []string{
				"data: {\"delta\": \"tail\"}",
			},
			want: "tail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw [][]byte
			for _, c := range tt.chunks {
				raw = append(raw, []byte(c))
			}

			events, closeServer := startStream(t, streamHandler(t, raw))
			defer closeServer()

			contents, err := collect(t, events)
			if err != nil {
				t.Fatalf("unexpected stream error: %v", err)
			}
			if len(contents) == 0 {
				t.Fatal("no events received")
			}

			final := contents[len(contents)-1]
			if final != tt.want {
				t.Errorf("final content: got %q, want %q", final, tt.want)
			}

			// Content grows monotonically: each event is a prefix of the next.
			for i := 1; i < len(contents); i++ {
				if !strings.HasPrefix(contents[i], contents[i-1]) {
					t.Errorf("event %d %q is not an extension of %q", i, contents[i], contents[i-1])
				}
			}
		})
	}
}

// The same block sequence must decode identically no matter how the bytes
// are split across chunk boundaries.
func TestStreamMessage_SplitInvariance(t *testing.T) {
	stream := "data: {\"delta\": \"héllo \"}\n\ndata: {\"delta\": \"wörld\"}\n\ndata: {\"done\": true}\n\n"
	const want = "héllo wörld"

	for _, size := range []int{1, 2, 3, 5, 7, len(stream)} {
		var chunks [][]byte
		raw := []byte(stream)
		for start := 0; start < len(raw); start += size {
			end := start + size
			if end > len(raw) {
				end = len(raw)
			}
			chunks = append(chunks, raw[start:end])
		}

		events, closeServer := startStream(t, streamHandler(t, chunks))
		contents, err := collect(t, events)
		closeServer()

		if err != nil {
			t.Fatalf("chunk size %d: stream error: %v", size, err)
		}
		if final := contents[len(contents)-1]; final != want {
			t.Errorf("chunk size %d: got %q, want %q", size, final, want)
		}
	}
}

func TestStreamMessage_DiscardsForeignBlocks(t *testing.T) {
	chunks := [][]byte{
		[]byte(": keepalive comment\n\n"),
		[]byte("event: ping\n\n"),
		[]byte("data: {\"delta\": \"kept\"}\n\n"),
		[]byte("retry: 3000\n\n"),
	}

	events, closeServer := startStream(t, streamHandler(t, chunks))
	defer closeServer()

	contents, err := collect(t, events)
	if err != nil {
		t.Fatalf("unexpected stream error: %v", err)
	}
	if len(contents) != 1 || contents[0] != "kept" {
		t.Errorf("got %v, want exactly [\"kept\"]", contents)
	}
}

func TestStreamMessage_SkipsMalformedJSON(t *testing.T) {
	chunks := [][]byte{
		[]byte("data: {\"delta\": \"before\"}\n\n"),
		[]byte("data: {not json at all\n\n"),
		[]byte("data: {\"delta\": \" after\"}\n\n"),
	}

	events, closeServer := startStream(t, streamHandler(t, chunks))
	defer closeServer()

	contents, err := collect(t, events)
	if err != nil {
		t.Fatalf("malformed block aborted the stream: %v", err)
	}
	if final := contents[len(contents)-1]; final != "before after" {
		t.Errorf("got %q, want %q", final, "before after")
	}
}

func TestStreamMessage_LeadingWhitespaceBeforeTag(t *testing.T) {
	chunks := [][]byte{
		[]byte("  data: {\"delta\": \"trimmed\"}\n\n"),
	}

	events, closeServer := startStream(t, streamHandler(t, chunks))
	defer closeServer()

	contents, err := collect(t, events)
	if err != nil {
		t.Fatalf("unexpected stream error: %v", err)
	}
	if len(contents) != 1 || contents[0] != "trimmed" {
		t.Errorf("got %v, want [\"trimmed\"]", contents)
	}
}

func TestStreamMessage_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "Chat not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticToken("test-token"))
	events, err := client.StreamMessage(context.Background(), 42, SendRequest{Message: "hi"})
	if err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
	if events != nil {
		t.Error("no event channel should be returned on transport failure")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestStreamMessage_Cancellation(t *testing.T) {
	firstBlock := make(chan struct{})
	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("data: {\"delta\": \"partial\"}\n\n"))
		flusher.Flush()
		close(firstBlock)
		<-release // hold the connection open until the test ends
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	client := NewClient(server.URL, StaticToken("test-token"))

	events, err := client.StreamMessage(ctx, 1, SendRequest{Message: "hi"})
	if err != nil {
		t.Fatalf("StreamMessage: %v", err)
	}

	select {
	case ev := <-events:
		if ev.Err != nil || ev.Content != "partial" {
			t.Fatalf("unexpected first event: %+v", ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for first event")
	}

	<-firstBlock
	cancel()

	_, err = collect(t, events)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("terminal event error: got %v, want context.Canceled", err)
	}
}

func TestBlockReader_MultiLineBlock(t *testing.T) {
	r := newBlockReader(strings.NewReader("data: line one\ndata-ish second\n\nnext\n\n"))

	first, err := r.next()
	if err != nil {
		t.Fatalf("first block: %v", err)
	}
	if got := string(first); got != "data: line one\ndata-ish second" {
		t.Errorf("first block: got %q", got)
	}

	second, err := r.next()
	if err != nil {
		t.Fatalf("second block: %v", err)
	}
	if got := string(second); got != "next" {
		t.Errorf("second block: got %q", got)
	}
}
