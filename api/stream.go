package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxBlockSize caps a single stream block so a misbehaving server cannot
// grow the read buffer without bound.
const maxBlockSize = 64 * 1024

// StreamEvent is one update from an in-flight assistant reply.
//
// Content carries the full text accumulated so far, not the latest delta:
// consumers replace the in-progress message's content wholesale on every
// event. A non-nil Err is terminal; the channel closes right after it.
// A clean close without an Err means the stream ended normally and the
// caller should re-fetch the chat for the authoritative persisted message.
type StreamEvent struct {
	Content string
	Err     error
}

// streamPayload is the JSON carried by one data block.
type streamPayload struct {
	Delta string `json:"delta"`
	Done  bool   `json:"done"`
}

// StreamMessage sends content to a chat and consumes the server's streamed
// reply. The response body is framed as blank-line-separated blocks of the
// form "data: {json}"; each block's delta is appended to a running total and
// the total is emitted on the returned channel.
//
// The channel is a finite, non-restartable sequence: it closes after the
// stream ends, errors, or ctx is cancelled. Cancelling ctx aborts the
// underlying read; the terminal event then carries context.Canceled, which
// callers treat as a silent abort rather than a failure.
//
// A non-2xx status or a missing body fails before any event is produced.
func (c *Client) StreamMessage(ctx context.Context, chatID int64, req SendRequest) (<-chan StreamEvent, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	path := fmt.Sprintf("/chats/%d/messages/stream", chatID)
	httpReq, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Cache-Control", "no-cache")

	resp, err := c.streamClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		err := decodeError(resp)
		c.logf("[stream] chat %d: %v", chatID, err)
		return nil, err
	}
	if resp.Body == nil {
		return nil, ErrNoBody
	}

	events := make(chan StreamEvent, 16)
	go func() {
		defer close(events)
		defer resp.Body.Close()
		c.consumeStream(ctx, resp.Body, events)
	}()
	return events, nil
}

// consumeStream runs the read loop. Bytes are buffered until a complete
// block is available, so multi-byte runes and delimiters split across chunk
// boundaries reassemble before any text is interpreted.
func (c *Client) consumeStream(ctx context.Context, body io.Reader, events chan<- StreamEvent) {
	reader := newBlockReader(body)
	var total strings.Builder

	for {
		block, err := reader.next()

		if len(block) > 0 {
			delta, ok := c.parseBlock(block)
			if ok && delta != "" {
				total.WriteString(delta)
				events <- StreamEvent{Content: total.String()}
			}
		}

		if err != nil {
			if err == io.EOF {
				return // normal termination: connection closed
			}
			// Cancellation surfaces as a read failure; report the context
			// error itself so callers can tell an abort from a transport
			// fault with errors.Is.
			if ctxErr := ctx.Err(); ctxErr != nil {
				events <- StreamEvent{Err: ctxErr}
				return
			}
			events <- StreamEvent{Err: err}
			return
		}
	}
}

// parseBlock extracts the delta from one block. Blocks without the data tag
// are discarded silently; malformed JSON is logged and skipped. Neither
// aborts the stream. A done marker carries no content and reading continues,
// since the server may still send further blocks after it.
func (c *Client) parseBlock(block []byte) (delta string, ok bool) {
	trimmed := bytes.TrimLeft(block, " \t\r\n")
	if !bytes.HasPrefix(trimmed, []byte("data:")) {
		return "", false
	}
	payload := bytes.TrimSpace(trimmed[len("data:"):])
	if len(payload) == 0 {
		return "", false
	}

	var p streamPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.logf("[stream] skipping malformed block: %v", err)
		return "", false
	}
	if p.Done {
		return "", false
	}
	return p.Delta, true
}

// blockReader splits a byte stream into blocks delimited by a blank line
// (two consecutive newlines). It reads incrementally and keeps any trailing
// partial block buffered for the next call.
type blockReader struct {
	reader *bufio.Reader
}

func newBlockReader(r io.Reader) *blockReader {
	return &blockReader{reader: bufio.NewReader(r)}
}

// next returns the next complete block, without its trailing blank line.
// At end of stream it returns any final unterminated block alongside io.EOF;
// subsequent calls return io.EOF with no block.
func (b *blockReader) next() ([]byte, error) {
	var block []byte

	for {
		line, err := b.reader.ReadBytes('\n')
		if len(line) > 0 {
			trimmed := bytes.TrimRight(line, "\r\n")
			if len(trimmed) == 0 && err == nil {
				// Blank line: end of block. Leading blank lines between
				// blocks produce empty reads; skip them.
				if len(block) == 0 {
					continue
				}
				return block, nil
			}
			if len(trimmed) > 0 {
				if len(block) > 0 {
					block = append(block, '\n')
				}
				block = append(block, trimmed...)
				if len(block) > maxBlockSize {
					return nil, fmt.Errorf("stream block exceeds %d bytes", maxBlockSize)
				}
			}
		}
		if err != nil {
			return block, err
		}
	}
}
