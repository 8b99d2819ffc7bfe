// Package webhook talks to the chat workflow backend.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrNotConfigured indicates no webhook URL was set.
var ErrNotConfigured = errors.New("chat webhook URL is not configured")

// replyKeys lists, in order of preference, the fields a workflow may put its
// reply in.
var replyKeys = []string{"output", "response", "message", "text"}

// Request is the payload posted for each chat turn.
type Request struct {
	ChatInput string `json:"chatInput"`
	SessionID string `json:"sessionId"`
}

// Client posts chat turns to the workflow webhook.
type Client struct {
	client *resty.Client
	url    string
	logger *zap.Logger
}

// New creates a Client. A nil logger disables logging.
func New(url string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{client: client, url: url, logger: logger}
}

// Send posts one user message and returns the assistant's raw reply text.
func (c *Client) Send(ctx context.Context, sessionID, input string) (string, error) {
	if c.url == "" {
		return "", ErrNotConfigured
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(Request{ChatInput: input, SessionID: sessionID}).
		Post(c.url)
	if err != nil {
		return "", fmt.Errorf("chat webhook request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("chat webhook returned %s: %s", resp.Status(), truncate(resp.String(), 200))
	}

	reply := ExtractReply(resp.Body())
	c.logger.Debug("chat webhook replied",
		zap.String("session_id", sessionID),
		zap.Int("bytes", len(resp.Body())),
		zap.Duration("elapsed", time.Since(start)))
	return reply, nil
}

// ExtractReply pulls the reply text out of a webhook response: the first
// non-empty reply field of an object, or of the first element of an array.
// Any other body is returned as text.
func ExtractReply(body []byte) string {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return strings.TrimSpace(string(body))
	}
	if arr, ok := v.([]interface{}); ok && len(arr) > 0 {
		v = arr[0]
	}
	if obj, ok := v.(map[string]interface{}); ok {
		for _, key := range replyKeys {
			if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	if s, ok := v.(string); ok {
		return s
	}
	return strings.TrimSpace(string(body))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
