package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractReply(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"output field", `{"output":"Hello"}`, "Hello"},
		{"preference order", `{"text":"t","message":"m","response":"r"}`, "r"},
		{"skips blank", `{"output":"  ","message":"m"}`, "m"},
		{"array", `[{"output":"first"},{"output":"second"}]`, "first"},
		{"json string", `"plain reply"`, "plain reply"},
		{"no known field", `{"answer":"x"}`, `{"answer":"x"}`},
		{"not json", "  raw text reply \n", "raw text reply"},
		{"empty array", `[]`, `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractReply([]byte(tt.body)))
		})
	}
}

func TestSend(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"output":"Here is Kleo X58"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, 2*time.Second, nil)
	reply, err := c.Send(context.Background(), "s-1", "Tell me about Kleo")
	require.NoError(t, err)

	assert.Equal(t, "Here is Kleo X58", reply)
	assert.Equal(t, Request{ChatInput: "Tell me about Kleo", SessionID: "s-1"}, got)
}

func TestSendErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "workflow crashed", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second, nil).Send(context.Background(), "s-1", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")

	_, err = New("", time.Second, nil).Send(context.Background(), "s-1", "hi")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
