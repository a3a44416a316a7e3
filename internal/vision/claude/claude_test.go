package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"id":    "msg_1",
			"type":  "message",
			"role":  "assistant",
			"model": "test",
			"content": []map[string]any{
				{"type": "text", "text": "Bolt M6 | 4 | hex head\nHex Nut M6 | 4 |"},
			},
			"stop_reason": "end_turn",
			"usage":       map[string]int{"input_tokens": 1, "output_tokens": 1},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	a := New("sk-test", "claude-3-5-haiku-latest", anthropic.WithBaseURL(server.URL))

	result, err := a.Analyze(context.Background(), bytes.NewReader([]byte{0xFF, 0xD8}), "image/jpeg")
	require.NoError(t, err)
	require.Len(t, result.Candidates, 2)
	assert.Equal(t, "Bolt M6", result.Candidates[0].Name)
	assert.Equal(t, "4", result.Candidates[0].Quantity)
	assert.Equal(t, "hex head", result.Candidates[0].Notes)
	assert.Equal(t, "Hex Nut M6", result.Candidates[1].Name)
}

func TestAnalyzeAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"rate limited"}}`))
	}))
	defer server.Close()

	a := New("sk-test", "claude-3-5-haiku-latest", anthropic.WithBaseURL(server.URL))

	_, err := a.Analyze(context.Background(), bytes.NewReader([]byte{0xFF, 0xD8}), "image/jpeg")
	assert.Error(t, err)
}
