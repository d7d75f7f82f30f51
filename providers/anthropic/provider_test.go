package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/uigen/llm"
	"github.com/BaSui01/uigen/providers"
)

func newTestProvider(baseURL string) *Provider {
	return New(providers.ClaudeConfig{
		BaseProviderConfig: providers.BaseProviderConfig{
			APIKey:  "sk-ant-test",
			BaseURL: baseURL,
			Model:   "claude-sonnet-4-20250514",
			Timeout: 5 * time.Second,
		},
	}, nil)
}

const okBody = `{
	"id": "msg-1",
	"model": "claude-sonnet-4-20250514",
	"content": [{"type": "text", "text": "{\"ui\":[]}"}],
	"stop_reason": "end_turn",
	"usage": {"input_tokens": 15, "output_tokens": 25}
}`

func TestCompletionRequestWire(t *testing.T) {
	var got map[string]any
	var header http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Clone()
		assert.Equal(t, "/v1/messages", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(okBody))
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	resp, err := p.Completion(context.Background(), &llm.ChatRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: "machine prompt"},
			{Role: llm.RoleUser, Content: "make a form"},
		},
		MaxTokens: 2048,
	})
	require.NoError(t, err)

	assert.Equal(t, "sk-ant-test", header.Get("x-api-key"))
	assert.Empty(t, header.Get("Authorization"))
	assert.Equal(t, "2023-06-01", header.Get("anthropic-version"))

	// System prompt travels in the dedicated field, not the messages list.
	assert.Equal(t, "machine prompt", got["system"])
	msgs := got["messages"].([]any)
	require.Len(t, msgs, 1)
	assert.Equal(t, "user", msgs[0].(map[string]any)["role"])
	assert.Equal(t, float64(2048), got["max_tokens"])

	require.Len(t, resp.Choices, 1)
	assert.Equal(t, `{"ui":[]}`, resp.Choices[0].Message.Content)
	assert.Equal(t, llm.RoleAssistant, resp.Choices[0].Message.Role)
	assert.Equal(t, 15, resp.Usage.PromptTokens)
	assert.Equal(t, 40, resp.Usage.TotalTokens)
}

func TestCompletionSchemaBecomesSystemInstruction(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(okBody))
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	_, err := p.Completion(context.Background(), &llm.ChatRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: "base prompt"},
			{Role: llm.RoleUser, Content: "go"},
		},
		ResponseSchema: json.RawMessage(`{"type":"object","required":["ui"]}`),
	})
	require.NoError(t, err)

	system := got["system"].(string)
	assert.True(t, strings.HasPrefix(system, "base prompt"))
	assert.Contains(t, system, "JSON Schema")
	assert.Contains(t, system, `"required":["ui"]`)
}

func TestCompletionDefaultMaxTokens(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(okBody))
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	_, err := p.Completion(context.Background(), &llm.ChatRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "go"}},
	})
	require.NoError(t, err)
	// The Messages API rejects requests without max_tokens.
	assert.Equal(t, float64(defaultMaxTokens), got["max_tokens"])
}

func TestCompletionExtraFieldsMerged(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(okBody))
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	_, err := p.Completion(context.Background(), &llm.ChatRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "go"}},
		Extra: map[string]any{
			"top_k": 5,
			"model": "must-not-win",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, float64(5), got["top_k"])
	// Named request fields win over Extra on collision.
	assert.Equal(t, "claude-sonnet-4-20250514", got["model"])
}

func TestCompletionUnencodableExtra(t *testing.T) {
	p := newTestProvider("http://127.0.0.1:1")
	_, err := p.Completion(context.Background(), &llm.ChatRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "go"}},
		Extra:    map[string]any{"bad": make(chan int)},
	})
	require.Error(t, err)

	var lerr *llm.Error
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, llm.ErrInvalidRequest, lerr.Code)
	assert.Equal(t, http.StatusBadRequest, lerr.HTTPStatus)
	assert.Equal(t, "anthropic", lerr.Provider)
}

func TestCompletionConcatenatesTextBlocks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id": "msg-2",
			"model": "m",
			"content": [
				{"type": "text", "text": "{\"ui\":"},
				{"type": "thinking"},
				{"type": "text", "text": "[]}"}
			],
			"stop_reason": "end_turn"
		}`))
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	resp, err := p.Completion(context.Background(), &llm.ChatRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "go"}},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"ui":[]}`, resp.Choices[0].Message.Content)
}

func TestCompletionErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantCode  llm.ErrorCode
		retryable bool
	}{
		{"unauthorized", 401, `{"error":{"type":"authentication_error","message":"invalid key"}}`, llm.ErrUnauthorized, false},
		{"rate limited", 429, `{"error":{"type":"rate_limit_error","message":"slow down"}}`, llm.ErrRateLimited, true},
		{"quota via 400", 400, `{"error":{"type":"invalid_request_error","message":"credit balance is too low"}}`, llm.ErrQuotaExceeded, false},
		{"bad request", 400, `{"error":{"type":"invalid_request_error","message":"model not found"}}`, llm.ErrInvalidRequest, false},
		{"overloaded", 529, `{"error":{"type":"overloaded_error","message":"overloaded"}}`, llm.ErrModelOverloaded, true},
		{"server error", 500, `{"error":{"type":"api_error","message":"oops"}}`, llm.ErrUpstreamError, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := newTestProvider(srv.URL)
			_, err := p.Completion(context.Background(), &llm.ChatRequest{
				Messages: []llm.Message{{Role: llm.RoleUser, Content: "go"}},
			})
			require.Error(t, err)

			var lerr *llm.Error
			require.True(t, errors.As(err, &lerr))
			assert.Equal(t, tt.wantCode, lerr.Code)
			assert.Equal(t, tt.retryable, lerr.Retryable)
			assert.Equal(t, "anthropic", lerr.Provider)
		})
	}
}

func TestSplitSystem(t *testing.T) {
	system, msgs := splitSystem([]llm.Message{
		{Role: llm.RoleSystem, Content: "a"},
		{Role: llm.RoleUser, Content: "q"},
		{Role: llm.RoleSystem, Content: "b"},
		{Role: llm.RoleAssistant, Content: "r"},
		{Role: llm.RoleTool, Content: "tool output"},
	})

	assert.Equal(t, "a\n\nb", system)
	require.Len(t, msgs, 3)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "assistant", msgs[1].Role)
	// Tool results have no native slot in the Messages API.
	assert.Equal(t, "user", msgs[2].Role)
}

func TestHealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		assert.Equal(t, "sk-ant-test", r.Header.Get("x-api-key"))
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	status, err := p.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Healthy)
}
