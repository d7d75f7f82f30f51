// Package llm defines the unified generation backend interface consumed by
// the orchestrator, together with the request/response shapes and the
// structured error model shared by all provider adapters.
package llm

import (
	"context"
	"encoding/json"
	"time"
)

// ErrorCode aligns upstream failures with retryability and HTTP status.
type ErrorCode string

const (
	ErrInvalidRequest      ErrorCode = "LLM_INVALID_REQUEST"
	ErrUnauthorized        ErrorCode = "LLM_UNAUTHORIZED"
	ErrForbidden           ErrorCode = "LLM_FORBIDDEN"
	ErrRateLimited         ErrorCode = "LLM_RATE_LIMITED"
	ErrQuotaExceeded       ErrorCode = "LLM_QUOTA_EXCEEDED"
	ErrModelOverloaded     ErrorCode = "LLM_MODEL_OVERLOADED"
	ErrUpstreamTimeout     ErrorCode = "LLM_UPSTREAM_TIMEOUT"
	ErrUpstreamError       ErrorCode = "LLM_UPSTREAM_ERROR"
	ErrEmptyCompletion     ErrorCode = "LLM_EMPTY_COMPLETION"
	ErrProviderUnavailable ErrorCode = "LLM_PROVIDER_UNAVAILABLE"
)

// Error is the structured failure returned by provider adapters.
type Error struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"http_status,omitempty"`
	Retryable  bool      `json:"retryable"`
	Provider   string    `json:"provider,omitempty"`
}

func (e *Error) Error() string { return e.Message }

// Role represents the role of a message participant.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one conversation turn sent to or received from a backend.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content,omitempty"`
}

// ChatRequest describes a single completion call. When ResponseSchema is
// set, the adapter constrains the backend to emit JSON conforming to it,
// natively where the API supports constrained decoding and via a schema
// instruction otherwise.
//
// Zero-valued sampling fields are omitted from the upstream call rather
// than forced to a provider default. Extra is the escape hatch for
// provider-specific parameters outside the named fields.
type ChatRequest struct {
	Model              string          `json:"model"`
	Messages           []Message       `json:"messages"`
	MaxTokens          int             `json:"max_tokens,omitempty"`
	Temperature        float32         `json:"temperature,omitempty"`
	TopP               float32         `json:"top_p,omitempty"`
	Stop               []string        `json:"stop,omitempty"`
	ResponseSchema     json.RawMessage `json:"response_schema,omitempty"`
	ResponseSchemaName string          `json:"response_schema_name,omitempty"`
	Extra              map[string]any  `json:"extra,omitempty"`
}

// ChatUsage reports token accounting when the backend provides it.
type ChatUsage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// ChatChoice is one completion candidate.
type ChatChoice struct {
	Index        int     `json:"index"`
	FinishReason string  `json:"finish_reason,omitempty"`
	Message      Message `json:"message"`
}

// ChatResponse is the full result of a completion call.
type ChatResponse struct {
	ID        string       `json:"id,omitempty"`
	Provider  string       `json:"provider,omitempty"`
	Model     string       `json:"model"`
	Choices   []ChatChoice `json:"choices"`
	Usage     ChatUsage    `json:"usage,omitempty"`
	CreatedAt time.Time    `json:"created_at,omitempty"`
}

// FirstContent returns the content of the first choice, or "" when the
// response carries no candidate.
func (r *ChatResponse) FirstContent() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// HealthStatus is the result of a provider health probe.
type HealthStatus struct {
	Healthy bool          `json:"healthy"`
	Latency time.Duration `json:"latency"`
}

// Provider is the unified backend adapter interface. The completion call is
// the single suspending operation in the pipeline; cancellation and timeout
// flow through its context and the adapter's HTTP client.
type Provider interface {
	// Completion performs a synchronous chat request.
	Completion(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// HealthCheck performs a lightweight reachability probe.
	HealthCheck(ctx context.Context) (*HealthStatus, error)

	// Name returns the provider's unique identifier.
	Name() string
}
