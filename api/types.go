// Package api defines the request and response DTOs of the HTTP surface.
// Wire shapes for nodes and envelopes live in types; this package only adds
// the request-side parameters around them.
package api

import (
	"encoding/json"

	"github.com/BaSui01/uigen/types"
)

// GenerateRequest is the body of POST /v1/ui/generate.
type GenerateRequest struct {
	// Prompt is the natural-language UI request. Required.
	Prompt string `json:"prompt"`

	// History carries prior conversation turns, oldest first.
	History []types.ChatMessage `json:"history,omitempty"`

	// SystemPrompt replaces the default system prompt when set.
	SystemPrompt string `json:"systemPrompt,omitempty"`

	// Provider routes the call to a named configured backend.
	Provider string `json:"provider,omitempty"`

	// Model overrides the configured model for this call.
	Model string `json:"model,omitempty"`

	// Temperature overrides the default sampling temperature. Pointer so
	// that an explicit 0 is distinguishable from unset.
	Temperature *float32 `json:"temperature,omitempty"`

	// MaxTokens caps the completion length when positive.
	MaxTokens int `json:"maxTokens,omitempty"`

	// AutoAssignIDs controls identity normalization. Defaults to true.
	AutoAssignIDs *bool `json:"autoAssignIds,omitempty"`
}

// GenerateResponse is the body of a successful generation.
type GenerateResponse struct {
	Envelope *types.Envelope `json:"envelope"`
}

// NormalizeRequest is the body of POST /v1/ui/normalize: a raw node forest
// to validate and assign identities to. UI stays raw so validation happens
// in one place, with full defaulting.
type NormalizeRequest struct {
	UI json.RawMessage `json:"ui"`
}

// NormalizeResponse returns the validated, normalized forest.
type NormalizeResponse struct {
	UI []types.Node `json:"ui"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status    string                    `json:"status"`
	Providers map[string]ProviderHealth `json:"providers,omitempty"`
}

// ProviderHealth reports one backend probe.
type ProviderHealth struct {
	Healthy   bool   `json:"healthy"`
	LatencyMS int64  `json:"latencyMs"`
	Error     string `json:"error,omitempty"`
}
