// Package providers holds the configuration shared by the concrete backend
// adapters and small helpers common to them.
package providers

import "time"

// BaseProviderConfig is the configuration every adapter accepts.
type BaseProviderConfig struct {
	APIKey  string        `json:"api_key" yaml:"api_key"`
	BaseURL string        `json:"base_url" yaml:"base_url"`
	Model   string        `json:"model,omitempty" yaml:"model,omitempty"`
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// OpenAIConfig configures the OpenAI adapter. With a custom BaseURL it also
// serves any OpenAI-compatible endpoint (OpenRouter, Groq, vLLM, Ollama).
type OpenAIConfig struct {
	BaseProviderConfig `yaml:",inline"`
	Organization       string `json:"organization,omitempty" yaml:"organization,omitempty"`
	// ProviderName overrides the reported name for compatible endpoints.
	ProviderName string `json:"provider_name,omitempty" yaml:"provider_name,omitempty"`
}

// ClaudeConfig configures the Anthropic adapter.
type ClaudeConfig struct {
	BaseProviderConfig `yaml:",inline"`
	AnthropicVersion   string `json:"anthropic_version,omitempty" yaml:"anthropic_version,omitempty"`
}
