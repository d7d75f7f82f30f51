// Package factory maps provider names to their constructors. It imports
// the concrete adapter packages so that logic does not have to live in the
// llm package, which would create an import cycle.
package factory

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/uigen/llm"
	"github.com/BaSui01/uigen/providers"
	"github.com/BaSui01/uigen/providers/anthropic"
	"github.com/BaSui01/uigen/providers/openai"
)

// ProviderConfig is the generic configuration accepted by the factory.
type ProviderConfig struct {
	APIKey  string        `json:"api_key" yaml:"api_key"`
	BaseURL string        `json:"base_url" yaml:"base_url"`
	Model   string        `json:"model,omitempty" yaml:"model,omitempty"`
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// New creates a Provider by name. Names outside the built-in set are
// treated as generic OpenAI-compatible endpoints and require a base_url.
//
// Supported names: openai, anthropic, claude.
func New(name string, cfg ProviderConfig, logger *zap.Logger) (llm.Provider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	base := providers.BaseProviderConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	}

	switch name {
	case "openai":
		return openai.New(providers.OpenAIConfig{BaseProviderConfig: base}, logger), nil

	case "anthropic", "claude":
		return anthropic.New(providers.ClaudeConfig{BaseProviderConfig: base}, logger), nil

	default:
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("unknown provider %q: base_url is required for a generic OpenAI-compatible provider", name)
		}
		logger.Info("creating generic OpenAI-compatible provider",
			zap.String("provider", name),
			zap.String("base_url", cfg.BaseURL))
		return openai.New(providers.OpenAIConfig{
			BaseProviderConfig: base,
			ProviderName:       name,
		}, logger), nil
	}
}

// SupportedProviders returns the built-in provider names.
func SupportedProviders() []string {
	return []string{"openai", "anthropic", "claude"}
}

// RegistryConfig describes multiple providers and which one is the default.
type RegistryConfig struct {
	Default   string                    `json:"default" yaml:"default"`
	Providers map[string]ProviderConfig `json:"providers" yaml:"providers"`
}

// NewRegistry builds a ProviderRegistry from a RegistryConfig. Providers
// that fail to initialize are logged and skipped.
func NewRegistry(cfg RegistryConfig, logger *zap.Logger) (*llm.ProviderRegistry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	reg := llm.NewProviderRegistry()
	for name, pcfg := range cfg.Providers {
		p, err := New(name, pcfg, logger)
		if err != nil {
			logger.Warn("skipping provider: initialization failed",
				zap.String("provider", name),
				zap.Error(err))
			continue
		}
		reg.Register(name, p)
	}

	if cfg.Default != "" {
		if err := reg.SetDefault(cfg.Default); err != nil {
			return reg, fmt.Errorf("set default provider %q: %w", cfg.Default, err)
		}
	}
	return reg, nil
}
