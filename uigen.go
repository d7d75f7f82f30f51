// Package uigen turns a natural-language request into a validated,
// recursively structured UI description suitable for deterministic
// rendering.
//
// The pipeline is: assemble the conversation, invoke a generation backend
// constrained to the envelope schema, validate the raw output, and assign
// stable identities to every node. When the backend fails or emits
// something invalid, a deterministic keyword-driven synthesizer produces an
// approximate envelope instead, so callers on the built-in schema always
// receive a renderable forest.
//
// Usage:
//
//	g, err := uigen.New(uigen.WithOpenAI("gpt-4o-mini"))
//	env, err := g.Generate(ctx, "Build a pricing table with 3 tiers")
package uigen

import (
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/uigen/llm"
	"github.com/BaSui01/uigen/providers/factory"
	"github.com/BaSui01/uigen/types"
)

// Observer receives pipeline instrumentation events. All methods may be
// called concurrently.
type Observer interface {
	RecordGeneration(provider, outcome string, duration time.Duration)
	RecordTokens(provider, model string, promptTokens, completionTokens int)
	RecordFallback(rule string)
}

// Generator orchestrates generation, validation, normalization, and
// fallback synthesis. It is safe for concurrent use; all per-request state
// lives on the stack.
type Generator struct {
	provider llm.Provider
	registry *llm.ProviderRegistry
	model    string
	logger   *zap.Logger
	observer Observer
}

// Option configures the Generator created by New.
type Option func(*options)

type options struct {
	provider llm.Provider
	registry *llm.ProviderRegistry
	model    string
	logger   *zap.Logger
	observer Observer

	// Provider shortcut fields, used when provider is nil.
	providerName string
	apiKey       string
	baseURL      string
}

// WithProvider sets a pre-built generation backend.
func WithProvider(p llm.Provider) Option {
	return func(o *options) { o.provider = p }
}

// WithRegistry sets a provider registry. Per-call provider selectors are
// resolved against it; its default provider is used when no explicit
// backend is configured.
func WithRegistry(reg *llm.ProviderRegistry) Option {
	return func(o *options) { o.registry = reg }
}

// WithOpenAI selects the OpenAI backend with the given model. The API key
// is read from OPENAI_API_KEY unless overridden by WithAPIKey.
func WithOpenAI(model string) Option {
	return func(o *options) {
		o.providerName = "openai"
		o.model = model
		if o.apiKey == "" {
			o.apiKey = os.Getenv("OPENAI_API_KEY")
		}
	}
}

// WithAnthropic selects the Anthropic backend with the given model. The API
// key is read from ANTHROPIC_API_KEY unless overridden by WithAPIKey.
func WithAnthropic(model string) Option {
	return func(o *options) {
		o.providerName = "anthropic"
		o.model = model
		if o.apiKey == "" {
			o.apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
}

// WithAPIKey overrides the API key for provider shortcuts.
func WithAPIKey(key string) Option {
	return func(o *options) { o.apiKey = key }
}

// WithBaseURL overrides the backend endpoint for provider shortcuts.
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithModel sets the default model for all calls.
func WithModel(model string) Option {
	return func(o *options) { o.model = model }
}

// WithLogger sets a custom zap logger. Defaults to zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithObserver attaches an instrumentation sink, typically the service
// metrics collector.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// New creates a Generator. A generation backend must be reachable: either a
// pre-built provider, a registry with a default, or a provider shortcut
// with an API key. Anything less is a configuration error, reported here
// rather than surfaced as fallback output later.
func New(opts ...Option) (*Generator, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	p := o.provider
	if p == nil && o.providerName != "" {
		if o.apiKey == "" {
			return nil, types.NewError(types.ErrConfiguration,
				"API key is required for "+o.providerName+": set the environment variable or use WithAPIKey")
		}
		var err error
		p, err = factory.New(o.providerName, factory.ProviderConfig{
			APIKey:  o.apiKey,
			BaseURL: o.baseURL,
			Model:   o.model,
		}, o.logger)
		if err != nil {
			return nil, types.NewError(types.ErrConfiguration, "create provider").WithCause(err)
		}
	}
	if p == nil && o.registry != nil {
		if dp, err := o.registry.Default(); err == nil {
			p = dp
		}
	}
	if p == nil {
		return nil, types.NewError(types.ErrConfiguration,
			"generation backend is required: use WithProvider, WithRegistry, WithOpenAI, or WithAnthropic")
	}

	return &Generator{
		provider: p,
		registry: o.registry,
		model:    o.model,
		logger:   o.logger,
		observer: o.observer,
	}, nil
}
