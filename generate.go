package uigen

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/uigen/fallback"
	"github.com/BaSui01/uigen/llm"
	"github.com/BaSui01/uigen/normalize"
	"github.com/BaSui01/uigen/schema"
	"github.com/BaSui01/uigen/types"
)

// DefaultSystemPrompt instructs the backend to emit machine-readable UI
// JSON. It is replaced wholesale by WithSystemPrompt, not appended to.
const DefaultSystemPrompt = `You are a UI generation engine. Given a user request, respond with a single JSON object describing a user interface.

The object has a "ui" array of nodes. Each node is {"kind", "props"} where kind is one of: text, heading, button, input, form, list, table, code, container. Containers nest other nodes through props.children; forms nest input nodes through props.fields. You may also set "title", "description", "suggestions" (follow-up prompts the user might click), and "followUpQuestion".

Output only the JSON object. No markdown fences, no commentary, no text before or after.`

const defaultTemperature = 0.7

// Sampling carries per-call backend parameters. A nil Temperature means
// "use the default"; zero is a valid explicit value.
type Sampling struct {
	Model       string
	Temperature *float32
	MaxTokens   int
	TopP        float32
	Extra       map[string]any
}

// GenerateOption configures one Generate or GenerateRaw call.
type GenerateOption func(*genOptions)

type genOptions struct {
	systemPrompt string
	history      []types.ChatMessage
	sampling     Sampling
	providerName string
	autoIDs      bool
}

// WithSystemPrompt replaces the default system prompt for this call.
func WithSystemPrompt(prompt string) GenerateOption {
	return func(o *genOptions) { o.systemPrompt = prompt }
}

// WithHistory inserts prior conversation turns between the system prompt
// and the current user prompt, preserving their order.
func WithHistory(history []types.ChatMessage) GenerateOption {
	return func(o *genOptions) { o.history = history }
}

// WithSampling sets per-call model and sampling parameters.
func WithSampling(s Sampling) GenerateOption {
	return func(o *genOptions) { o.sampling = s }
}

// WithProviderName routes this call to a named provider from the
// Generator's registry instead of the default backend.
func WithProviderName(name string) GenerateOption {
	return func(o *genOptions) { o.providerName = name }
}

// WithoutAutoIDs disables identity normalization, returning node ids
// exactly as the backend (or the fallback synthesizer) produced them.
func WithoutAutoIDs() GenerateOption {
	return func(o *genOptions) { o.autoIDs = false }
}

// Generate produces a validated UI envelope for the prompt. Backend and
// validation failures degrade to the deterministic fallback synthesizer, so
// the returned envelope is always renderable; only an unusable request or
// an unresolvable provider is reported as an error.
func (g *Generator) Generate(ctx context.Context, prompt string, opts ...GenerateOption) (*types.Envelope, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, types.NewError(types.ErrInvalidRequest, "prompt must not be empty")
	}
	o := applyGenOptions(opts)
	provider, err := g.resolveProvider(o)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	outcome := "generated"
	env, err := g.generateOnce(ctx, prompt, o, provider)
	if err != nil {
		code := types.CodeOf(err)
		if code == types.ErrConfiguration || code == types.ErrInvalidRequest {
			g.record(provider, "error", start)
			return nil, err
		}
		g.logger.Warn("generation degraded to fallback",
			zap.String("error_code", string(code)),
			zap.Error(err))
		var rule string
		env, rule = fallback.SynthesizeNamed(prompt)
		outcome = "fallback"
		if g.observer != nil {
			g.observer.RecordFallback(rule)
		}
	}
	g.record(provider, outcome, start)

	if o.autoIDs {
		env = normalize.Envelope(env)
	}
	return env, nil
}

// GenerateRaw produces output validated against a caller-supplied schema.
// There is no fallback and no normalization: the synthesizer only knows the
// built-in envelope shape, so failures propagate as typed errors and the
// decoded value is returned exactly as validated.
func (g *Generator) GenerateRaw(ctx context.Context, prompt string, s schema.Schema, opts ...GenerateOption) (any, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, types.NewError(types.ErrInvalidRequest, "prompt must not be empty")
	}
	if s == nil {
		return nil, types.NewError(types.ErrInvalidRequest, "schema must not be nil")
	}
	o := applyGenOptions(opts)
	provider, err := g.resolveProvider(o)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	raw, err := g.complete(ctx, prompt, o, s, provider)
	if err != nil {
		g.record(provider, "error", start)
		return nil, err
	}
	value, err := s.Validate(raw)
	if err != nil {
		g.record(provider, "error", start)
		return nil, types.NewError(types.ErrSchemaInvalid,
			"backend output does not conform to schema "+s.Name()).WithCause(err)
	}
	g.record(provider, "generated", start)
	return value, nil
}

func (g *Generator) record(provider llm.Provider, outcome string, start time.Time) {
	if g.observer != nil {
		g.observer.RecordGeneration(provider.Name(), outcome, time.Since(start))
	}
}

func applyGenOptions(opts []GenerateOption) *genOptions {
	o := &genOptions{autoIDs: true}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// generateOnce runs the backend and the built-in validator. Both failure
// classes return typed errors so Generate can decide on fallback.
func (g *Generator) generateOnce(ctx context.Context, prompt string, o *genOptions, provider llm.Provider) (*types.Envelope, error) {
	raw, err := g.complete(ctx, prompt, o, schema.Builtin(), provider)
	if err != nil {
		return nil, err
	}
	env, err := schema.DecodeEnvelope(raw)
	if err != nil {
		return nil, types.NewError(types.ErrSchemaInvalid, "backend emitted an invalid envelope").WithCause(err)
	}
	return env, nil
}

// complete assembles the conversation and performs the single suspending
// call of the pipeline.
func (g *Generator) complete(ctx context.Context, prompt string, o *genOptions, s schema.Schema, provider llm.Provider) ([]byte, error) {
	descriptor, err := s.Descriptor().ToJSON()
	if err != nil {
		return nil, types.NewError(types.ErrConfiguration, "encode schema descriptor").WithCause(err)
	}

	temperature := defaultTemperature
	if o.sampling.Temperature != nil {
		temperature = float64(*o.sampling.Temperature)
	}
	model := o.sampling.Model
	if model == "" {
		model = g.model
	}

	req := &llm.ChatRequest{
		Model:              model,
		Messages:           buildMessages(prompt, o),
		MaxTokens:          o.sampling.MaxTokens,
		Temperature:        float32(temperature),
		TopP:               o.sampling.TopP,
		ResponseSchema:     json.RawMessage(descriptor),
		ResponseSchemaName: s.Name(),
		Extra:              o.sampling.Extra,
	}

	start := time.Now()
	resp, err := provider.Completion(ctx, req)
	if err != nil {
		return nil, types.NewError(types.ErrGenerationFailed,
			"backend completion failed").WithCause(err)
	}
	content := resp.FirstContent()
	if strings.TrimSpace(content) == "" {
		return nil, types.NewError(types.ErrGenerationFailed, "backend returned an empty completion")
	}

	g.logger.Debug("completion received",
		zap.String("provider", provider.Name()),
		zap.String("model", resp.Model),
		zap.String("schema", s.Name()),
		zap.Duration("latency", time.Since(start)),
		zap.Int("total_tokens", resp.Usage.TotalTokens))
	if g.observer != nil {
		g.observer.RecordTokens(provider.Name(), resp.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	}

	return []byte(content), nil
}

func (g *Generator) resolveProvider(o *genOptions) (llm.Provider, error) {
	if o.providerName == "" {
		return g.provider, nil
	}
	if g.registry == nil {
		return nil, types.NewError(types.ErrConfiguration,
			"provider selector "+o.providerName+" requires a registry: use WithRegistry")
	}
	p, ok := g.registry.Get(o.providerName)
	if !ok {
		return nil, types.NewError(types.ErrConfiguration, "unknown provider "+o.providerName)
	}
	return p, nil
}

// buildMessages assembles [system] + history + [user], in that order.
func buildMessages(prompt string, o *genOptions) []llm.Message {
	system := o.systemPrompt
	if system == "" {
		system = DefaultSystemPrompt
	}
	msgs := make([]llm.Message, 0, len(o.history)+2)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: system})
	for _, h := range o.history {
		msgs = append(msgs, llm.Message{Role: llm.Role(h.Role), Content: h.Content})
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: prompt})
	return msgs
}
