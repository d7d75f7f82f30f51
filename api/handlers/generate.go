package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/BaSui01/uigen"
	"github.com/BaSui01/uigen/api"
	"github.com/BaSui01/uigen/types"
)

// GenerateDefaults carries configured per-call defaults the request body
// may override.
type GenerateDefaults struct {
	SystemPrompt  string
	MaxTokens     int
	AutoAssignIDs bool
}

// GenerateHandler serves POST /v1/ui/generate.
type GenerateHandler struct {
	generator *uigen.Generator
	defaults  GenerateDefaults
	logger    *zap.Logger
}

// NewGenerateHandler creates the generation endpoint handler.
func NewGenerateHandler(g *uigen.Generator, defaults GenerateDefaults, logger *zap.Logger) *GenerateHandler {
	return &GenerateHandler{
		generator: g,
		defaults:  defaults,
		logger:    logger.With(zap.String("handler", "generate")),
	}
}

// ServeHTTP handles the generation request.
func (h *GenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteErrorMessage(w, types.ErrInvalidRequest, "method not allowed", h.logger)
		return
	}

	var req api.GenerateRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}
	if req.Prompt == "" {
		WriteErrorMessage(w, types.ErrInvalidRequest, "prompt is required", h.logger)
		return
	}

	opts := h.buildOptions(&req)
	env, err := h.generator.Generate(r.Context(), req.Prompt, opts...)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	WriteSuccess(w, api.GenerateResponse{Envelope: env})
}

func (h *GenerateHandler) buildOptions(req *api.GenerateRequest) []uigen.GenerateOption {
	var opts []uigen.GenerateOption

	system := req.SystemPrompt
	if system == "" {
		system = h.defaults.SystemPrompt
	}
	if system != "" {
		opts = append(opts, uigen.WithSystemPrompt(system))
	}

	if len(req.History) > 0 {
		opts = append(opts, uigen.WithHistory(req.History))
	}
	if req.Provider != "" {
		opts = append(opts, uigen.WithProviderName(req.Provider))
	}

	sampling := uigen.Sampling{
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if sampling.MaxTokens == 0 {
		sampling.MaxTokens = h.defaults.MaxTokens
	}
	opts = append(opts, uigen.WithSampling(sampling))

	autoIDs := h.defaults.AutoAssignIDs
	if req.AutoAssignIDs != nil {
		autoIDs = *req.AutoAssignIDs
	}
	if !autoIDs {
		opts = append(opts, uigen.WithoutAutoIDs())
	}
	return opts
}
