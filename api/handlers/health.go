package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/uigen/api"
	"github.com/BaSui01/uigen/llm"
)

const probeTimeout = 5 * time.Second

// HealthHandler serves GET /healthz. With ?probe=providers it additionally
// checks every registered backend; the service itself is reported healthy
// regardless, since generation degrades to the fallback synthesizer.
type HealthHandler struct {
	registry *llm.ProviderRegistry
	logger   *zap.Logger
}

// NewHealthHandler creates the health endpoint handler. The registry may be
// nil when the service runs with a single unregistered provider.
func NewHealthHandler(registry *llm.ProviderRegistry, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		registry: registry,
		logger:   logger.With(zap.String("handler", "health")),
	}
}

// ServeHTTP handles the health probe.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := api.HealthResponse{Status: "ok"}

	if r.URL.Query().Get("probe") == "providers" && h.registry != nil {
		resp.Providers = h.probeProviders(r)
	}

	WriteJSON(w, http.StatusOK, resp)
}

func (h *HealthHandler) probeProviders(r *http.Request) map[string]api.ProviderHealth {
	out := make(map[string]api.ProviderHealth)
	for _, name := range h.registry.List() {
		p, ok := h.registry.Get(name)
		if !ok {
			continue
		}

		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		status, err := p.HealthCheck(ctx)
		cancel()

		ph := api.ProviderHealth{}
		if status != nil {
			ph.Healthy = status.Healthy
			ph.LatencyMS = status.Latency.Milliseconds()
		}
		if err != nil {
			ph.Error = err.Error()
			h.logger.Warn("provider health probe failed",
				zap.String("provider", name),
				zap.Error(err))
		}
		out[name] = ph
	}
	return out
}
