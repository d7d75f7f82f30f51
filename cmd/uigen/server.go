package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/BaSui01/uigen"
	"github.com/BaSui01/uigen/api/handlers"
	"github.com/BaSui01/uigen/config"
	"github.com/BaSui01/uigen/internal/metrics"
	"github.com/BaSui01/uigen/internal/server"
	"github.com/BaSui01/uigen/llm"
	"github.com/BaSui01/uigen/providers/factory"
)

// Server assembles the provider registry, generator, handlers, and the
// managed HTTP listener.
type Server struct {
	cfg           *config.Config
	logger        *zap.Logger
	manager       *server.Manager
	registry      *llm.ProviderRegistry
	cancelLimiter context.CancelFunc
}

// NewServer builds the full service from configuration.
func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	registry, err := factory.NewRegistry(registryConfig(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("build provider registry: %w", err)
	}

	collector := metrics.NewCollector("uigen", logger)

	generator, err := uigen.New(
		uigen.WithRegistry(registry),
		uigen.WithLogger(logger),
		uigen.WithObserver(collector),
	)
	if err != nil {
		return nil, fmt.Errorf("build generator: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/v1/ui/generate", handlers.NewGenerateHandler(generator, handlers.GenerateDefaults{
		SystemPrompt:  cfg.Generation.SystemPrompt,
		MaxTokens:     cfg.Generation.MaxTokens,
		AutoAssignIDs: cfg.Generation.AutoAssignIDs,
	}, logger))
	mux.Handle("/v1/ui/normalize", handlers.NewNormalizeHandler(logger))
	mux.Handle("/healthz", handlers.NewHealthHandler(registry, logger))
	mux.Handle("/metrics", promhttp.Handler())

	limiterCtx, cancelLimiter := context.WithCancel(context.Background())
	handler := Chain(mux,
		Recovery(logger),
		RequestID(),
		SecurityHeaders(),
		RateLimiter(limiterCtx, 20, 40),
		RequestLogger(logger),
		MetricsMiddleware(collector),
	)

	base := server.DefaultConfig()
	manager := server.NewManager(handler, server.Config{
		Addr:            fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     base.IdleTimeout,
		MaxHeaderBytes:  base.MaxHeaderBytes,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, logger)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		manager:       manager,
		registry:      registry,
		cancelLimiter: cancelLimiter,
	}, nil
}

// Start begins serving without blocking.
func (s *Server) Start() error {
	return s.manager.Start()
}

// WaitForShutdown blocks until a signal or serve error, then drains.
func (s *Server) WaitForShutdown() {
	s.manager.WaitForShutdown()
	s.cancelLimiter()
}
