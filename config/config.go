// Package config loads and validates service configuration.
//
// Precedence: built-in defaults, then the YAML file, then environment
// variable overrides. ${VAR} references inside the YAML file are expanded
// from the environment before parsing, so secrets stay out of the file.
package config

import (
	"time"

	"go.uber.org/zap"
)

// Config is the full service configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server" env:"SERVER"`
	LLM        LLMConfig        `yaml:"llm" env:"LLM"`
	Generation GenerationConfig `yaml:"generation" env:"GENERATION"`
	Log        LogConfig        `yaml:"log" env:"LOG"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	HTTPPort        int           `yaml:"http_port" env:"HTTP_PORT" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
}

// ProviderConfig configures one generation backend.
type ProviderConfig struct {
	APIKey  string        `yaml:"api_key" env:"API_KEY"`
	BaseURL string        `yaml:"base_url" env:"BASE_URL" validate:"omitempty,url"`
	Model   string        `yaml:"model" env:"MODEL"`
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// LLMConfig names the configured backends and which one is the default.
// Map entries cannot be overridden through the environment; use ${VAR}
// expansion in the YAML file for per-provider secrets.
type LLMConfig struct {
	Default   string                    `yaml:"default" env:"DEFAULT" validate:"required"`
	Providers map[string]ProviderConfig `yaml:"providers" validate:"min=1,dive"`
}

// GenerationConfig sets pipeline-wide generation behavior.
type GenerationConfig struct {
	SystemPrompt  string  `yaml:"system_prompt" env:"SYSTEM_PROMPT"`
	Temperature   float64 `yaml:"temperature" env:"TEMPERATURE" validate:"gte=0,lte=2"`
	MaxTokens     int     `yaml:"max_tokens" env:"MAX_TOKENS" validate:"gte=0"`
	AutoAssignIDs bool    `yaml:"auto_assign_ids" env:"AUTO_ASSIGN_IDS"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level            string   `yaml:"level" env:"LEVEL" validate:"oneof=debug info warn error"`
	Format           string   `yaml:"format" env:"FORMAT" validate:"oneof=json console"`
	OutputPaths      []string `yaml:"output_paths" env:"OUTPUT_PATHS" validate:"min=1"`
	EnableCaller     bool     `yaml:"enable_caller" env:"ENABLE_CALLER"`
	EnableStacktrace bool     `yaml:"enable_stacktrace" env:"ENABLE_STACKTRACE"`
}

// BuildLogger constructs a zap logger from the log section.
func (c LogConfig) BuildLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if c.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	zc.OutputPaths = c.OutputPaths
	zc.DisableCaller = !c.EnableCaller
	zc.DisableStacktrace = !c.EnableStacktrace
	return zc.Build()
}
