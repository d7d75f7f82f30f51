package config

import "time"

// DefaultConfig returns the configuration used when neither the YAML file
// nor the environment says otherwise. The provider map is left empty:
// backends are deliberate choices, not defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		LLM: LLMConfig{
			Default:   "openai",
			Providers: map[string]ProviderConfig{},
		},
		Generation: GenerationConfig{
			Temperature:   0.7,
			AutoAssignIDs: true,
		},
		Log: LogConfig{
			Level:       "info",
			Format:      "json",
			OutputPaths: []string{"stdout"},
		},
	}
}
