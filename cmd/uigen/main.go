// Command uigen runs the UI generation service.
//
// Usage:
//
//	uigen serve                         # start the HTTP service
//	uigen serve --config config.yaml    # with a config file
//	uigen generate --prompt "..."       # one-shot generation to stdout
//	uigen version                       # show version information
//	uigen health                        # probe a running service
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/uigen"
	"github.com/BaSui01/uigen/config"
	"github.com/BaSui01/uigen/providers/factory"
)

// Version information, injected at build time.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		runServe(os.Args[2:])
	case "generate":
		runGenerate(os.Args[2:])
	case "version":
		printVersion()
	case "health":
		runHealthCheck(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := cfg.Log.BuildLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting uigen",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit))

	server, err := NewServer(cfg, logger)
	if err != nil {
		logger.Fatal("failed to build server", zap.Error(err))
	}
	if err := server.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
	server.WaitForShutdown()

	logger.Info("uigen stopped")
}

func runGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	prompt := fs.String("prompt", "", "Natural-language UI request")
	providerName := fs.String("provider", "", "Provider name override")
	model := fs.String("model", "", "Model override")
	fs.Parse(args)

	if *prompt == "" {
		fmt.Fprintln(os.Stderr, "generate: --prompt is required")
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := zap.NewNop()
	registry, err := factory.NewRegistry(registryConfig(cfg), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build providers: %v\n", err)
		os.Exit(1)
	}

	g, err := uigen.New(uigen.WithRegistry(registry), uigen.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build generator: %v\n", err)
		os.Exit(1)
	}

	var opts []uigen.GenerateOption
	if *providerName != "" {
		opts = append(opts, uigen.WithProviderName(*providerName))
	}
	if cfg.Generation.SystemPrompt != "" {
		opts = append(opts, uigen.WithSystemPrompt(cfg.Generation.SystemPrompt))
	}
	opts = append(opts, uigen.WithSampling(uigen.Sampling{
		Model:     *model,
		MaxTokens: cfg.Generation.MaxTokens,
	}))
	if !cfg.Generation.AutoAssignIDs {
		opts = append(opts, uigen.WithoutAutoIDs())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	env, err := g.Generate(ctx, *prompt, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generation failed: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Encode failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func runHealthCheck(args []string) {
	fs := flag.NewFlagSet("health", flag.ExitOnError)
	addr := fs.String("addr", "http://localhost:8080", "Server address")
	fs.Parse(args)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(*addr + "/healthz")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Health check failed: status %d\n", resp.StatusCode)
		os.Exit(1)
	}
	fmt.Println("OK")
}

func loadConfig(path string) (*config.Config, error) {
	loader := config.NewLoader()
	if path != "" {
		loader = loader.WithConfigPath(path)
	}
	return loader.Load()
}

// registryConfig maps the service config onto the provider factory shape.
func registryConfig(cfg *config.Config) factory.RegistryConfig {
	rc := factory.RegistryConfig{
		Default:   cfg.LLM.Default,
		Providers: make(map[string]factory.ProviderConfig, len(cfg.LLM.Providers)),
	}
	for name, pc := range cfg.LLM.Providers {
		rc.Providers[name] = factory.ProviderConfig{
			APIKey:  pc.APIKey,
			BaseURL: pc.BaseURL,
			Model:   pc.Model,
			Timeout: pc.Timeout,
		}
	}
	return rc
}

func printVersion() {
	fmt.Printf("uigen %s\n", Version)
	fmt.Printf("  Build Time: %s\n", BuildTime)
	fmt.Printf("  Git Commit: %s\n", GitCommit)
}

func printUsage() {
	fmt.Println(`uigen - structured UI generation service

Usage:
  uigen <command> [options]

Commands:
  serve     Start the HTTP service
  generate  One-shot generation to stdout
  version   Show version information
  health    Check a running service
  help      Show this help message

Options for 'serve':
  --config <path>     Path to configuration file (YAML)

Options for 'generate':
  --config <path>     Path to configuration file (YAML)
  --prompt <text>     Natural-language UI request (required)
  --provider <name>   Provider name override
  --model <name>      Model override

Examples:
  uigen serve --config /etc/uigen/config.yaml
  uigen generate --prompt "Build a signup form with email and password"
  uigen health --addr http://localhost:8080`)
}
