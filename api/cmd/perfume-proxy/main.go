package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"perfume-proxy/api/internal/config"
	"perfume-proxy/api/internal/handle"
	"perfume-proxy/api/internal/httpserver"
	"perfume-proxy/api/internal/llm"
	"perfume-proxy/api/internal/llm/claude"
	"perfume-proxy/api/internal/llm/gemini"
	"perfume-proxy/api/internal/logger"
	"perfume-proxy/api/internal/metrics"
	"perfume-proxy/api/internal/prompt"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "perfume-proxy: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.AnthropicAPIKey == "" {
		log.Warn("ANTHROPIC_API_KEY is not set; anthropic lookups will fail")
	}

	prompts, err := prompt.Load(cfg.PromptTemplatePath)
	if err != nil {
		return err
	}

	engines := buildEngines(cfg)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	h := handle.New(engines, prompts, m, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", httpserver.Healthz)
	mux.HandleFunc("/api/search", h.Search)
	mux.HandleFunc("/search", h.Search)
	mux.Handle("/metrics", m.Handler())

	handler := httpserver.WithRequestLog(log, m.Middleware(h.Recover(mux)))
	srv := httpserver.New(cfg.Addr(), handler, cfg.HTTPTimeout)

	log.Info("perfume-proxy starting",
		logger.String("provider", cfg.Provider),
		logger.Any("engines", engines.Names()),
	)
	return httpserver.Run(context.Background(), srv, log, cfg.ShutdownTimeout)
}

// buildEngines anthropic есть всегда, gemini только при наличии ключа.
func buildEngines(cfg *config.Config) *llm.Engines {
	opts := []anthropicopt.RequestOption{
		anthropicopt.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	}
	if cfg.AnthropicBaseURL != "" {
		opts = append(opts, anthropicopt.WithBaseURL(cfg.AnthropicBaseURL))
	}
	list := []llm.Engine{
		claude.New(cfg.AnthropicAPIKey, cfg.AnthropicModel, int64(cfg.MaxTokens), opts...),
	}
	if cfg.GeminiAPIKey != "" {
		list = append(list, gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel, int32(cfg.MaxTokens)))
	}
	return llm.NewEngines(cfg.Provider, list...)
}
