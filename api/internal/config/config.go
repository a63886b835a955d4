package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

type Config struct {
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Provider движок по умолчанию: anthropic | gemini.
	Provider  string
	MaxTokens int
	// HTTPTimeout таймаут транспорта до LLM; сам хендлер дедлайнов не ставит.
	HTTPTimeout time.Duration

	AnthropicAPIKey  string
	AnthropicModel   string
	AnthropicBaseURL string
	GeminiAPIKey     string
	GeminiModel      string

	PromptTemplatePath string
}

// loadEnvFiles ENV_FILE, иначе .env.local поверх .env. Отсутствие файлов не ошибка.
func loadEnvFiles() error {
	if f := os.Getenv("ENV_FILE"); f != "" {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", f, err)
		}
		return nil
	}
	for _, f := range []string{".env.local", ".env"} {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) (int, error) {
	v := getEnv(k, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func getEnvDuration(k string, def time.Duration) (time.Duration, error) {
	v := getEnv(k, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}

// Load читает окружение (и .env файлы). Ключ API не обязателен для старта:
// без него каждый запрос к модели вернёт 500.
func Load() (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8000"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Provider: strings.ToLower(getEnv("LLM_PROVIDER", ProviderAnthropic)),

		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:   getEnv("ANTHROPIC_MODEL", "claude-opus-4-6"),
		AnthropicBaseURL: getEnv("ANTHROPIC_BASE_URL", ""),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		PromptTemplatePath: getEnv("PROMPT_TEMPLATE_PATH", ""),
	}

	var err error
	if cfg.MaxTokens, err = getEnvInt("LLM_MAX_TOKENS", 1500); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getEnvDuration("LLM_HTTP_TIMEOUT", 120*time.Second); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic:
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("LLM_PROVIDER=gemini requires GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q; use %q or %q", c.Provider, ProviderAnthropic, ProviderGemini)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("LLM_MAX_TOKENS must be positive, got %d", c.MaxTokens)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("LLM_HTTP_TIMEOUT must not be negative")
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
