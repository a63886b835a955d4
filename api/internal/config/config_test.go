package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv отвязывает Load от окружения разработчика и .env в каталоге пакета.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "LOG_LEVEL", "LLM_PROVIDER", "LLM_MAX_TOKENS", "LLM_HTTP_TIMEOUT",
		"SHUTDOWN_TIMEOUT", "ANTHROPIC_API_KEY", "ANTHROPIC_MODEL", "ANTHROPIC_BASE_URL",
		"GEMINI_API_KEY", "GEMINI_MODEL", "PROMPT_TEMPLATE_PATH",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "none.env"))
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, ":8000", cfg.Addr())
	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, "claude-opus-4-6", cfg.AnthropicModel)
	assert.Equal(t, 1500, cfg.MaxTokens)
	assert.Equal(t, 120*time.Second, cfg.HTTPTimeout)
	assert.Empty(t, cfg.AnthropicAPIKey)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("LLM_MAX_TOKENS", "800")
	t.Setenv("LLM_HTTP_TIMEOUT", "30s")
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "sk-test", cfg.AnthropicAPIKey)
	assert.Equal(t, 800, cfg.MaxTokens)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, ProviderGemini, cfg.Provider)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv не перетирает уже заданные переменные, поэтому пустую убираем.
	require.NoError(t, os.Unsetenv("ANTHROPIC_API_KEY"))

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("ANTHROPIC_API_KEY=from-file\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	t.Cleanup(func() { _ = os.Unsetenv("ANTHROPIC_API_KEY") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.AnthropicAPIKey)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown provider", map[string]string{"LLM_PROVIDER": "yandex"}},
		{"gemini without key", map[string]string{"LLM_PROVIDER": "gemini"}},
		{"bad max tokens", map[string]string{"LLM_MAX_TOKENS": "lots"}},
		{"zero max tokens", map[string]string{"LLM_MAX_TOKENS": "0"}},
		{"bad timeout", map[string]string{"LLM_HTTP_TIMEOUT": "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
