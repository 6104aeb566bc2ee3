package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"STYLIST_MODE", "STYLIST_LLM_BACKEND", "STYLIST_STORAGE_BACKEND", "REDIS_HOST", "REDIS_PORT", "STYLIST_MAX_TOKENS"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ModeProduction, cfg.Mode)
	assert.Equal(t, "6000", cfg.Port)
	assert.Equal(t, "gpt-3.5-turbo", cfg.ModelName)
	assert.Equal(t, 100, cfg.MaxTokens)
	assert.Equal(t, 5, cfg.SearchLimit)
	assert.Equal(t, StorageRedis, cfg.StorageBackend)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
}

func TestLoadLocalModeUsesMockAndMemory(t *testing.T) {
	clearEnv(t)
	t.Setenv("STYLIST_MODE", "local")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, LLMBackendMock, cfg.LLMBackend)
	assert.Equal(t, StorageMemory, cfg.StorageBackend)
}

func TestLoadRequiresOpenAIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Load("")
	assert.ErrorContains(t, err, "OPENAI_API_KEY")
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stylist.yaml")
	content := []byte(`
llm_backend: mock
storage_backend: memory
max_tokens: 250
session_ttl: 2h
search_base_url: http://search.local/q/
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	clearEnv(t)
	t.Setenv("STYLIST_MAX_TOKENS", "150")
	t.Setenv("REDIS_HOST", "redis.internal")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 150, cfg.MaxTokens)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "http://search.local/q/", cfg.SearchBaseURL)
	assert.Equal(t, "redis.internal:6379", cfg.RedisAddr())
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("STYLIST_MODE", "local")
	t.Setenv("STYLIST_MAX_TOKENS", "lots")

	_, err := Load("")
	assert.ErrorContains(t, err, "STYLIST_MAX_TOKENS")
}

func TestValidateUnknownBackends(t *testing.T) {
	cfg := defaults(ModeLocal)
	cfg.StorageBackend = "cassandra"
	assert.Error(t, cfg.Validate())

	cfg = defaults(ModeLocal)
	cfg.LLMBackend = LLMBackendVertex
	assert.ErrorContains(t, cfg.Validate(), "STYLIST_GCP_PROJECT")
}
