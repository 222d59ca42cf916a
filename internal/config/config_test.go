package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "https://jornasa-worker.jornabot.workers.dev", cfg.WorkerBaseURL)
	assert.Equal(t, "worker", cfg.PautasBackend)
	assert.Equal(t, "worker", cfg.FontesBackend)
	assert.Equal(t, "local", cfg.TemplatesBackend)
	assert.Equal(t, "local", cfg.NotificacoesBackend)
	assert.Equal(t, "local", cfg.ChatBackend)
	assert.Equal(t, 256, cfg.ChatCacheSize)
	assert.Empty(t, cfg.APIToken)
	assert.False(t, cfg.Debug)
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv("JORNASA_WORKER_BASE_URL", "http://localhost:8787")
	t.Setenv("JORNASA_PAUTAS_BACKEND", "local")
	t.Setenv("JORNASA_CHAT_BACKEND", "worker")
	t.Setenv("JORNASA_API_TOKEN", "segredo")
	t.Setenv("JORNASA_CHAT_CACHE_SIZE", "32")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8787", cfg.WorkerBaseURL)
	assert.Equal(t, "local", cfg.PautasBackend)
	assert.Equal(t, "worker", cfg.ChatBackend)
	assert.Equal(t, "segredo", cfg.APIToken)
	assert.Equal(t, 32, cfg.ChatCacheSize)
}

func TestNew_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("JORNASA_FONTES_BACKEND", "nuvem")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JORNASA_FONTES_BACKEND")
}

func TestValidate_RejectsNonPositiveCacheSize(t *testing.T) {
	cfg := NewForTesting()
	cfg.ChatCacheSize = 0
	assert.Error(t, cfg.Validate())
}

func TestNewForTesting_IsFullyLocal(t *testing.T) {
	cfg := NewForTesting()
	require.NoError(t, cfg.Validate())
	for _, backend := range []string{cfg.PautasBackend, cfg.FontesBackend, cfg.TemplatesBackend, cfg.NotificacoesBackend, cfg.ChatBackend} {
		assert.Equal(t, "local", backend)
	}
}
