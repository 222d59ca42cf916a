package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds the application configuration. Environment variables are
// parsed from the JORNASA_ prefix, e.g. JORNASA_WORKER_BASE_URL.
//
// Backend choices are per entity family. The defaults mirror the shipped
// product configuration: pautas and fontes talk to the worker while
// templates, notifications and chat storage stay local.
type Config struct {
	// WorkerBaseURL is the worker API endpoint, used by every family whose
	// backend is "worker" and by the chat AI call regardless of backend.
	WorkerBaseURL string `envconfig:"WORKER_BASE_URL" default:"https://jornasa-worker.jornabot.workers.dev"`

	// APIToken is the bearer token for worker calls. Empty means
	// unauthenticated (local development workers only).
	APIToken string `envconfig:"API_TOKEN" default:""`

	// DataDir overrides where the local sqlite store lives. Empty resolves
	// to ~/.jornasa.
	DataDir string `envconfig:"DATA_DIR" default:""`

	// UserID selects the storage partition; empty falls back to the
	// single-tenant local-user sentinel.
	UserID string `envconfig:"USER_ID" default:""`

	PautasBackend       string `envconfig:"PAUTAS_BACKEND" default:"worker"`
	FontesBackend       string `envconfig:"FONTES_BACKEND" default:"worker"`
	TemplatesBackend    string `envconfig:"TEMPLATES_BACKEND" default:"local"`
	NotificacoesBackend string `envconfig:"NOTIFICACOES_BACKEND" default:"local"`
	ChatBackend         string `envconfig:"CHAT_BACKEND" default:"local"`

	// ChatCacheSize bounds the LRU reply cache.
	ChatCacheSize int `envconfig:"CHAT_CACHE_SIZE" default:"256"`

	Debug bool `envconfig:"DEBUG" default:"false"`
}

var validBackends = map[string]bool{"local": true, "worker": true}

// New creates a Config by parsing JORNASA_-prefixed environment variables.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("JORNASA", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("worker_base_url", cfg.WorkerBaseURL).
		Str("pautas_backend", cfg.PautasBackend).
		Str("fontes_backend", cfg.FontesBackend).
		Str("templates_backend", cfg.TemplatesBackend).
		Str("notificacoes_backend", cfg.NotificacoesBackend).
		Str("chat_backend", cfg.ChatBackend).
		Int("chat_cache_size", cfg.ChatCacheSize).
		Msg("configuration loaded")

	return &cfg, nil
}

// Validate checks every backend choice.
func (c *Config) Validate() error {
	for name, value := range map[string]string{
		"JORNASA_PAUTAS_BACKEND":       c.PautasBackend,
		"JORNASA_FONTES_BACKEND":       c.FontesBackend,
		"JORNASA_TEMPLATES_BACKEND":    c.TemplatesBackend,
		"JORNASA_NOTIFICACOES_BACKEND": c.NotificacoesBackend,
		"JORNASA_CHAT_BACKEND":         c.ChatBackend,
	} {
		if !validBackends[value] {
			return fmt.Errorf("unsupported backend %q for %s", value, name)
		}
	}
	if c.ChatCacheSize <= 0 {
		return fmt.Errorf("JORNASA_CHAT_CACHE_SIZE must be positive")
	}
	return nil
}

// NewForTesting creates a config with every family on the local backend.
func NewForTesting() *Config {
	return &Config{
		WorkerBaseURL:       "http://localhost:8787",
		PautasBackend:       "local",
		FontesBackend:       "local",
		TemplatesBackend:    "local",
		NotificacoesBackend: "local",
		ChatBackend:         "local",
		ChatCacheSize:       256,
	}
}
