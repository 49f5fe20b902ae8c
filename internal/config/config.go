// Package config holds the daemon's runtime configuration, parsed from
// DESKAI_-prefixed environment variables (a .env file is loaded first
// at boot).
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"deskai/internal/engine"
)

type Config struct {
	// Dispatch tuning.
	ConfidenceThreshold float64       `env:"DESKAI_CONFIDENCE_THRESHOLD" envDefault:"0.4"`
	ExecutionTimeout    time.Duration `env:"DESKAI_EXECUTION_TIMEOUT" envDefault:"5s"`

	// Transports.
	SocketPath string `env:"DESKAI_SOCKET" envDefault:"/tmp/deskai.sock"`
	BusURL     string `env:"DESKAI_BUS_URL"`

	// NLU collaborator. With no API key the offline rule parser is
	// used instead.
	OpenAIKey    string        `env:"OPENAI_API_KEY"`
	ProxyAddr    string        `env:"DESKAI_PROXY"`
	ProxyTimeout time.Duration `env:"DESKAI_PROXY_TIMEOUT" envDefault:"120s"`

	// Speech output.
	Voice string `env:"DESKAI_VOICE" envDefault:"en"`

	// Fallback phrase overrides; empty keeps the builtin phrase.
	PhraseFailure   string `env:"DESKAI_PHRASE_FAILURE"`
	PhraseTimeout   string `env:"DESKAI_PHRASE_TIMEOUT"`
	PhraseNotFound  string `env:"DESKAI_PHRASE_NOT_FOUND"`
	PhraseAmbiguous string `env:"DESKAI_PHRASE_AMBIGUOUS"`
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.ConfidenceThreshold < 0 || cfg.ConfidenceThreshold > 1 {
		return Config{}, fmt.Errorf("confidence threshold %v out of range", cfg.ConfidenceThreshold)
	}
	return cfg, nil
}

// Phrases collects the non-empty fallback phrase overrides.
func (c Config) Phrases() map[engine.Outcome]string {
	out := make(map[engine.Outcome]string)
	if c.PhraseFailure != "" {
		out[engine.Failure] = c.PhraseFailure
	}
	if c.PhraseTimeout != "" {
		out[engine.Timeout] = c.PhraseTimeout
	}
	if c.PhraseNotFound != "" {
		out[engine.NotFound] = c.PhraseNotFound
	}
	if c.PhraseAmbiguous != "" {
		out[engine.AmbiguousIntent] = c.PhraseAmbiguous
	}
	return out
}
