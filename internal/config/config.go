// Package config loads qgen's settings from a YAML file and QGEN_*
// environment variables. Secrets are read here once and handed to
// constructors; the process environment is never written.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/qgen/internal/llm"
)

// Config is the full application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	LLM        llm.Config       `yaml:"llm"`
	Generation GenerationConfig `yaml:"generation"`
	Store      StoreConfig      `yaml:"store"`
	Log        LogConfig        `yaml:"log"`
	Secrets    Secrets          `yaml:"secrets"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`

	// SessionIdleTimeout drops browser sessions not seen for this long.
	SessionIdleTimeout time.Duration `yaml:"session_idle_timeout"`
}

type GenerationConfig struct {
	// Timeout bounds one generation end to end. Zero means no bound beyond
	// the provider's own.
	Timeout     time.Duration `yaml:"timeout"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
}

type StoreConfig struct {
	// Path of the SQLite event log. Empty resolves to the XDG data dir.
	Path     string `yaml:"path"`
	Disabled bool   `yaml:"disabled"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Secrets holds API keys. A provider-specific key wins over APIKey.
type Secrets struct {
	APIKey           string `yaml:"api_key"`
	OpenAIAPIKey     string `yaml:"openai_api_key"`
	AnthropicAPIKey  string `yaml:"anthropic_api_key"`
	GeminiAPIKey     string `yaml:"gemini_api_key"`
	OpenRouterAPIKey string `yaml:"openrouter_api_key"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:               "127.0.0.1:8501",
			SessionIdleTimeout: 2 * time.Hour,
		},
		LLM: llm.DefaultConfig(),
		Generation: GenerationConfig{
			MaxTokens:   8192,
			Temperature: 0.7,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// DefaultPath returns where Load looks when no path is given: QGEN_CONFIG,
// then $XDG_CONFIG_HOME/qgen/config.yaml, then ~/.config/qgen/config.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv("QGEN_CONFIG"); p != "" {
		return p, nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "qgen", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "qgen", "config.yaml"), nil
}

// Load builds the configuration from defaults, the YAML file at path and
// the environment, in that order. An explicit path must exist; the default
// path is optional.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// No config file; defaults and env only.
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	return ApplyEnv(cfg), nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overrides cfg with QGEN_* environment variables.
func ApplyEnv(cfg Config) Config {
	cfg.LLM = llm.ApplyEnv(cfg.LLM)

	if v := os.Getenv("QGEN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("QGEN_DB"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("QGEN_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("QGEN_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("QGEN_GENERATION_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Generation.Timeout = d
		}
	}
	return cfg
}

// APIKey returns the key for the selected provider: the provider-specific
// secret, then secrets.api_key, then the provider's environment variables.
func (c Config) APIKey() string {
	var specific string
	switch c.LLM.Provider {
	case llm.ProviderOpenAI:
		specific = c.Secrets.OpenAIAPIKey
	case llm.ProviderAnthropic:
		specific = c.Secrets.AnthropicAPIKey
	case llm.ProviderGemini:
		specific = c.Secrets.GeminiAPIKey
	case llm.ProviderOpenRouter:
		specific = c.Secrets.OpenRouterAPIKey
	}
	if specific != "" {
		return specific
	}
	if c.Secrets.APIKey != "" {
		return c.Secrets.APIKey
	}
	return llm.APIKeyFromEnv(c.LLM.Provider)
}

// LLMConfig returns the provider configuration with the API key filled in.
func (c Config) LLMConfig() llm.Config {
	return c.LLM.WithAPIKey(c.APIKey())
}

// Validate checks settings that would otherwise fail at first use.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr must not be empty")
	}
	if c.Generation.Timeout < 0 {
		return fmt.Errorf("generation.timeout must not be negative, got %s", c.Generation.Timeout)
	}
	if c.Generation.MaxTokens < 0 {
		return fmt.Errorf("generation.max_tokens must not be negative, got %d", c.Generation.MaxTokens)
	}
	return c.LLMConfig().Validate()
}
