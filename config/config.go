// Package config handles dialogmesh configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hupe1980/dialogmesh/decoder"
	"github.com/hupe1980/dialogmesh/logging"
	"gopkg.in/yaml.v3"
)

// DefaultSearchPaths returns the config file search order:
// ./config.yaml, ~/.config/dialogmesh/config.yaml, /etc/dialogmesh/config.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"config.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "dialogmesh", "config.yaml"))
	}

	paths = append(paths, "/etc/dialogmesh/config.yaml")
	return paths
}

// FindConfig locates a config file. If explicit is non-empty, it must exist.
// Otherwise, searches DefaultSearchPaths and returns the first that exists.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no config file found (searched: %v)", DefaultSearchPaths())
}

// Config holds all dialogmesh configuration.
type Config struct {
	Listen     ListenConfig     `yaml:"listen"`
	Completion CompletionConfig `yaml:"completion"`
	Prompt     PromptConfig     `yaml:"prompt"`
	Decoder    DecoderConfig    `yaml:"decoder"`
	Providers  ProvidersConfig  `yaml:"providers"`
	Session    SessionConfig    `yaml:"session"`
	Log        LogConfig        `yaml:"log"`
}

// ListenConfig configures the HTTP server.
type ListenConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

// Addr returns the listen address in host:port form.
func (l ListenConfig) Addr() string {
	return fmt.Sprintf("%s:%d", l.Address, l.Port)
}

// CompletionConfig selects and configures the completion engine.
type CompletionConfig struct {
	Provider    string  `yaml:"provider"` // openai, anthropic
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int64   `yaml:"max_tokens"`
}

// PromptConfig configures the prompt template. An empty path selects the
// built-in template.
type PromptConfig struct {
	TemplatePath string `yaml:"template_path"`
}

// DecoderConfig selects the completion decoding strategy.
type DecoderConfig struct {
	Format string `yaml:"format"` // function-call, json, plain
}

// ProvidersConfig lists the state and function providers. Order is priority:
// on a name collision the earlier provider wins.
type ProvidersConfig struct {
	StateURLs        []string      `yaml:"state_urls"`
	FunctionURLs     []string      `yaml:"function_urls"`
	VolumeDirectives bool          `yaml:"volume_directives"`
	SystemState      bool          `yaml:"system_state"`
	Timeout          time.Duration `yaml:"timeout"`
}

// SessionConfig selects the history store.
type SessionConfig struct {
	Backend string `yaml:"backend"` // memory, sqlite
	Path    string `yaml:"path"`    // database file for sqlite

	// PruneAfter drops sqlite sessions idle longer than this at startup.
	// Zero keeps every session.
	PruneAfter time.Duration `yaml:"prune_after"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`  // text, json
	Backend string `yaml:"backend"` // slog, zap
}

// Load reads configuration from a YAML file. Environment variables are
// expanded before parsing; omitted settings keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Default returns a default configuration.
func Default() *Config {
	return &Config{
		Listen: ListenConfig{Port: 8080},
		Completion: CompletionConfig{
			Provider:    "openai",
			Model:       "qwen2.5-coder-7b-instruct",
			Temperature: 0.7,
			MaxTokens:   1024,
		},
		Decoder: DecoderConfig{Format: string(decoder.FormatFunctionCall)},
		Providers: ProvidersConfig{
			VolumeDirectives: true,
			SystemState:      true,
			Timeout:          10 * time.Second,
		},
		Session: SessionConfig{Backend: "memory"},
		Log:     LogConfig{Level: "info", Format: "text", Backend: "slog"},
	}
}

// ApplyEnv overrides settings from the environment variables understood by
// earlier deployments: PORT, OPENAI_BASE_URL, OPENAI_API_KEY, OPENAI_MODEL,
// PROMPT_TEMPLATE_PATH and the comma separated PROCESSOR_STATE_SERVER_URLS
// and PROCESSOR_FUNCTION_SERVER_URLS. Unset variables leave values untouched.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Listen.Port = port
	}
	if v, ok := lookup("OPENAI_BASE_URL"); ok {
		c.Completion.BaseURL = v
	}
	if v, ok := lookup("OPENAI_API_KEY"); ok {
		c.Completion.APIKey = v
	}
	if v, ok := lookup("OPENAI_MODEL"); ok && v != "" {
		c.Completion.Model = v
	}
	if v, ok := lookup("PROMPT_TEMPLATE_PATH"); ok {
		c.Prompt.TemplatePath = v
	}
	if v, ok := lookup("PROCESSOR_STATE_SERVER_URLS"); ok {
		c.Providers.StateURLs = splitList(v)
	}
	if v, ok := lookup("PROCESSOR_FUNCTION_SERVER_URLS"); ok {
		c.Providers.FunctionURLs = splitList(v)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Listen.Port < 0 || c.Listen.Port > 65535 {
		return fmt.Errorf("listen.port %d out of range", c.Listen.Port)
	}
	switch c.Completion.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("completion.provider %q unknown (valid: openai, anthropic)", c.Completion.Provider)
	}
	if _, err := decoder.New(decoder.Format(c.Decoder.Format)); err != nil {
		return fmt.Errorf("decoder.format: %w", err)
	}
	switch c.Session.Backend {
	case "memory":
	case "sqlite":
		if c.Session.Path == "" {
			return fmt.Errorf("session.path is required for the sqlite backend")
		}
		if c.Session.PruneAfter < 0 {
			return fmt.Errorf("session.prune_after must not be negative")
		}
	default:
		return fmt.Errorf("session.backend %q unknown (valid: memory, sqlite)", c.Session.Backend)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Backend {
	case "", "slog", "zap":
	default:
		return fmt.Errorf("log.backend %q unknown (valid: slog, zap)", c.Log.Backend)
	}
	return nil
}
