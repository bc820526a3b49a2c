package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFindConfigExplicit(t *testing.T) {
	path := writeConfig(t, "listen:\n  port: 9999\n")

	got, err := FindConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	_, err = FindConfig("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestFindConfigCWD(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{}"), 0o600))
	t.Chdir(dir)

	got, err := FindConfig("")
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", got)
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8080, cfg.Listen.Port)
	assert.Equal(t, "qwen2.5-coder-7b-instruct", cfg.Completion.Model)
	assert.Equal(t, "function-call", cfg.Decoder.Format)
	assert.True(t, cfg.Providers.VolumeDirectives)
}

func TestLoadKeepsDefaultsAndExpandsEnv(t *testing.T) {
	t.Setenv("DM_TEST_KEY", "secret")
	path := writeConfig(t, `
completion:
  api_key: ${DM_TEST_KEY}
  model: local
providers:
  state_urls: [http://a/state]
  timeout: 3s
session:
  backend: sqlite
  path: /tmp/s.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "secret", cfg.Completion.APIKey)
	assert.Equal(t, "local", cfg.Completion.Model)
	assert.Equal(t, "openai", cfg.Completion.Provider)
	assert.Equal(t, []string{"http://a/state"}, cfg.Providers.StateURLs)
	assert.Equal(t, 3*time.Second, cfg.Providers.Timeout)
	assert.Equal(t, 8080, cfg.Listen.Port)
	assert.Equal(t, ":8080", cfg.Listen.Addr())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "listen: [broken"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":                           "9090",
		"OPENAI_MODEL":                   "m",
		"PROCESSOR_STATE_SERVER_URLS":    "http://a, http://b,",
		"PROCESSOR_FUNCTION_SERVER_URLS": "",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	cfg := Default()
	cfg.Providers.FunctionURLs = []string{"http://keep"}
	require.NoError(t, cfg.ApplyEnv(lookup))

	assert.Equal(t, 9090, cfg.Listen.Port)
	assert.Equal(t, "m", cfg.Completion.Model)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.Providers.StateURLs)
	assert.Empty(t, cfg.Providers.FunctionURLs)

	env["PORT"] = "x"
	assert.Error(t, cfg.ApplyEnv(lookup))
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(c *Config){
		"provider":       func(c *Config) { c.Completion.Provider = "nope" },
		"decoder":        func(c *Config) { c.Decoder.Format = "xml" },
		"session":        func(c *Config) { c.Session.Backend = "redis" },
		"sqlite no path": func(c *Config) { c.Session.Backend = "sqlite" },
		"log level":      func(c *Config) { c.Log.Level = "loud" },
		"log backend":    func(c *Config) { c.Log.Backend = "logrus" },
		"port":           func(c *Config) { c.Listen.Port = 70000 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadSessionPruneAfter(t *testing.T) {
	path := writeConfig(t, "session:\n  backend: sqlite\n  path: /tmp/s.db\n  prune_after: 720h\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 720*time.Hour, cfg.Session.PruneAfter)
	require.NoError(t, cfg.Validate())

	cfg.Session.PruneAfter = -time.Hour
	assert.Error(t, cfg.Validate())
}
