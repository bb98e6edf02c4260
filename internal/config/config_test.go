package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/qgen/internal/llm"
)

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"QGEN_CONFIG", "QGEN_ADDR", "QGEN_DB", "QGEN_LOG_LEVEL", "QGEN_LOG_FORMAT",
		"QGEN_GENERATION_TIMEOUT", "QGEN_LLM_PROVIDER", "QGEN_LLM_TIMEOUT", "QGEN_LLM_MAX_ATTEMPTS",
		"QGEN_OPENAI_MODEL", "QGEN_OPENAI_BASE_URL", "QGEN_ANTHROPIC_MODEL", "QGEN_GEMINI_MODEL",
		"QGEN_OPENROUTER_MODEL", "QGEN_OPENAI_API_KEY", "OPENAI_API_KEY", "QGEN_ANTHROPIC_API_KEY",
		"ANTHROPIC_API_KEY", "QGEN_GEMINI_API_KEY", "GEMINI_API_KEY", "QGEN_OPENROUTER_API_KEY",
		"OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, 1, cfg.LLM.Retry.MaxAttempts)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  addr: ":9000"
llm:
  provider: anthropic
  anthropic:
    model: claude-sonnet
  timeout: 90s
  retry:
    max_attempts: 3
generation:
  timeout: 2m
store:
  disabled: true
log:
  level: debug
  format: json
secrets:
  api_key: sk-generic
  anthropic_api_key: sk-ant
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 2*time.Hour, cfg.Server.SessionIdleTimeout, "unset fields keep defaults")
	assert.Equal(t, llm.ProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, "claude-sonnet", cfg.LLM.Anthropic.Model)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
	assert.Equal(t, 2*time.Minute, cfg.Generation.Timeout)
	assert.True(t, cfg.Store.Disabled)
	assert.Equal(t, LogConfig{Level: "debug", Format: "json"}, cfg.Log)

	assert.Equal(t, "sk-ant", cfg.APIKey())
	assert.Equal(t, "sk-ant", cfg.LLMConfig().Anthropic.APIKey)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "server:\n  addr: \":9000\"\nlog:\n  level: warn\n")
	t.Setenv("QGEN_ADDR", ":7000")
	t.Setenv("QGEN_LOG_LEVEL", "error")
	t.Setenv("QGEN_LLM_PROVIDER", "mock")
	t.Setenv("QGEN_GENERATION_TIMEOUT", "45s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, llm.ProviderMock, cfg.LLM.Provider)
	assert.Equal(t, 45*time.Second, cfg.Generation.Timeout)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "an explicit path must exist")

	_, err = Load(writeConfig(t, "server:\n  adr: typo\n"))
	assert.Error(t, err, "unknown keys are rejected")

	_, err = Load(writeConfig(t, "server: [unclosed\n"))
	assert.Error(t, err)
}

func TestLoad_EmptyFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_DefaultPathFromXDG(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "qgen"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "qgen", "config.yaml"), []byte("server:\n  addr: \":1234\"\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":1234", cfg.Server.Addr)
}

func TestAPIKey_Precedence(t *testing.T) {
	clearEnv(t)
	cfg := Default()

	assert.Empty(t, cfg.APIKey())
	assert.Error(t, cfg.Validate(), "openai needs a key")

	t.Setenv("OPENAI_API_KEY", "from-env")
	assert.Equal(t, "from-env", cfg.APIKey())

	cfg.Secrets.APIKey = "generic"
	assert.Equal(t, "generic", cfg.APIKey())

	cfg.Secrets.OpenAIAPIKey = "specific"
	assert.Equal(t, "specific", cfg.APIKey())
	assert.NoError(t, cfg.Validate())

	assert.Empty(t, cfg.LLM.OpenAI.APIKey, "LLMConfig must not mutate the receiver")
}

func TestAPIKey_DoesNotWriteEnvironment(t *testing.T) {
	clearEnv(t)
	cfg := Default()
	cfg.Secrets.OpenAIAPIKey = "sk-file"

	_ = cfg.LLMConfig()
	_ = cfg.Validate()
	assert.Empty(t, os.Getenv("OPENAI_API_KEY"))
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	base := Default()
	base.LLM.Provider = llm.ProviderMock

	require.NoError(t, base.Validate())

	bad := base
	bad.Server.Addr = ""
	assert.Error(t, bad.Validate())

	bad = base
	bad.Generation.Timeout = -time.Second
	assert.Error(t, bad.Validate())

	bad = base
	bad.LLM.Provider = "watson"
	assert.Error(t, bad.Validate())
}
