package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, "0.0.0.0:8080", c.ListenAddr())

	ec := c.EngineConfig()
	assert.InDelta(t, 0.3, ec.Thresholds.LayoutFix, 1e-9)
	assert.InDelta(t, 0.5, ec.Thresholds.Translation, 1e-9)
	assert.Len(t, c.EngineOptions(), 1)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "trace" }},
		{"log format", func(c *Config) { c.LogFormat = "xml" }},
		{"threshold", func(c *Config) { c.Thresholds.Grammar = 1.2 }},
		{"negative threshold", func(c *Config) { c.Thresholds.LayoutFix = -0.1 }},
		{"port", func(c *Config) { c.Server.Port = 70000 }},
		{"addr", func(c *Config) { c.Server.Addr = "nonsense" }},
		{"body", func(c *Config) { c.Server.MaxBodyBytes = 0 }},
		{"batch items", func(c *Config) { c.Server.MaxBatchItems = 0 }},
		{"redis", func(c *Config) { c.Redis.Enabled = true; c.Redis.Addr = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c, err := NewLoader(viper.New()).Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 15*time.Second, c.Server.ReadTimeout)
	assert.False(t, c.Redis.Enabled)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyfix.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: warn
server:
  port: 9090
  read_timeout: 5s
redis:
  enabled: true
  key: words
lexicon:
  paths: [a.txt, b.txt]
  watch: true
thresholds:
  cleanup: 0.25
`), 0o644))

	l := NewLoader(viper.New())
	c, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, l.ConfigFileUsed())
	assert.Equal(t, "warn", c.LogLevel)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, 5*time.Second, c.Server.ReadTimeout)
	assert.True(t, c.Redis.Enabled)
	assert.Equal(t, "words", c.Redis.Key)
	assert.Equal(t, []string{"a.txt", "b.txt"}, c.Lexicon.Paths)
	assert.True(t, c.Lexicon.Watch)
	assert.InDelta(t, 0.25, c.Thresholds.Cleanup, 1e-9)
	assert.InDelta(t, 0.3, c.Thresholds.LayoutFix, 1e-9)
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("KEYFIX_LOG_LEVEL", "debug")
	t.Setenv("KEYFIX_SERVER_PORT", "7070")
	t.Setenv("REDIS_ADDR", "legacy:6379")
	t.Setenv("HTTP_ADDR", ":9999")

	c, err := NewLoader(viper.New()).Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 7070, c.Server.Port)
	assert.Equal(t, "legacy:6379", c.Redis.Addr)
	assert.Equal(t, ":9999", c.ListenAddr())
}

func TestLoad_PrefixedEnvWins(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("REDIS_ADDR", "legacy:6379")
	t.Setenv("KEYFIX_REDIS_ADDR", "new:6379")

	c, err := NewLoader(viper.New()).Load("")
	require.NoError(t, err)
	assert.Equal(t, "new:6379", c.Redis.Addr)
}

func TestLoad_Verbose(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("KEYFIX_VERBOSE", "true")

	c, err := NewLoader(viper.New()).Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	_, err := NewLoader(viper.New()).Load("/nonexistent/keyfix.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "keyfix.yaml")
	require.NoError(t, os.WriteFile(path, []byte("thresholds:\n  grammar: 3\n"), 0o644))
	_, err = NewLoader(viper.New()).Load(path)
	assert.ErrorContains(t, err, "thresholds.grammar")
}
