package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	_, res := NormalizeAndValidate(Defaults())
	assert.True(t, res.OK(), "errors: %v", res.Errors)

	d := Defaults()
	assert.Equal(t, 5, d.Sources.RemoteOK.MaxJobs)
	assert.Equal(t, 10, d.Sources.LinkedIn.MaxJobs)
	assert.Equal(t, 10, d.Sources.Indeed.MaxJobs)
	assert.Equal(t, 25, d.Search.MaxResults)
	assert.Equal(t, 20.0, d.Sources.RemoteOK.MinRelevance)
	assert.Equal(t, 15.0, d.Sources.LinkedIn.MinRelevance)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("search:\n  max_results: 10\nsources:\n  indeed:\n    enabled: false\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Search.MaxResults)
	assert.False(t, cfg.Sources.Indeed.Enabled)
	assert.Equal(t, 38471, cfg.App.Port)
	assert.Equal(t, "United States", cfg.Search.DefaultLocation)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNormalizeAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"bad port", func(c *Config) { c.App.Port = 0 }, "app.port must be 1..65535"},
		{"max results", func(c *Config) { c.Search.MaxResults = 51 }, "search.max_results must be 1..50"},
		{"delays", func(c *Config) { c.Search.MinDelayMillis = 3000 }, "search delays must satisfy 0 <= min_delay_ms <= max_delay_ms"},
		{"relevance", func(c *Config) { c.Sources.LinkedIn.MinRelevance = 120 }, "sources.linkedin.min_relevance must be 0..100"},
		{"redis addr", func(c *Config) { c.Cache.Backend = "redis" }, "cache.redis_addr is required when cache.backend=redis"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level must be one of debug, info, warn, error"},
		{"email host", func(c *Config) {
			c.Email.Enabled = true
			c.Email.IMAPHost = " "
			c.Email.Username = "me@example.com"
		}, "email.imap_host is required when email.enabled=true"},
		{"no sources", func(c *Config) {
			c.Sources.RemoteOK.Enabled = false
			c.Sources.LinkedIn.Enabled = false
			c.Sources.Indeed.Enabled = false
		}, "no sources enabled: enable remoteok, linkedin, indeed or email"},
		{"saved search", func(c *Config) {
			c.Polling.Searches = []SavedSearch{{Keywords: "  "}}
		}, "polling.searches[0].keywords is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Defaults()
			tt.mutate(&c)
			_, res := NormalizeAndValidate(c)
			assert.False(t, res.OK())
			assert.Contains(t, res.Errors, tt.wantErr)
		})
	}
}

func TestNormalizeTrimsSubjects(t *testing.T) {
	c := Defaults()
	c.Email.SearchSubjectAny = []string{" Job Alert ", "job alert", "", "Jobs for you"}
	c.Log.Level = " INFO "

	out, res := NormalizeAndValidate(c)
	require.True(t, res.OK())
	assert.Equal(t, []string{"Job Alert", "Jobs for you"}, out.Email.SearchSubjectAny)
	assert.Equal(t, "info", out.Log.Level)
}

func TestSaveAtomicKeepsBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  port: 40000\n"), 0o644))

	cfg := Defaults()
	cfg.Search.MaxResults = 12
	require.NoError(t, SaveAtomic(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, got.Search.MaxResults)

	bak, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Contains(t, string(bak), "40000")
}

func TestSaveAtomicRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	cfg := Defaults()
	cfg.App.Port = -1
	assert.Error(t, SaveAtomic(path, cfg))
	_, err := os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnsureUserConfigWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path, err := EnsureUserConfig(dir, filepath.Join(dir, "missing.yml"))
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Defaults().App.Port, cfg.App.Port)

	again, err := EnsureUserConfig(dir, "")
	require.NoError(t, err)
	assert.Equal(t, path, again)
}

func TestOverlayEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("EASYAPPLY_REDIS_ADDR=localhost:6379\nEASYAPPLY_IMAP_PASSWORD=secret\n"), 0o600))
	t.Setenv("EASYAPPLY_PORT", "40001")
	unsetEnv(t, "EASYAPPLY_REDIS_ADDR", "EASYAPPLY_IMAP_PASSWORD")

	cfg := Defaults()
	require.NoError(t, OverlayEnv(&cfg, envFile))
	assert.Equal(t, 40001, cfg.App.Port)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "secret", cfg.Email.AppPassword)
}

func TestOverlayEnvMissingFileAndBadPort(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, OverlayEnv(&cfg, filepath.Join(t.TempDir(), "none.env")))

	t.Setenv("EASYAPPLY_PORT", "abc")
	assert.Error(t, OverlayEnv(&cfg, ""))
}

// godotenv never overrides variables that already exist, even empty ones.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		prev, had := os.LookupEnv(k)
		_ = os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				_ = os.Setenv(k, prev)
			} else {
				_ = os.Unsetenv(k)
			}
		})
	}
}
