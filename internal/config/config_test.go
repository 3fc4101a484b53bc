package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/fff/internal/fetcher/httpclient"
	"github.com/JakeFAU/fff/internal/filter"
	"github.com/JakeFAU/fff/internal/scan"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.DelayMs)
	assert.Equal(t, 100*time.Millisecond, cfg.Delay())
	assert.Equal(t, "GET", cfg.Method)
	assert.Equal(t, "out", cfg.Output)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Headers)
	assert.Empty(t, cfg.SaveStatus)
	assert.False(t, cfg.SaveAll)
	assert.False(t, cfg.KeepAlive)
	assert.False(t, cfg.BodySet)
	assert.False(t, cfg.MatchSet)
	assert.Equal(t, httpclient.Config{Timeout: httpclient.DefaultTimeout}, cfg.Client())
}

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fff.yaml")
	configYAML := `
body: "a=1"
delay: 250
header:
  - "X-Test: 1"
  - "Accept: text/plain, application/json"
ignore-html: true
ignore-empty: true
keep-alive: true
method: PUT
match: secret
output: results
save-status: [200, 404]
proxy: http://127.0.0.1:8080
metrics-addr: 127.0.0.1:9102
log-level: debug
dev-logs: true
no-color: true
`
	require.NoError(t, os.WriteFile(path, []byte(configYAML), 0o600))

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Delay())
	assert.Equal(t, scan.RequestConfig{
		Method:  "PUT",
		Body:    "a=1",
		BodySet: true,
		Headers: []string{"X-Test: 1", "Accept: text/plain, application/json"},
	}, cfg.Request())
	assert.Equal(t, filter.Policy{
		SaveStatus:  []int{200, 404},
		IgnoreHTML:  true,
		IgnoreEmpty: true,
		Match:       "secret",
		MatchSet:    true,
	}, cfg.Policy())
	assert.Equal(t, httpclient.Config{
		Proxy:     "http://127.0.0.1:8080",
		KeepAlive: true,
		Timeout:   httpclient.DefaultTimeout,
	}, cfg.Client())
	assert.Equal(t, "results", cfg.Storage().Root)
	assert.Equal(t, "127.0.0.1:9102", cfg.MetricsAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DevLogs)
	assert.True(t, cfg.NoColor)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FFF_DELAY", "0")
	t.Setenv("FFF_SAVE", "true")
	t.Setenv("FFF_IGNORE_HTML", "true")
	t.Setenv("FFF_SAVE_STATUS", "201,500")
	t.Setenv("FFF_OUTPUT", "env-out")

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Zero(t, cfg.Delay())
	assert.True(t, cfg.SaveAll)
	assert.True(t, cfg.IgnoreHTML)
	assert.Equal(t, []int{201, 500}, cfg.SaveStatus)
	assert.Equal(t, "env-out", cfg.Output)
}

func TestLoadExplicitEmptyBodyAndMatch(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fff.yaml")
	require.NoError(t, os.WriteFile(path, []byte("body: \"\"\nmatch: \"\"\n"), 0o600))

	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.True(t, cfg.Request().HasBody())
	assert.Empty(t, cfg.Body)
	assert.True(t, cfg.Policy().MatchSet)
	assert.Empty(t, cfg.Match)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := Config{Output: "out", LogLevel: "info", SaveStatus: []int{200}}
	require.NoError(t, valid.Validate())

	testCases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"negative delay", func(c *Config) { c.DelayMs = -1 }, "delay"},
		{"empty output", func(c *Config) { c.Output = "  " }, "output"},
		{"status too small", func(c *Config) { c.SaveStatus = []int{99} }, "save-status"},
		{"status too large", func(c *Config) { c.SaveStatus = []int{1000} }, "save-status"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log-level"},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid
			cfg.SaveStatus = append([]int(nil), valid.SaveStatus...)
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
