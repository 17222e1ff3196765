package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricefeed/pkg/websocket"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultStreamURL, cfg.Stream.URL)
	assert.Equal(t, websocket.DefaultBackoff(), cfg.Backoff.Backoff())
	assert.Equal(t, []string{"usdt", "busd"}, cfg.Symbol.QuoteAssets)
	assert.Equal(t, "usdt", cfg.Symbol.DefaultQuote)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	assert.Empty(t, cfg.Profile.Server)

	opt := cfg.Stream.DialerOption()
	assert.Equal(t, websocket.DefaultHandshakeTimeout, opt.HandshakeTimeout)
	assert.Equal(t, websocket.DefaultReadTimeout, opt.ReadTimeout)
	assert.Equal(t, websocket.DefaultPingInterval, opt.PingInterval)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PRICEFEED_STREAM_URL", "ws://127.0.0.1:9000/ws/!miniTicker@arr")
	t.Setenv("PRICEFEED_BACKOFF_BASE", "500ms")
	t.Setenv("PRICEFEED_BACKOFF_MAX_ATTEMPTS", "8")
	t.Setenv("PRICEFEED_METRICS_ADDR", ":0")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "ws://127.0.0.1:9000/ws/!miniTicker@arr", cfg.Stream.URL)
	assert.Equal(t, 500*time.Millisecond, cfg.Backoff.Base)
	assert.Equal(t, 30*time.Second, cfg.Backoff.Max)
	assert.Equal(t, 8, cfg.Backoff.MaxAttempts)
	assert.Equal(t, ":0", cfg.Metrics.Addr)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backoff:
  base: 2s
  max: 1m
  max_attempts: 3
symbol:
  quote_assets: [usdt, fdusd]
profile:
  server: http://localhost:4040
`), 0o600))

	t.Setenv("PRICEFEED_BACKOFF_MAX_ATTEMPTS", "4")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, websocket.Backoff{Base: 2 * time.Second, Max: time.Minute, MaxAttempts: 4}, cfg.Backoff.Backoff())
	assert.Equal(t, []string{"usdt", "fdusd"}, cfg.Symbol.QuoteAssets)
	assert.Equal(t, "http://localhost:4040", cfg.Profile.Server)
	assert.Equal(t, "pricefeed", cfg.Profile.App)
	assert.Equal(t, DefaultStreamURL, cfg.Stream.URL)
}

func TestLoadRejectsInvalid(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("PRICEFEED_BACKOFF_BASE", "1m")
	t.Setenv("PRICEFEED_BACKOFF_MAX", "1s")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	bad := cfg
	bad.Stream.URL = "  "
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Backoff.MaxAttempts = -1
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Symbol.DefaultQuote = ""
	assert.Error(t, bad.Validate())
}
