package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/yanun0323/errors"

	"pricefeed/pkg/exception"
	"pricefeed/pkg/websocket"
)

const (
	EnvPrefix = "PRICEFEED"

	DefaultStreamURL = "wss://stream.binance.com:9443/ws/!miniTicker@arr"
)

// Config mirrors the YAML config layout. Every key can be overridden by an
// environment variable, e.g. backoff.max_attempts by PRICEFEED_BACKOFF_MAX_ATTEMPTS.
type Config struct {
	Stream  StreamConfig  `mapstructure:"stream"`
	Backoff BackoffConfig `mapstructure:"backoff"`
	Symbol  SymbolConfig  `mapstructure:"symbol"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Profile ProfileConfig `mapstructure:"profile"`
}

// StreamConfig describes the market stream endpoint.
type StreamConfig struct {
	URL              string        `mapstructure:"url"`
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout"`
	ReadTimeout      time.Duration `mapstructure:"read_timeout"`
	PingInterval     time.Duration `mapstructure:"ping_interval"`
	DialTimeout      time.Duration `mapstructure:"dial_timeout"`
}

// BackoffConfig describes the reconnect policy.
type BackoffConfig struct {
	Base        time.Duration `mapstructure:"base"`
	Max         time.Duration `mapstructure:"max"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

// SymbolConfig drives user input normalisation.
type SymbolConfig struct {
	QuoteAssets  []string `mapstructure:"quote_assets"`
	DefaultQuote string   `mapstructure:"default_quote"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// ProfileConfig enables continuous profiling when Server is set.
type ProfileConfig struct {
	Server string `mapstructure:"server"`
	App    string `mapstructure:"app"`
}

// Load reads .env, the optional config file at path and the environment,
// in increasing priority over the defaults.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, errors.Wrap(err, "load .env")
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if len(path) != 0 {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "read config file %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	backoff := websocket.DefaultBackoff()

	v.SetDefault("stream.url", DefaultStreamURL)
	v.SetDefault("stream.handshake_timeout", websocket.DefaultHandshakeTimeout)
	v.SetDefault("stream.read_timeout", websocket.DefaultReadTimeout)
	v.SetDefault("stream.ping_interval", websocket.DefaultPingInterval)
	v.SetDefault("stream.dial_timeout", 15*time.Second)

	v.SetDefault("backoff.base", backoff.Base)
	v.SetDefault("backoff.max", backoff.Max)
	v.SetDefault("backoff.max_attempts", backoff.MaxAttempts)

	v.SetDefault("symbol.quote_assets", []string{"usdt", "busd"})
	v.SetDefault("symbol.default_quote", "usdt")

	v.SetDefault("metrics.addr", ":9090")

	v.SetDefault("profile.server", "")
	v.SetDefault("profile.app", "pricefeed")
}

// Validate rejects values the feed cannot run with.
func (c Config) Validate() error {
	if len(strings.TrimSpace(c.Stream.URL)) == 0 {
		return errors.Wrap(exception.ErrInvalidConfig, "stream.url is empty")
	}
	if err := c.Backoff.Backoff().Validate(); err != nil {
		return errors.Wrapf(exception.ErrInvalidConfig, "backoff %+v", c.Backoff)
	}
	if len(c.Symbol.DefaultQuote) == 0 {
		return errors.Wrap(exception.ErrInvalidConfig, "symbol.default_quote is empty")
	}
	return nil
}

func (b BackoffConfig) Backoff() websocket.Backoff {
	return websocket.Backoff{
		Base:        b.Base,
		Max:         b.Max,
		MaxAttempts: b.MaxAttempts,
	}
}

func (s StreamConfig) DialerOption() websocket.DialerOption {
	return websocket.DialerOption{
		HandshakeTimeout: s.HandshakeTimeout,
		ReadTimeout:      s.ReadTimeout,
		PingInterval:     s.PingInterval,
	}
}
