// Package config loads and validates fff configuration via Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/JakeFAU/fff/internal/fetcher/httpclient"
	"github.com/JakeFAU/fff/internal/filter"
	"github.com/JakeFAU/fff/internal/policy/delay"
	"github.com/JakeFAU/fff/internal/scan"
	"github.com/JakeFAU/fff/internal/storage/local"
)

// EnvPrefix namespaces environment overrides, e.g. FFF_DELAY=250.
const EnvPrefix = "FFF"

// Keys shared by flags, environment and config files.
const (
	KeyBody        = "body"
	KeyDelay       = "delay"
	KeyHeader      = "header"
	KeyIgnoreHTML  = "ignore-html"
	KeyIgnoreEmpty = "ignore-empty"
	KeyKeepAlive   = "keep-alive"
	KeyMethod      = "method"
	KeyMatch       = "match"
	KeyOutput      = "output"
	KeySaveStatus  = "save-status"
	KeySave        = "save"
	KeyProxy       = "proxy"
	KeyMetricsAddr = "metrics-addr"
	KeyLogLevel    = "log-level"
	KeyDevLogs     = "dev-logs"
	KeyNoColor     = "no-color"
)

// Config captures every run setting. It is built once and never mutated.
type Config struct {
	Body        string   `mapstructure:"body"`
	DelayMs     int      `mapstructure:"delay"`
	Headers     []string `mapstructure:"header"`
	IgnoreHTML  bool     `mapstructure:"ignore-html"`
	IgnoreEmpty bool     `mapstructure:"ignore-empty"`
	KeepAlive   bool     `mapstructure:"keep-alive"`
	Method      string   `mapstructure:"method"`
	Match       string   `mapstructure:"match"`
	Output      string   `mapstructure:"output"`
	SaveStatus  []int    `mapstructure:"save-status"`
	SaveAll     bool     `mapstructure:"save"`
	Proxy       string   `mapstructure:"proxy"`
	MetricsAddr string   `mapstructure:"metrics-addr"`
	LogLevel    string   `mapstructure:"log-level"`
	DevLogs     bool     `mapstructure:"dev-logs"`
	NoColor     bool     `mapstructure:"no-color"`

	// BodySet and MatchSet record whether body and match were given at all,
	// so an explicit empty value is distinguishable from an absent one.
	BodySet  bool `mapstructure:"-"`
	MatchSet bool `mapstructure:"-"`
}

// New returns a Viper instance with fff defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// Load reads the optional config file at path into v and decodes the result.
// Flags should already be bound to v.
func Load(v *viper.Viper, path string) (Config, error) {
	if v == nil {
		v = New()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.BodySet = v.IsSet(KeyBody)
	cfg.MatchSet = v.IsSet(KeyMatch)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// setDefaults leaves body and match unset so IsSet reports only explicit values.
func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDelay, int(delay.DefaultDelay/time.Millisecond))
	v.SetDefault(KeyHeader, []string{})
	v.SetDefault(KeyIgnoreHTML, false)
	v.SetDefault(KeyIgnoreEmpty, false)
	v.SetDefault(KeyKeepAlive, false)
	v.SetDefault(KeyMethod, scan.DefaultMethod)
	v.SetDefault(KeyOutput, "out")
	v.SetDefault(KeySaveStatus, []int{})
	v.SetDefault(KeySave, false)
	v.SetDefault(KeyProxy, "")
	v.SetDefault(KeyMetricsAddr, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyDevLogs, false)
	v.SetDefault(KeyNoColor, false)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.DelayMs < 0 {
		return errors.New("delay must be >= 0")
	}
	if strings.TrimSpace(c.Output) == "" {
		return errors.New("output must not be empty")
	}
	for _, code := range c.SaveStatus {
		if code < 100 || code > 999 {
			return fmt.Errorf("save-status %d is not a valid status code", code)
		}
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log-level: %w", err)
	}
	return nil
}

// Delay converts the millisecond setting into a duration.
func (c Config) Delay() time.Duration {
	return time.Duration(c.DelayMs) * time.Millisecond
}

// Request derives the per-request settings.
func (c Config) Request() scan.RequestConfig {
	return scan.RequestConfig{
		Method:  c.Method,
		Body:    c.Body,
		BodySet: c.BodySet,
		Headers: append([]string(nil), c.Headers...),
	}
}

// Policy derives the save policy.
func (c Config) Policy() filter.Policy {
	return filter.Policy{
		SaveAll:     c.SaveAll,
		SaveStatus:  append([]int(nil), c.SaveStatus...),
		IgnoreHTML:  c.IgnoreHTML,
		IgnoreEmpty: c.IgnoreEmpty,
		Match:       c.Match,
		MatchSet:    c.MatchSet,
	}
}

// Client derives the HTTP client settings.
func (c Config) Client() httpclient.Config {
	return httpclient.Config{
		Proxy:     c.Proxy,
		KeepAlive: c.KeepAlive,
		Timeout:   httpclient.DefaultTimeout,
	}
}

// Storage derives the output store settings.
func (c Config) Storage() local.Config {
	return local.Config{Root: c.Output}
}
