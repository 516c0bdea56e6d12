// Package config loads the TOML configuration the mailprobe CLI runs
// with. Values never set in a file keep the library defaults, so an
// empty (or absent) config is fully usable.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/probelabs/mailprobe"
	"github.com/probelabs/mailprobe/mx"
	"github.com/probelabs/mailprobe/probe"
)

// Config represents the CLI configuration.
type Config struct {
	// SMTP probing identity and timing.
	SMTP struct {
		MailFrom      string `toml:"mail_from"`
		LocalHostname string `toml:"local_hostname"`
		Timeout       int    `toml:"timeout"` // seconds
		Port          string `toml:"port"`
	} `toml:"smtp"`

	// DNS resolution behavior.
	DNS struct {
		Timeout     int  `toml:"timeout"` // seconds
		FallbackToA bool `toml:"fallback_to_a"`
	} `toml:"dns"`

	// Verification pipeline tuning.
	Verify struct {
		Workers int `toml:"workers"`
	} `toml:"verify"`

	// Logging configuration.
	Logging struct {
		Level  string `toml:"level"`  // debug, info, warn, error
		Format string `toml:"format"` // text, json
	} `toml:"logging"`

	// Metrics endpoint, served only while a command runs.
	Metrics struct {
		Enabled bool   `toml:"enabled"`
		Listen  string `toml:"listen"`
	} `toml:"metrics"`
}

// DefaultConfig returns the default configuration, mirroring the
// library defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.SMTP.MailFrom = probe.DefaultMailFrom
	cfg.SMTP.LocalHostname = probe.DefaultLocalHostname
	cfg.SMTP.Timeout = int(probe.DefaultTimeout / time.Second)
	cfg.SMTP.Port = probe.DefaultPort

	cfg.DNS.Timeout = int(mx.DefaultTimeout / time.Second)
	cfg.DNS.FallbackToA = false

	cfg.Verify.Workers = 5

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"

	cfg.Metrics.Enabled = false
	cfg.Metrics.Listen = ":9815"

	return cfg
}

// FindConfigFile looks for a configuration file in common locations.
// An explicitly given path must exist; otherwise a missing file is
// reported with an error the caller may treat as "use defaults".
func FindConfigFile(configPath string) (string, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
		return "", fmt.Errorf("config file not found at specified path: %s", configPath)
	}

	locations := []string{
		"./mailprobe.toml",
		os.ExpandEnv("$HOME/.config/mailprobe/mailprobe.toml"),
		"/etc/mailprobe/mailprobe.toml",
	}
	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc, nil
		}
	}

	return "", fmt.Errorf("no config file found")
}

// LoadConfig loads a configuration file over the defaults. Sections the
// file does not mention keep their default values. Only an explicitly
// requested file is required to exist.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	configFile, err := FindConfigFile(configPath)
	if err != nil {
		if configPath != "" {
			return nil, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing TOML configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configFile, err)
	}

	return cfg, nil
}

// Validate rejects values the verifier itself would refuse, so that bad
// configuration fails at startup instead of mid-batch.
func (c *Config) Validate() error {
	if c.SMTP.Timeout <= 0 {
		return fmt.Errorf("smtp.timeout must be positive, got %d", c.SMTP.Timeout)
	}
	if c.DNS.Timeout <= 0 {
		return fmt.Errorf("dns.timeout must be positive, got %d", c.DNS.Timeout)
	}
	if c.Verify.Workers < 1 {
		return fmt.Errorf("verify.workers must be at least 1, got %d", c.Verify.Workers)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// SMTPOptions converts the SMTP section into library options.
func (c *Config) SMTPOptions() mailprobe.SMTPOptions {
	return mailprobe.SMTPOptions{
		MailFrom:      c.SMTP.MailFrom,
		LocalHostname: c.SMTP.LocalHostname,
		Timeout:       time.Duration(c.SMTP.Timeout) * time.Second,
		Port:          c.SMTP.Port,
	}
}

// DNSOptions converts the DNS section into library options.
func (c *Config) DNSOptions() mailprobe.DNSOptions {
	return mailprobe.DNSOptions{
		Timeout:     time.Duration(c.DNS.Timeout) * time.Second,
		FallbackToA: c.DNS.FallbackToA,
	}
}

// LogLevel maps the configured level name onto slog's scale.
func (c *Config) LogLevel() slog.Level {
	switch c.Logging.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the logger the CLI commands share, honoring the
// configured level and format.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel()}
	if c.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
