package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mailprobe.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "hello@google.com", cfg.SMTP.MailFrom)
	assert.Equal(t, 20, cfg.SMTP.Timeout)
	assert.Equal(t, "25", cfg.SMTP.Port)
	assert.Equal(t, 8, cfg.DNS.Timeout)
	assert.False(t, cfg.DNS.FallbackToA)
	assert.Equal(t, 5, cfg.Verify.Workers)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[smtp]
mail_from = "verify@example.org"
timeout = 5

[dns]
fallback_to_a = true

[verify]
workers = 2

[logging]
level = "debug"
format = "json"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "verify@example.org", cfg.SMTP.MailFrom)
	assert.Equal(t, 5, cfg.SMTP.Timeout)
	assert.True(t, cfg.DNS.FallbackToA)
	assert.Equal(t, 2, cfg.Verify.Workers)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())

	// Untouched fields keep their defaults.
	assert.Equal(t, "25", cfg.SMTP.Port)
	assert.Equal(t, "google-public-dns-a.google.com", cfg.SMTP.LocalHostname)
	assert.Equal(t, 8, cfg.DNS.Timeout)
}

func TestOptionsConversion(t *testing.T) {
	path := writeConfig(t, "[smtp]\ntimeout = 3\n\n[dns]\ntimeout = 1\nfallback_to_a = true\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	smtp := cfg.SMTPOptions()
	assert.Equal(t, 3*time.Second, smtp.Timeout)
	assert.Equal(t, "hello@google.com", smtp.MailFrom)

	dns := cfg.DNSOptions()
	assert.Equal(t, time.Second, dns.Timeout)
	assert.True(t, dns.FallbackToA)
}

func TestLoadConfigMissingExplicitPath(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero workers", "[verify]\nworkers = 0\n"},
		{"negative smtp timeout", "[smtp]\ntimeout = -1\n"},
		{"unknown log level", "[logging]\nlevel = \"loud\"\n"},
		{"unknown log format", "[logging]\nformat = \"xml\"\n"},
		{"malformed toml", "[smtp\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestFindConfigFileExplicit(t *testing.T) {
	path := writeConfig(t, "")

	found, err := FindConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, found)

	_, err = FindConfigFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
