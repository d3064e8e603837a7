package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/boltzap/boltzap/internal/config"
)

func TestApplyEnvironment(t *testing.T) {
	t.Setenv(config.EnvHome, "/tmp/boltzap-test")
	t.Setenv(config.EnvNetwork, "Testnet")
	t.Setenv(config.EnvEsploraURL, " http://localhost:3000/esplora ")
	t.Setenv(config.EnvVerbose, "true")
	t.Setenv(config.EnvLogLevel, "DEBUG")

	cfg := config.Defaults()
	config.ApplyEnvironment(cfg)

	assert.Equal(t, "/tmp/boltzap-test", cfg.Home)
	assert.Equal(t, "testnet", cfg.Node.Network)
	assert.Equal(t, "http://localhost:3000/esplora", cfg.Node.EsploraURL)
	assert.True(t, cfg.Output.Verbose)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestApplyEnvironment_NoColor(t *testing.T) {
	t.Setenv(config.EnvNoColor, "1")

	cfg := config.Defaults()
	config.ApplyEnvironment(cfg)

	assert.Equal(t, "never", cfg.Output.Color)
}

func TestSanitizeURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"clean url", "https://blockstream.info/api", "https://blockstream.info/api"},
		{"whitespace", "  https://mempool.space/api  ", "https://mempool.space/api"},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, config.SanitizeURL(tc.input))
		})
	}
}
