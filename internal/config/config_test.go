package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boltzap/boltzap/internal/config"
)

func TestLoadSave_RoundTrip(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	// Create config with custom values
	cfg := config.Defaults()
	cfg.Node.Network = "testnet"
	cfg.Node.EsploraURL = "http://127.0.0.1:3000/esplora"
	cfg.Proxy.Listen = ":8080"
	cfg.Output.Verbose = true

	// Save
	err := config.Save(cfg, path)
	require.NoError(t, err)

	// Verify file exists
	_, err = os.Stat(path)
	require.NoError(t, err)

	// Load
	loaded, err := config.Load(path)
	require.NoError(t, err)

	// Verify values
	assert.Equal(t, cfg.Version, loaded.Version)
	assert.Equal(t, cfg.Node.Network, loaded.Node.Network)
	assert.Equal(t, cfg.Node.EsploraURL, loaded.Node.EsploraURL)
	assert.Equal(t, cfg.Proxy.Listen, loaded.Proxy.Listen)
	assert.Equal(t, cfg.Output.Verbose, loaded.Output.Verbose)
}

func TestDefaults(t *testing.T) {
	t.Parallel()
	cfg := config.Defaults()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "~/.boltzap", cfg.Home)
	assert.Equal(t, "bitcoin", cfg.Node.Network)
	assert.Equal(t, config.KeychainService, cfg.Keychain.Service)
	assert.Equal(t, config.DefaultMaxStartAttempts, cfg.Node.MaxStartAttempts)
	assert.Equal(t, 60, cfg.Node.RetryDelaySeconds)
	assert.Equal(t, config.DefaultProxyUpstreams, cfg.Proxy.Upstreams)
	assert.Equal(t, 60, cfg.Proxy.FeeEstimatesTTL)
	assert.Equal(t, 30, cfg.Proxy.ChainTipTTL)
	assert.Equal(t, 86400, cfg.Proxy.BlockDataTTL)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("node:\n  network: testnet\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "testnet", cfg.Node.Network)
	// Untouched sections keep their defaults.
	assert.Equal(t, config.DefaultProxyUpstreams, cfg.Proxy.Upstreams)
	assert.Equal(t, config.KeychainService, cfg.Keychain.Service)
}
