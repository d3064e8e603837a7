// Package config provides configuration management for BoltZap.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Version  int            `yaml:"version"`
	Home     string         `yaml:"home"`
	Node     NodeConfig     `yaml:"node"`
	Keychain KeychainConfig `yaml:"keychain"`
	Proxy    ProxyConfig    `yaml:"proxy"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// NodeConfig defines settlement node settings.
type NodeConfig struct {
	Network           string `yaml:"network"`
	WorkingDir        string `yaml:"working_dir"`
	EsploraURL        string `yaml:"esplora_url"`
	GossipSourceURL   string `yaml:"gossip_source_url"`
	MaxStartAttempts  int    `yaml:"max_start_attempts"`
	RetryDelaySeconds int    `yaml:"retry_delay_seconds"`
	PaymentLimit      int    `yaml:"payment_limit"`
}

// KeychainConfig defines credential store settings for the wallet seed.
type KeychainConfig struct {
	Service     string `yaml:"service"`
	FallbackDir string `yaml:"fallback_dir"`
}

// ProxyConfig defines the esplora caching proxy settings.
type ProxyConfig struct {
	Listen             string   `yaml:"listen"`
	Upstreams          []string `yaml:"upstreams"`
	FeeEstimatesTTL    int      `yaml:"fee_estimates_ttl_seconds"`
	ChainTipTTL        int      `yaml:"chain_tip_ttl_seconds"`
	BlockDataTTL       int      `yaml:"block_data_ttl_seconds"`
	UpstreamRatePerSec float64  `yaml:"upstream_rate_per_sec"`
	UpstreamBurst      int      `yaml:"upstream_burst"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Color         string `yaml:"color"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from the specified file.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Path returns the default config file path.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// GetNodeWorkingDir returns the node data directory, defaulting under home.
func (c *Config) GetNodeWorkingDir() string {
	if c.Node.WorkingDir != "" {
		return c.Node.WorkingDir
	}
	return filepath.Join(c.Home, "node")
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// GetLoggingFile returns the configured log file path.
func (c *Config) GetLoggingFile() string {
	return c.Logging.File
}

// GetOutputFormat returns the default output format.
func (c *Config) GetOutputFormat() string {
	return c.Output.DefaultFormat
}

// IsVerbose returns true if verbose output is enabled.
func (c *Config) IsVerbose() bool {
	return c.Output.Verbose
}

// GetKeychainFallbackDir returns the directory for the encrypted-file seed
// store, defaulting under home.
func (c *Config) GetKeychainFallbackDir() string {
	if c.Keychain.FallbackDir != "" {
		return c.Keychain.FallbackDir
	}
	return filepath.Join(c.Home, "keychain")
}

// DefaultHome returns the default boltzap home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".boltzap"
	}
	return filepath.Join(home, ".boltzap")
}
