package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/mrz1836/go-sanitize"
)

// Environment variable names.
const (
	EnvHome         = "BOLTZAP_HOME"
	EnvNetwork      = "BOLTZAP_NETWORK"
	EnvEsploraURL   = "BOLTZAP_ESPLORA_URL"
	EnvProxyListen  = "BOLTZAP_PROXY_LISTEN"
	EnvOutputFormat = "BOLTZAP_OUTPUT_FORMAT"
	EnvVerbose      = "BOLTZAP_VERBOSE"
	EnvLogLevel     = "BOLTZAP_LOG_LEVEL"
	EnvNoColor      = "NO_COLOR"

	// EnvSeedPassphrase protects the encrypted-file seed store when no OS
	// keyring is available. Read directly, never stored in config.
	EnvSeedPassphrase = "BOLTZAP_SEED_PASSPHRASE"
)

// ApplyEnvironment applies environment variable overrides to the configuration.
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvNetwork); v != "" {
		cfg.Node.Network = strings.ToLower(v)
	}

	if v := os.Getenv(EnvEsploraURL); v != "" {
		cfg.Node.EsploraURL = SanitizeURL(v)
	}

	if v := os.Getenv(EnvProxyListen); v != "" {
		cfg.Proxy.Listen = v
	}

	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.Output.DefaultFormat = strings.ToLower(v)
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		cfg.Output.Verbose = parseBool(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	// NO_COLOR disables colored output
	if _, ok := os.LookupEnv(EnvNoColor); ok {
		cfg.Output.Color = "never"
	}
}

// SanitizeURL strips unsafe characters from a URL value.
func SanitizeURL(raw string) string {
	return sanitize.URL(strings.TrimSpace(raw))
}

// parseBool parses common truthy strings.
func parseBool(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false
	}
	return b
}
