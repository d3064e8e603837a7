package config

import "time"

// KeychainService is the credential store service name holding the wallet seed.
const KeychainService = "boltzap_wallet"

// DefaultGossipSourceURL is the rapid gossip sync snapshot used by the node.
const DefaultGossipSourceURL = "https://rapidsync.lightningdevkit.org/bitcoin/snapshot"

// Node start and sync retries target load/availability conditions on a remote
// service, so the delay is long and fixed rather than exponential.
const (
	DefaultMaxStartAttempts = 3
	DefaultRetryDelay       = 60 * time.Second
)

// DefaultProxyUpstreams are the esplora mirrors tried in order.
//
//nolint:gochecknoglobals // Configuration default constant, same pattern as DefaultGossipSourceURL
var DefaultProxyUpstreams = []string{
	"https://blockstream.info/api",
	"https://mempool.space/api", // fallback
}

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.boltzap",
		Node: NodeConfig{
			Network:           "bitcoin",
			WorkingDir:        "",
			EsploraURL:        "http://localhost:3000/esplora",
			GossipSourceURL:   DefaultGossipSourceURL,
			MaxStartAttempts:  DefaultMaxStartAttempts,
			RetryDelaySeconds: int(DefaultRetryDelay / time.Second),
			PaymentLimit:      50,
		},
		Keychain: KeychainConfig{
			Service: KeychainService,
		},
		Proxy: ProxyConfig{
			Listen:             ":3000",
			Upstreams:          DefaultProxyUpstreams,
			FeeEstimatesTTL:    60,
			ChainTipTTL:        30,
			BlockDataTTL:       86400,
			UpstreamRatePerSec: 5,
			UpstreamBurst:      10,
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Color:         "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.boltzap/boltzap.log",
		},
	}
}
