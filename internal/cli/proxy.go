package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/boltzap/boltzap/internal/config"
	"github.com/boltzap/boltzap/internal/proxy"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	// proxyListen overrides the configured listen address.
	proxyListen string
)

// proxyCmd is the parent command for the esplora proxy.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Esplora caching proxy",
}

// proxyServeCmd runs the proxy until interrupted.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var proxyServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the esplora caching proxy",
	Long: `Run a caching failover proxy in front of public esplora mirrors.

Point the node's esplora URL at this listener (under /esplora). Requests
walk the configured mirrors in order, skipping any that error or
rate-limit, and hot endpoints (fee estimates, chain tip, immutable block
data) are served from an in-process cache. Cache and upstream counters
are exposed on /metrics.`,
	Example: `  boltzap proxy serve
  boltzap proxy serve --listen :8094`,
	RunE: runProxyServe,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(proxyCmd)
	proxyCmd.AddCommand(proxyServeCmd)

	proxyServeCmd.Flags().StringVar(&proxyListen, "listen", "", "listen address (default: configured proxy.listen)")
}

func runProxyServe(cmd *cobra.Command, _ []string) error {
	cc := GetCmdContext(cmd)

	srv, err := proxy.NewServer(
		cc.Cfg.Proxy.Upstreams,
		cc.Log,
		proxy.WithRateLimiter(proxyLimiter(cc.Cfg)),
		proxy.WithCachePolicy(proxyPolicy(cc.Cfg)),
	)
	if err != nil {
		return err
	}

	listen := proxyListen
	if listen == "" {
		listen = cc.Cfg.Proxy.Listen
	}

	out(cmd.ErrOrStderr(), "Esplora proxy listening on %s (mirrors: %d)\n", listen, len(cc.Cfg.Proxy.Upstreams))
	return srv.ListenAndServe(listen)
}

// proxyLimiter builds the per-upstream limiter from config, falling back to
// the package default when unset.
func proxyLimiter(cfg *config.Config) *proxy.RateLimiter {
	if cfg.Proxy.UpstreamRatePerSec <= 0 || cfg.Proxy.UpstreamBurst <= 0 {
		return proxy.DefaultRateLimiter()
	}
	return proxy.NewRateLimiter(cfg.Proxy.UpstreamRatePerSec, cfg.Proxy.UpstreamBurst)
}

// proxyPolicy maps the configured TTL seconds onto the cache policy,
// keeping defaults for anything left at zero.
func proxyPolicy(cfg *config.Config) proxy.Policy {
	policy := proxy.DefaultPolicy()
	if cfg.Proxy.FeeEstimatesTTL > 0 {
		policy.FeeEstimates = time.Duration(cfg.Proxy.FeeEstimatesTTL) * time.Second
	}
	if cfg.Proxy.ChainTipTTL > 0 {
		policy.ChainTip = time.Duration(cfg.Proxy.ChainTipTTL) * time.Second
	}
	if cfg.Proxy.BlockDataTTL > 0 {
		policy.BlockData = time.Duration(cfg.Proxy.BlockDataTTL) * time.Second
	}
	return policy
}
