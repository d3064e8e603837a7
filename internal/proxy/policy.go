package proxy

import (
	"net/http"
	"regexp"
	"strings"
	"time"
)

// Cache TTLs per endpoint class.
const (
	FeeEstimatesTTL = 60 * time.Second
	ChainTipTTL     = 30 * time.Second
	BlockDataTTL    = 24 * time.Hour
)

// blockDataPattern matches immutable per-block endpoints (header, status).
var blockDataPattern = regexp.MustCompile(`/block/[a-f0-9]+/(header|status)`)

// Policy holds the cache TTL per endpoint class.
type Policy struct {
	FeeEstimates time.Duration
	ChainTip     time.Duration
	BlockData    time.Duration
}

// DefaultPolicy returns the standard TTLs.
func DefaultPolicy() Policy {
	return Policy{
		FeeEstimates: FeeEstimatesTTL,
		ChainTip:     ChainTipTTL,
		BlockData:    BlockDataTTL,
	}
}

// TTLFor returns the cache TTL for a request and whether it is cacheable.
// Only GETs are cached; scripthash and address lookups never are, so a new
// transaction is visible immediately.
func (p Policy) TTLFor(method, path string) (time.Duration, bool) {
	if method != http.MethodGet {
		return 0, false
	}
	if strings.Contains(path, "/scripthash/") || strings.Contains(path, "/address/") {
		return 0, false
	}
	if strings.Contains(path, "/fee-estimates") {
		return p.FeeEstimates, true
	}
	if strings.Contains(path, "/blocks/tip/") {
		return p.ChainTip, true
	}
	if blockDataPattern.MatchString(path) {
		return p.BlockData, true
	}
	return 0, false
}

// TTLFor applies the default policy.
func TTLFor(method, path string) (time.Duration, bool) {
	return DefaultPolicy().TTLFor(method, path)
}
