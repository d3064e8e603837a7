// Package proxy is a caching failover reverse-proxy in front of public
// esplora mirrors. The embedded node points at it instead of a single
// mirror, so one rate-limited or unreachable mirror never stalls a sync.
package proxy

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/boltzap/boltzap/internal/config"
)

// browserUserAgent mimics a desktop browser; some mirrors filter obvious
// bot traffic.
const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// maxUpstreamBody bounds how much of an upstream reply is buffered.
const maxUpstreamBody = 8 << 20

// MountPrefix is where the esplora surface hangs off the proxy listener.
const MountPrefix = "/esplora"

// Server forwards esplora requests to an ordered list of upstream mirrors,
// trying each in sequence, and caches successful GET replies per TTLFor.
type Server struct {
	upstreams []string
	client    *http.Client
	cache     *ResponseCache
	limiter   *RateLimiter
	metrics   *Metrics
	policy    Policy
	logger    *config.Logger
}

// Option adjusts Server construction.
type Option func(*Server)

// WithHTTPClient swaps the outbound HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Server) { s.client = client }
}

// WithRateLimiter swaps the per-upstream limiter.
func WithRateLimiter(limiter *RateLimiter) Option {
	return func(s *Server) { s.limiter = limiter }
}

// WithCachePolicy overrides the cache TTLs.
func WithCachePolicy(policy Policy) Option {
	return func(s *Server) { s.policy = policy }
}

// NewServer creates a proxy over the given mirrors, in failover order.
func NewServer(upstreams []string, logger *config.Logger, opts ...Option) (*Server, error) {
	if len(upstreams) == 0 {
		return nil, fmt.Errorf("at least one upstream mirror is required")
	}
	if logger == nil {
		logger = config.NullLogger()
	}

	normalized := make([]string, len(upstreams))
	for i, upstream := range upstreams {
		normalized[i] = strings.TrimRight(upstream, "/")
	}

	s := &Server{
		upstreams: normalized,
		client:    &http.Client{Timeout: 30 * time.Second},
		cache:     NewResponseCache(),
		limiter:   DefaultRateLimiter(),
		metrics:   NewMetrics(),
		policy:    DefaultPolicy(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handler returns the HTTP surface: the esplora passthrough under
// MountPrefix, a health probe, and Prometheus metrics.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  log.New(s.logger.Writer(config.LogLevelDebug), "", 0),
		NoColor: true,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", s.metrics.Handler())

	r.Route(MountPrefix, func(sr chi.Router) {
		sr.Get("/*", s.proxyRequest)
		sr.Post("/*", s.proxyRequest)
	})

	return r
}

// proxyRequest serves one esplora call: cache check, then the mirror chain.
func (s *Server) proxyRequest(w http.ResponseWriter, r *http.Request) {
	path := "/" + chi.URLParam(r, "*")

	ttl, cacheable := s.policy.TTLFor(r.Method, path)
	key := Key(r.Method, path)

	if cacheable {
		if cached, ok := s.cache.Get(key); ok {
			s.metrics.cacheHits.Inc()
			s.logger.Debug("cache hit %s", path)
			writeCached(w, cached)
			return
		}
		s.metrics.cacheMisses.Inc()
		s.logger.Debug("cache miss %s", path)
	}

	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(io.LimitReader(r.Body, maxUpstreamBody))
		if err != nil {
			http.Error(w, "reading request body", http.StatusBadRequest)
			return
		}
	}

	resp, err := s.fetchWithFailover(r, path, body)
	if err != nil {
		s.metrics.requests.WithLabelValues(r.Method, "failed").Inc()
		s.logger.Error("all esplora upstreams failed for %s: %v", path, err)
		http.Error(w, "all upstreams failed", http.StatusBadGateway)
		return
	}

	if cacheable && resp.Status == http.StatusOK {
		s.cache.Set(key, resp, ttl)
	}
	s.metrics.requests.WithLabelValues(r.Method, "ok").Inc()
	writeCached(w, resp)
}

// fetchWithFailover walks the mirror list in order, returning the first
// usable reply. Rate-limited (429) and server-error (5xx) replies move on
// to the next mirror, as do transport failures.
func (s *Server) fetchWithFailover(r *http.Request, path string, body []byte) (CachedResponse, error) {
	ctx := r.Context()
	var lastErr error

	for _, upstream := range s.upstreams {
		if err := s.limiter.Wait(ctx, upstream); err != nil {
			return CachedResponse{}, err
		}

		fullURL := upstream + path
		if r.URL.RawQuery != "" {
			fullURL += "?" + r.URL.RawQuery
		}

		req, err := http.NewRequestWithContext(ctx, r.Method, fullURL, bytes.NewReader(body))
		if err != nil {
			return CachedResponse{}, err
		}
		req.Header.Set("User-Agent", browserUserAgent)
		if ct := r.Header.Get("Content-Type"); ct != "" {
			req.Header.Set("Content-Type", ct)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			lastErr = err
			s.metrics.upstreamFailures.WithLabelValues(upstream).Inc()
			s.logger.Info("upstream %s failed for %s: %v", upstream, path, err)
			continue
		}

		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			s.metrics.upstreamFailures.WithLabelValues(upstream).Inc()
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			lastErr = fmt.Errorf("upstream %s replied %d", upstream, resp.StatusCode)
			s.metrics.upstreamFailures.WithLabelValues(upstream).Inc()
			s.logger.Info("upstream %s replied %d for %s, trying next", upstream, resp.StatusCode, path)
			continue
		}

		return CachedResponse{
			Status:      resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        respBody,
		}, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no upstream produced a response")
	}
	return CachedResponse{}, lastErr
}

// writeCached copies a stored or fresh upstream reply onto the wire.
func writeCached(w http.ResponseWriter, resp CachedResponse) {
	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}

// ListenAndServe runs the proxy on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("esplora proxy listening on %s", addr)
	return srv.ListenAndServe()
}
