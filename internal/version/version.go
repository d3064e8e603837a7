// Package version compares build versions and probes GitHub for the
// latest published wallet release.
package version

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"

	walleterr "github.com/boltzap/boltzap/pkg/errors"
)

const (
	defaultBaseURL = "https://api.github.com"

	// RequestTimeout bounds a single release lookup.
	RequestTimeout = 30 * time.Second

	// maxBodyBytes caps the response read; the release payload is small and
	// anything larger is not worth decoding.
	maxBodyBytes = 64 << 10
)

// ErrReleaseLookupFailed marks a failed GitHub probe. Transient by nature,
// so callers retry it with backoff rather than surfacing immediately.
var ErrReleaseLookupFailed = &walleterr.WalletError{ //nolint:gochecknoglobals // sentinel
	Code:     "RELEASE_LOOKUP_FAILED",
	Message:  "GitHub release lookup failed",
	ExitCode: walleterr.ExitNode,
}

// Release is the subset of the GitHub release payload the wallet shows.
type Release struct {
	Tag         string    `json:"tag_name"`
	Name        string    `json:"name"`
	Prerelease  bool      `json:"prerelease"`
	PublishedAt time.Time `json:"published_at"`
}

// Checker queries the GitHub releases API for one repository.
type Checker struct {
	owner   string
	repo    string
	baseURL string
	client  *http.Client
	agent   string
}

// Option configures a Checker.
type Option func(*Checker)

// WithBaseURL points the checker at a different API host.
func WithBaseURL(url string) Option {
	return func(c *Checker) {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Checker) {
		c.client = client
	}
}

// NewChecker builds a checker for owner/repo.
func NewChecker(owner, repo string, opts ...Option) *Checker {
	c := &Checker{
		owner:   owner,
		repo:    repo,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: RequestTimeout},
		agent:   fmt.Sprintf("boltzap (%s/%s)", runtime.GOOS, runtime.GOARCH),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Latest fetches the most recent published release.
func (c *Checker) Latest(ctx context.Context) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.baseURL, c.owner, c.repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, walleterr.Wrap(err, "building release request")
	}
	req.Header.Set("User-Agent", c.agent)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.client.Do(req) //nolint:gosec // URL is built from the fixed GitHub API base
	if err != nil {
		return nil, lookupFailed(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, lookupFailed(fmt.Errorf("status %d", resp.StatusCode))
	}

	var release Release
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&release); err != nil {
		return nil, lookupFailed(err)
	}
	return &release, nil
}

func lookupFailed(cause error) error {
	failure := *ErrReleaseLookupFailed
	failure.Cause = cause
	return &failure
}

// IsNewer reports whether latest is a higher release than current. Dev
// builds and bare commit hashes compare older than any tagged release.
func IsNewer(current, latest string) bool {
	if isUnreleased(latest) {
		return false
	}
	if isUnreleased(current) {
		return true
	}

	cur := parseSemver(current)
	lat := parseSemver(latest)
	for i := range lat {
		if lat[i] != cur[i] {
			return lat[i] > cur[i]
		}
	}
	return false
}

func isUnreleased(v string) bool {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	return v == "" || v == "dev" || looksLikeCommit(v)
}

// parseSemver extracts major.minor.patch, ignoring any -pre or +build
// suffix. Missing or malformed parts read as zero.
func parseSemver(v string) [3]int {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}

	var out [3]int
	for i, part := range strings.Split(v, ".") {
		if i == len(out) {
			break
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			break
		}
		out[i] = n
	}
	return out
}

// looksLikeCommit reports whether v reads as a 7-40 character hex hash.
// At least one hex letter is required so numeric tags like "2024010100"
// stay comparable.
func looksLikeCommit(v string) bool {
	v = strings.TrimSuffix(v, "-dirty")
	if len(v) < 7 || len(v) > 40 {
		return false
	}

	hasLetter := false
	for _, c := range v {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
			hasLetter = true
		default:
			return false
		}
	}
	return hasLetter
}
