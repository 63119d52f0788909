package realtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"journey.transitgo.org/internal/logging"
)

// authHeader carries the API key on feed requests, following the PTV open
// data convention.
const authHeader = "KeyID"

// Feed-wide request budget shared by all modes: a token bucket holding 24
// calls and refilled at 24 calls per 60 seconds. A full bucket plus its
// refill can serve more than 24 calls within one 60-second window; the
// limiter does not cap a sliding window.
const (
	rateLimitCalls  = 24
	rateLimitPeriod = 60 * time.Second
)

// Fetcher retrieves trip-update feeds per mode. Responses are cached for a
// short TTL and requests are rate limited across all modes; exceeding the
// budget skips the overlay for that request rather than queueing.
type Fetcher struct {
	apiKey  string
	urls    map[string]string
	client  *http.Client
	limiter *rate.Limiter
	cache   *gocache.Cache
	logger  *slog.Logger
}

// NewFetcher builds a fetcher for the given mode → trip-update URL map.
// cacheTTL bounds how stale a served blob may be; values above 60s are
// clamped.
func NewFetcher(apiKey string, urls map[string]string, cacheTTL time.Duration, logger *slog.Logger) *Fetcher {
	if cacheTTL <= 0 || cacheTTL > 60*time.Second {
		cacheTTL = 60 * time.Second
	}
	return &Fetcher{
		apiKey:  apiKey,
		urls:    urls,
		client:  &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Every(rateLimitPeriod/rateLimitCalls), rateLimitCalls),
		cache:   gocache.New(cacheTTL, 2*cacheTTL),
		logger:  logger,
	}
}

// Enabled reports whether the fetcher can make requests at all.
func (f *Fetcher) Enabled() bool {
	return f.apiKey != ""
}

// TripUpdates returns the raw trip-update protobuf for a mode, from cache
// when fresh.
func (f *Fetcher) TripUpdates(ctx context.Context, modeTag string) ([]byte, error) {
	if !f.Enabled() {
		return nil, ErrNoAPIKey
	}
	url, ok := f.urls[modeTag]
	if !ok || url == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMode, modeTag)
	}

	if blob, ok := f.cache.Get(modeTag); ok {
		return blob.([]byte), nil
	}

	if !f.limiter.Allow() {
		return nil, ErrRateLimited
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	req.Header.Set(authHeader, f.apiKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer logging.SafeCloseWithLogging(resp.Body,
		f.logger, "trip_updates_response_body")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", ErrUpstreamUnavailable, modeTag, resp.StatusCode)
	}

	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	f.cache.SetDefault(modeTag, blob)
	logging.LogOperation(f.logger, "trip_updates_fetched",
		slog.String("mode", modeTag), slog.Int("bytes", len(blob)))
	return blob, nil
}
