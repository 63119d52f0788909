package realtime

import "errors"

var (
	// ErrNoAPIKey indicates realtime was requested without an API key
	// configured; the overlay is skipped, never the scheduled answer.
	ErrNoAPIKey = errors.New("realtime API key not configured")

	// ErrRateLimited indicates the feed-wide request budget was exhausted.
	ErrRateLimited = errors.New("realtime feed rate limited")

	// ErrUpstreamUnavailable indicates the feed endpoint failed or returned
	// a non-success status.
	ErrUpstreamUnavailable = errors.New("realtime feed unavailable")

	// ErrMalformedRealtime indicates the feed bytes did not decode as a
	// GTFS-realtime FeedMessage.
	ErrMalformedRealtime = errors.New("malformed realtime feed")

	// ErrUnknownMode indicates no trip-update URL is configured for the
	// requested mode.
	ErrUnknownMode = errors.New("no realtime feed configured for mode")
)
