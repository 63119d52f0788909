package gtfs

import "errors"

var (
	// ErrMissingFile indicates a mandatory GTFS file was absent. Fatal at load time.
	ErrMissingFile = errors.New("missing mandatory GTFS file")

	// ErrMalformedFeed indicates a mandatory column was absent or a record
	// could not be parsed. Fatal at load time.
	ErrMalformedFeed = errors.New("malformed GTFS feed")
)
