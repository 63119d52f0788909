package planner

import "errors"

var (
	// ErrUnknownStop indicates an origin or destination id that is not in
	// the catalogue.
	ErrUnknownStop = errors.New("unknown stop")

	// ErrNoRoute indicates the destination is not reachable from the origin
	// at all, regardless of service calendars.
	ErrNoRoute = errors.New("no route available")

	// ErrNoService indicates the stops are connected but no service runs
	// within the extended day search window.
	ErrNoService = errors.New("no service within search window")

	// ErrCancelled indicates the scan was cancelled externally.
	ErrCancelled = errors.New("planning cancelled")

	// ErrTimeout indicates the scan ran out of its wall-clock budget.
	ErrTimeout = errors.New("planning timed out")
)
