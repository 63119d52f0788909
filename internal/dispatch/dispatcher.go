// Package dispatch fans one journey request out to an independent planner
// per transport mode and collects the per-mode results. Cross-mode chaining
// is deliberately not attempted: modes that share no physical stop in the
// feeds cannot be composed correctly from the connection arrays alone.
package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"journey.transitgo.org/internal/gtfs"
	"journey.transitgo.org/internal/logging"
	"journey.transitgo.org/internal/planner"
	"journey.transitgo.org/internal/realtime"
)

// DefaultTimeout is the per-request wall-clock budget.
const DefaultTimeout = 10 * time.Second

// Notes attached to a mode slot when it cannot produce a journey. They name
// error kinds, not Go types, so the HTTP façade can surface them directly.
const (
	NoteNoRoute             = "NoRoute"
	NoteNoService           = "NoServiceIn7Days"
	NoteTimeout             = "Timeout"
	NoteCancelled           = "Cancelled"
	NoteRateLimited         = "RateLimited"
	NoteUpstreamUnavailable = "UpstreamUnavailable"
	NoteMalformedRealtime   = "MalformedRealtime"
)

// Request is one origin/destination planning request with stop ids already
// resolved to global form.
type Request struct {
	OriginID      string
	DestinationID string
	DepartureSecs int
	Date          time.Time
	Realtime      bool

	// Modes restricts the search; empty means every configured mode.
	Modes []string
}

// ModeResult is one mode's slot in the response: a journey, or nil with an
// optional note explaining why.
type ModeResult struct {
	Journey *planner.Journey
	Note    string
}

// Dispatcher owns one mode-scoped planner per mode tag. Each planner runs a
// state machine per request: scanning the requested day, then retrying
// following days until found or the window is exhausted. Planners share no
// mutable state, so modes run concurrently.
type Dispatcher struct {
	cat             *gtfs.Catalogue
	planners        map[string]*planner.Planner
	fetcher         *realtime.Fetcher
	minTransferSecs int
	timeout         time.Duration
	logger          *slog.Logger
}

// New builds the dispatcher from the full connection array, slicing it per
// mode. fetcher may be nil when realtime is not configured.
func New(cat *gtfs.Catalogue, calendar *planner.Calendar, conns []planner.Connection, opts planner.Options, fetcher *realtime.Fetcher, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	d := &Dispatcher{
		cat:             cat,
		planners:        make(map[string]*planner.Planner),
		fetcher:         fetcher,
		minTransferSecs: opts.MinTransferSecs,
		timeout:         timeout,
		logger:          logger,
	}
	if d.minTransferSecs <= 0 {
		d.minTransferSecs = planner.DefaultMinTransferSecs
	}

	for _, mode := range cat.Modes() {
		d.planners[mode] = planner.New(cat, calendar, planner.FilterByMode(conns, mode), opts, logger)
	}
	return d
}

// Modes returns the mode tags the dispatcher can plan over.
func (d *Dispatcher) Modes() []string {
	return d.cat.Modes()
}

// Plan runs every requested mode concurrently under the wall-clock budget
// and returns a slot per mode. A mode that does not serve both endpoints
// reports nil with no note; planner failures map to the note constants
// above.
func (d *Dispatcher) Plan(ctx context.Context, req Request) map[string]ModeResult {
	modes := req.Modes
	if len(modes) == 0 {
		modes = d.cat.Modes()
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	results := make(map[string]ModeResult, len(modes))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, mode := range modes {
		p, ok := d.planners[mode]
		if !ok {
			continue
		}

		wg.Add(1)
		go func(mode string, p *planner.Planner) {
			defer wg.Done()
			res := d.planMode(ctx, mode, p, req)
			mu.Lock()
			results[mode] = res
			mu.Unlock()
		}(mode, p)
	}

	wg.Wait()
	return results
}

func (d *Dispatcher) planMode(ctx context.Context, mode string, p *planner.Planner, req Request) ModeResult {
	feed, _ := d.cat.Feed(mode)

	origin, ok := scopeStopID(feed, mode, req.OriginID)
	if !ok {
		return ModeResult{}
	}
	dest, ok := scopeStopID(feed, mode, req.DestinationID)
	if !ok {
		return ModeResult{}
	}

	start := time.Now()
	j, err := p.Plan(ctx, origin, dest, req.DepartureSecs, req.Date)
	logging.LogOperation(d.logger, "mode_planned",
		slog.String("mode", mode),
		slog.Duration("duration", time.Since(start)),
		slog.Bool("found", j != nil))

	if err != nil {
		return ModeResult{Note: noteForErr(err)}
	}

	if req.Realtime && j != nil && len(j.Legs) > 0 {
		d.overlay(ctx, mode, j)
	}
	return ModeResult{Journey: j}
}

// overlay applies best-effort realtime adjustment. Overlay failures never
// invalidate the scheduled journey; they are recorded as notes.
func (d *Dispatcher) overlay(ctx context.Context, mode string, j *planner.Journey) {
	if d.fetcher == nil || !d.fetcher.Enabled() {
		return
	}

	blob, err := d.fetcher.TripUpdates(ctx, mode)
	if err != nil {
		switch {
		case errors.Is(err, realtime.ErrRateLimited):
			j.Notes = append(j.Notes, NoteRateLimited)
		case errors.Is(err, realtime.ErrUnknownMode), errors.Is(err, realtime.ErrNoAPIKey):
			// No feed for this mode; nothing to report.
		default:
			j.Notes = append(j.Notes, NoteUpstreamUnavailable)
		}
		logging.LogError(d.logger, "realtime fetch skipped", err, slog.String("mode", mode))
		return
	}

	if err := realtime.ApplyTripUpdates(j, blob, d.minTransferSecs, d.logger); err != nil {
		j.Notes = append(j.Notes, NoteMalformedRealtime)
		logging.LogError(d.logger, "realtime overlay skipped", err, slog.String("mode", mode))
	}
}

// scopeStopID maps a global stop id onto a mode's bundle by raw id, so a
// stop that exists in several bundles plans in each of them.
func scopeStopID(feed *gtfs.Feed, mode, id string) (string, bool) {
	_, raw, ok := gtfs.SplitGlobalID(id)
	if !ok {
		raw = id
	}
	if feed == nil {
		return "", false
	}
	if _, ok := feed.Stops[raw]; !ok {
		return "", false
	}
	return gtfs.GlobalID(mode, raw), true
}

func noteForErr(err error) string {
	switch {
	case errors.Is(err, planner.ErrNoRoute):
		return NoteNoRoute
	case errors.Is(err, planner.ErrNoService):
		return NoteNoService
	case errors.Is(err, planner.ErrTimeout):
		return NoteTimeout
	case errors.Is(err, planner.ErrCancelled):
		return NoteCancelled
	default:
		return err.Error()
	}
}
