package gtfs

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"journey.transitgo.org/internal/logging"
)

// ModeBundle names one GTFS bundle and the mode tag it is loaded under.
type ModeBundle struct {
	ModeTag string
	Path    string
}

// GlobalID synthesises the catalogue-wide id for a raw feed id. Separate mode
// bundles may reuse raw ids (stop "19854" can be two different stops in two
// feeds), so all public ids carry the mode tag.
func GlobalID(modeTag, rawID string) string {
	return modeTag + ":" + rawID
}

// SplitGlobalID breaks a global id back into its mode tag and raw id.
func SplitGlobalID(id string) (modeTag, rawID string, ok bool) {
	i := strings.Index(id, ":")
	if i <= 0 || i == len(id)-1 {
		return "", "", false
	}
	return id[:i], id[i+1:], true
}

// Catalogue merges several mode-tagged feeds into one addressable store.
// It is built once at startup and read-only thereafter, so lookups need no
// locking.
type Catalogue struct {
	modeOrder []string
	feeds     map[string]*Feed

	stops  map[string]*Stop
	routes map[string]*Route
	trips  map[string]*Trip

	// stopTimes is keyed by global trip id; stop ids inside are rewritten
	// to global form so the planner never sees raw ids.
	stopTimes map[string][]StopTime
}

// BuildCatalogue loads every bundle in order and merges them. The merge is
// deterministic: when the same global id appears twice, byte-identical
// records dedupe silently and otherwise the earlier-listed bundle wins with
// a DuplicateId warning naming both sources.
func BuildCatalogue(bundles []ModeBundle, logger *slog.Logger) (*Catalogue, error) {
	if len(bundles) == 0 {
		return nil, fmt.Errorf("no mode bundles configured")
	}

	cat := &Catalogue{
		feeds:     make(map[string]*Feed),
		stops:     make(map[string]*Stop),
		routes:    make(map[string]*Route),
		trips:     make(map[string]*Trip),
		stopTimes: make(map[string][]StopTime),
	}

	for _, b := range bundles {
		feed, err := LoadFeed(b.Path, b.ModeTag, logger)
		if err != nil {
			return nil, fmt.Errorf("loading bundle %s (%s): %w", b.ModeTag, b.Path, err)
		}

		if existing, ok := cat.feeds[b.ModeTag]; ok {
			cat.mergeFeed(existing, feed, b, logger)
			continue
		}

		cat.feeds[b.ModeTag] = feed
		cat.modeOrder = append(cat.modeOrder, b.ModeTag)
		cat.indexFeed(feed)
	}

	return cat, nil
}

func (cat *Catalogue) indexFeed(feed *Feed) {
	for rawID, stop := range feed.Stops {
		cat.stops[GlobalID(feed.ModeTag, rawID)] = stop
	}
	for rawID, route := range feed.Routes {
		cat.routes[GlobalID(feed.ModeTag, rawID)] = route
	}
	for rawID, trip := range feed.Trips {
		cat.trips[GlobalID(feed.ModeTag, rawID)] = trip
	}
	for rawTripID, sts := range feed.StopTimesByTrip {
		global := make([]StopTime, len(sts))
		for i, st := range sts {
			st.TripID = GlobalID(feed.ModeTag, st.TripID)
			st.StopID = GlobalID(feed.ModeTag, st.StopID)
			global[i] = st
		}
		cat.stopTimes[GlobalID(feed.ModeTag, rawTripID)] = global
	}
}

// mergeFeed folds a second bundle loaded under an already-seen mode tag into
// the catalogue. Identical records dedupe silently; conflicting ones keep the
// earlier bundle's record and warn.
func (cat *Catalogue) mergeFeed(existing, incoming *Feed, b ModeBundle, logger *slog.Logger) {
	for rawID, stop := range incoming.Stops {
		id := GlobalID(incoming.ModeTag, rawID)
		prior, ok := cat.stops[id]
		if !ok {
			cat.stops[id] = stop
			existing.Stops[rawID] = stop
			continue
		}
		if *prior != *stop {
			logger.Warn("DuplicateId",
				slog.String("id", id),
				slog.String("kept_source", existing.ModeTag),
				slog.String("dropped_source", b.Path))
		}
	}
	for rawID, route := range incoming.Routes {
		id := GlobalID(incoming.ModeTag, rawID)
		prior, ok := cat.routes[id]
		if !ok {
			cat.routes[id] = route
			existing.Routes[rawID] = route
			continue
		}
		if *prior != *route {
			logger.Warn("DuplicateId",
				slog.String("id", id),
				slog.String("kept_source", existing.ModeTag),
				slog.String("dropped_source", b.Path))
		}
	}
	for rawID, trip := range incoming.Trips {
		id := GlobalID(incoming.ModeTag, rawID)
		prior, ok := cat.trips[id]
		if !ok {
			cat.trips[id] = trip
			existing.Trips[rawID] = trip
			cat.stopTimes[id] = rewriteStopTimes(incoming.ModeTag, incoming.StopTimesByTrip[rawID])
			existing.StopTimesByTrip[rawID] = incoming.StopTimesByTrip[rawID]
			continue
		}
		if *prior != *trip {
			logger.Warn("DuplicateId",
				slog.String("id", id),
				slog.String("kept_source", existing.ModeTag),
				slog.String("dropped_source", b.Path))
		}
	}

	existing.CalendarDates = append(existing.CalendarDates, incoming.CalendarDates...)
	existing.Transfers = append(existing.Transfers, incoming.Transfers...)
	for id, c := range incoming.Calendars {
		if _, ok := existing.Calendars[id]; !ok {
			existing.Calendars[id] = c
		}
	}
	existing.HasCalendar = existing.HasCalendar || incoming.HasCalendar

	logging.LogOperation(logger, "gtfs_bundle_merged",
		slog.String("mode", b.ModeTag), slog.String("path", b.Path))
}

func rewriteStopTimes(modeTag string, sts []StopTime) []StopTime {
	global := make([]StopTime, len(sts))
	for i, st := range sts {
		st.TripID = GlobalID(modeTag, st.TripID)
		st.StopID = GlobalID(modeTag, st.StopID)
		global[i] = st
	}
	return global
}

// Stop looks up a stop by global id, (mode, raw) via StopByMode, or bare raw
// id. Bare raw ids are searched across bundles in load order, so the
// earlier-listed bundle wins when feeds reuse an id.
func (cat *Catalogue) Stop(id string) (*Stop, bool) {
	if s, ok := cat.stops[id]; ok {
		return s, true
	}
	for _, mode := range cat.modeOrder {
		if s, ok := cat.stops[GlobalID(mode, id)]; ok {
			return s, true
		}
	}
	return nil, false
}

// StopByMode looks up a stop by its (mode_tag, raw_id) pair.
func (cat *Catalogue) StopByMode(modeTag, rawID string) (*Stop, bool) {
	s, ok := cat.stops[GlobalID(modeTag, rawID)]
	return s, ok
}

// ResolveStopID normalises a stop id (global or raw) to global form.
func (cat *Catalogue) ResolveStopID(id string) (string, bool) {
	if _, ok := cat.stops[id]; ok {
		return id, true
	}
	for _, mode := range cat.modeOrder {
		if gid := GlobalID(mode, id); cat.stops[gid] != nil {
			return gid, true
		}
	}
	return "", false
}

// Route looks up a route by global or raw id.
func (cat *Catalogue) Route(id string) (*Route, bool) {
	if r, ok := cat.routes[id]; ok {
		return r, true
	}
	for _, mode := range cat.modeOrder {
		if r, ok := cat.routes[GlobalID(mode, id)]; ok {
			return r, true
		}
	}
	return nil, false
}

// Trip looks up a trip by global or raw id.
func (cat *Catalogue) Trip(id string) (*Trip, bool) {
	if t, ok := cat.trips[id]; ok {
		return t, true
	}
	for _, mode := range cat.modeOrder {
		if t, ok := cat.trips[GlobalID(mode, id)]; ok {
			return t, true
		}
	}
	return nil, false
}

// StopTimes returns the ordered stop times for a trip, keyed by global trip
// id, with all embedded ids already in global form.
func (cat *Catalogue) StopTimes(tripID string) []StopTime {
	return cat.stopTimes[tripID]
}

// Stops iterates every stop in the catalogue in deterministic (sorted global
// id) order.
func (cat *Catalogue) Stops() []*Stop {
	ids := make([]string, 0, len(cat.stops))
	for id := range cat.stops {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	stops := make([]*Stop, len(ids))
	for i, id := range ids {
		stops[i] = cat.stops[id]
	}
	return stops
}

// StopIDs returns every global stop id in sorted order.
func (cat *Catalogue) StopIDs() []string {
	ids := make([]string, 0, len(cat.stops))
	for id := range cat.stops {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TripIDs returns every global trip id in sorted order.
func (cat *Catalogue) TripIDs() []string {
	ids := make([]string, 0, len(cat.trips))
	for id := range cat.trips {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Modes returns the configured mode tags in load order.
func (cat *Catalogue) Modes() []string {
	out := make([]string, len(cat.modeOrder))
	copy(out, cat.modeOrder)
	return out
}

// Feed returns the merged feed loaded under a mode tag.
func (cat *Catalogue) Feed(modeTag string) (*Feed, bool) {
	f, ok := cat.feeds[modeTag]
	return f, ok
}

// StopName resolves a global stop id to its display name, falling back to
// the id itself for unknown stops.
func (cat *Catalogue) StopName(id string) string {
	if s, ok := cat.stops[id]; ok {
		return s.Name
	}
	return id
}
