package planner

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"journey.transitgo.org/internal/gtfs"
)

// cancelCheckInterval bounds how many connections are scanned between
// cancellation checks.
const cancelCheckInterval = 4096

// Options tunes a planner. Zero values fall back to the defaults below.
type Options struct {
	MinTransferSecs  int
	MaxNextDaySearch int
}

const (
	DefaultMinTransferSecs  = 120
	DefaultMaxNextDaySearch = 7
)

func (o Options) withDefaults() Options {
	if o.MinTransferSecs <= 0 {
		o.MinTransferSecs = DefaultMinTransferSecs
	}
	if o.MaxNextDaySearch <= 0 {
		o.MaxNextDaySearch = DefaultMaxNextDaySearch
	}
	return o
}

// Planner finds earliest-arrival journeys over a fixed connection array
// using the connection scan algorithm. The planner itself is immutable after
// construction; all scan state is request-local, so one Planner serves
// concurrent requests without locking.
type Planner struct {
	cat      *gtfs.Catalogue
	calendar *Calendar

	// transit holds the timetabled connections in scan order. wrapped
	// indexes the ones departing past midnight, which are also eligible on
	// the following day with their times normalised.
	transit   []Connection
	wrapped   []int
	transfers map[string][]Connection

	opts   Options
	logger *slog.Logger
}

// New builds a planner over a pre-sorted connection array (see
// BuildConnections). Transfer connections are split out of the scan order
// and indexed by origin stop; the planner assigns them absolute times when
// an arrival makes the walk possible.
func New(cat *gtfs.Catalogue, calendar *Calendar, conns []Connection, opts Options, logger *slog.Logger) *Planner {
	p := &Planner{
		cat:       cat,
		calendar:  calendar,
		transfers: make(map[string][]Connection),
		opts:      opts.withDefaults(),
		logger:    logger,
	}

	for _, c := range conns {
		if c.IsTransfer() {
			p.transfers[c.From] = append(p.transfers[c.From], c)
			continue
		}
		p.transit = append(p.transit, c)
	}
	for i, c := range p.transit {
		if c.Dep >= daySecs {
			p.wrapped = append(p.wrapped, i)
		}
	}

	return p
}

// Plan finds the earliest-arrival journey from origin to destination
// departing no earlier than depSecs on date. When no service is reachable on
// the requested date the search advances day by day, restarting from
// midnight, before giving up with ErrNoService; a destination that is not
// connected at all yields ErrNoRoute instead. Cancellation of ctx is honoured
// between scan iterations and reported as ErrCancelled or ErrTimeout.
func (p *Planner) Plan(ctx context.Context, originID, destID string, depSecs int, date time.Time) (*Journey, error) {
	origin, ok := p.cat.Stop(originID)
	if !ok {
		return nil, ErrUnknownStop
	}
	dest, ok := p.cat.Stop(destID)
	if !ok {
		return nil, ErrUnknownStop
	}

	if originID == destID {
		j := &Journey{
			OriginStopID:       originID,
			OriginName:         origin.Name,
			DestinationID:      destID,
			DestinationName:    dest.Name,
			ServiceDate:        date,
			Departure:          depSecs,
			Arrival:            depSecs,
			ValidAfterRealtime: true,
		}
		return j, nil
	}

	for shift := 0; shift <= p.opts.MaxNextDaySearch; shift++ {
		day := date.AddDate(0, 0, shift)
		dep := depSecs
		if shift > 0 {
			dep = 0
		}

		j, err := p.scan(ctx, originID, destID, dep, day, true)
		if err != nil {
			return nil, err
		}
		if j != nil {
			j.ServiceDate = day
			j.DateShiftedByDays = shift
			if shift > 0 && p.logger != nil {
				p.logger.Debug("journey found after date shift",
					slog.String("origin", originID),
					slog.String("destination", destID),
					slog.Int("days", shift))
			}
			return j, nil
		}
	}

	// Nothing in the window. Decide between "never connected" and "no
	// service right now" with a calendar-blind probe.
	probe, err := p.scan(ctx, originID, destID, 0, date, false)
	if err != nil {
		return nil, err
	}
	if probe == nil {
		return nil, ErrNoRoute
	}
	return nil, ErrNoService
}

// scan runs one connection-scan pass for a single service day. It merges two
// ordered streams: yesterday's past-midnight connections with their times
// normalised into today's frame, and today's connections as-is. Returns nil
// when the destination was not reached.
func (p *Planner) scan(ctx context.Context, origin, dest string, depSecs int, day time.Time, useCalendar bool) (*Journey, error) {
	if err := ctx.Err(); err != nil {
		return nil, mapContextErr(err)
	}

	earliest := map[string]int{origin: depSecs}
	incoming := make(map[string]Connection)
	prevDay := day.AddDate(0, 0, -1)
	bestArr := math.MaxInt

	// Walks out of the origin are available immediately.
	p.relaxTransfers(origin, depSecs, earliest, incoming, dest, &bestArr)

	wi, ti := 0, 0
	checked := 0

	for wi < len(p.wrapped) || ti < len(p.transit) {
		checked++
		if checked%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, mapContextErr(err)
			}
		}

		var c Connection
		var dep, arr int
		var serviceDay time.Time
		fromWrapped := false

		if wi < len(p.wrapped) {
			w := p.transit[p.wrapped[wi]]
			if ti >= len(p.transit) || w.Dep-daySecs <= p.transit[ti].Dep {
				c, dep, arr = w, w.Dep-daySecs, w.Arr-daySecs
				serviceDay = prevDay
				fromWrapped = true
			}
		}
		if !fromWrapped {
			c = p.transit[ti]
			dep, arr = c.Dep, c.Arr
			serviceDay = day
		}

		advance := func() {
			if fromWrapped {
				wi++
			} else {
				ti++
			}
		}

		if bestArr != math.MaxInt && dep > bestArr {
			break
		}

		eaFrom, reached := earliest[c.From]
		if !reached || dep < eaFrom {
			advance()
			continue
		}

		if useCalendar && c.ServiceID != "" && !p.calendar.IsActive(c.ServiceID, serviceDay) {
			advance()
			continue
		}

		// Transfer-time floor: boarding a different trip needs a minimum
		// dwell unless the stop was reached by a walk, which already
		// consumed the transfer time.
		if inc, ok := incoming[c.From]; ok && !inc.IsTransfer() && inc.TripID != c.TripID && dep-eaFrom < p.opts.MinTransferSecs {
			advance()
			continue
		}

		if cur, ok := earliest[c.To]; !ok || arr < cur {
			earliest[c.To] = arr
			materialised := c
			materialised.Dep = dep
			materialised.Arr = arr
			incoming[c.To] = materialised
			if c.To == dest && arr < bestArr {
				bestArr = arr
			}
			p.relaxTransfers(c.To, arr, earliest, incoming, dest, &bestArr)
		}

		advance()
	}

	if _, ok := incoming[dest]; !ok {
		return nil, nil
	}
	return p.reconstruct(origin, dest, incoming), nil
}

// relaxTransfers follows feed-declared walks out of a stop whose arrival
// time just improved, assigning the walk absolute times. Walks chain until
// no further improvement is possible.
func (p *Planner) relaxTransfers(stop string, arr int, earliest map[string]int, incoming map[string]Connection, dest string, bestArr *int) {
	for _, t := range p.transfers[stop] {
		walkArr := arr + (t.Arr - t.Dep)
		if cur, ok := earliest[t.To]; ok && walkArr >= cur {
			continue
		}
		earliest[t.To] = walkArr
		materialised := t
		materialised.Dep = arr
		materialised.Arr = walkArr
		incoming[t.To] = materialised
		if t.To == dest && walkArr < *bestArr {
			*bestArr = walkArr
		}
		p.relaxTransfers(t.To, walkArr, earliest, incoming, dest, bestArr)
	}
}

// reconstruct walks the incoming-connection chain backwards from the
// destination and groups it into legs.
func (p *Planner) reconstruct(origin, dest string, incoming map[string]Connection) *Journey {
	var path []Connection
	cur := dest
	for cur != origin {
		c, ok := incoming[cur]
		if !ok {
			return nil
		}
		path = append(path, c)
		cur = c.From
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	originStop, _ := p.cat.Stop(origin)
	destStop, _ := p.cat.Stop(dest)

	j := &Journey{
		OriginStopID:       origin,
		OriginName:         originStop.Name,
		DestinationID:      dest,
		DestinationName:    destStop.Name,
		Legs:               p.buildLegs(path),
		ValidAfterRealtime: true,
	}
	j.finalise()
	return j
}

// buildLegs groups consecutive connections on the same trip into transit
// legs, turns walk connections into transfer legs, and inserts a synthetic
// dwell transfer leg where the journey changes trips at one stop without a
// feed-declared walk.
func (p *Planner) buildLegs(path []Connection) []Leg {
	var legs []Leg
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i].IsTransfer() {
			if i > start {
				legs = append(legs, p.transitLeg(path[start:i]))
			}
			legs = append(legs, p.transferLeg(path[i]))
			start = i + 1
			continue
		}
		if i > start && path[i].TripID != path[start].TripID {
			legs = append(legs, p.transitLeg(path[start:i]))
			start = i
		}
	}
	if start < len(path) {
		legs = append(legs, p.transitLeg(path[start:]))
	}

	out := make([]Leg, 0, len(legs))
	for _, leg := range legs {
		if n := len(out); n > 0 && !out[n-1].IsTransfer && !leg.IsTransfer {
			interchange := leg
			out = append(out, Leg{
				FromStopID:      interchange.FromStopID,
				FromStopName:    interchange.FromStopName,
				ToStopID:        interchange.FromStopID,
				ToStopName:      interchange.FromStopName,
				IsTransfer:      true,
				Departure:       out[n-1].Arrival,
				Arrival:         interchange.Departure,
				ActualDeparture: out[n-1].Arrival,
				ActualArrival:   interchange.Departure,
				NumStops:        0,
			})
		}
		out = append(out, leg)
	}
	return out
}

func (p *Planner) transitLeg(conns []Connection) Leg {
	first, last := conns[0], conns[len(conns)-1]

	shortName := ""
	if route, ok := p.cat.Route(first.RouteID); ok {
		shortName = route.ShortName
		if shortName == "" {
			shortName = route.LongName
		}
	}

	var intermediates []string
	for i := 0; i+1 < len(conns); i++ {
		intermediates = append(intermediates, p.cat.StopName(conns[i].To))
	}

	platform := ""
	if s, ok := p.cat.Stop(first.From); ok {
		platform = s.Platform
	}

	return Leg{
		FromStopID:        first.From,
		FromStopName:      p.cat.StopName(first.From),
		ToStopID:          last.To,
		ToStopName:        p.cat.StopName(last.To),
		TripID:            first.TripID,
		RouteID:           first.RouteID,
		RouteShortName:    shortName,
		RouteType:         first.RouteType,
		Departure:         first.Dep,
		Arrival:           last.Arr,
		ActualDeparture:   first.Dep,
		ActualArrival:     last.Arr,
		Platform:          platform,
		IntermediateStops: intermediates,
		NumStops:          len(conns) + 1,
	}
}

func (p *Planner) transferLeg(c Connection) Leg {
	return Leg{
		FromStopID:      c.From,
		FromStopName:    p.cat.StopName(c.From),
		ToStopID:        c.To,
		ToStopName:      p.cat.StopName(c.To),
		IsTransfer:      true,
		Departure:       c.Dep,
		Arrival:         c.Arr,
		ActualDeparture: c.Dep,
		ActualArrival:   c.Arr,
	}
}

func mapContextErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return ErrCancelled
}
