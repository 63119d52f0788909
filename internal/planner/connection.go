package planner

import (
	"sort"

	"journey.transitgo.org/internal/gtfs"
)

// daySecs is one service day in seconds. GTFS times past this value belong
// to the next calendar day of the same service day.
const daySecs = 86400

// Connection is a single timetabled hop between two consecutive stops on one
// trip, or a feed-declared transfer. It is the scanner's atomic unit. All ids
// are in global (mode-prefixed) form. Transfer connections carry an empty
// TripID and relative times: Dep is zero and Arr holds the minimum transfer
// duration; the planner assigns absolute times when it considers the walk.
type Connection struct {
	From      string
	To        string
	Dep       int
	Arr       int
	TripID    string
	RouteID   string
	RouteType int
	ServiceID string
	ModeTag   string
}

// IsTransfer reports whether the connection is a feed-declared walk rather
// than a timetabled hop.
func (c Connection) IsTransfer() bool {
	return c.TripID == ""
}

// BuildConnections flattens every trip in the catalogue into elementary
// point-to-point connections and appends transfer connections from the
// feeds' transfer records. The result is sorted by departure time with a
// stable tie-break on arrival, origin stop and trip id; that ordering is the
// single source of truth for scan order.
func BuildConnections(cat *gtfs.Catalogue) []Connection {
	var conns []Connection

	for _, tripID := range cat.TripIDs() {
		trip, _ := cat.Trip(tripID)
		route, _ := cat.Route(gtfs.GlobalID(trip.ModeTag, trip.RouteID))

		routeID := gtfs.GlobalID(trip.ModeTag, trip.RouteID)
		routeType := 0
		if route != nil {
			routeType = route.Type
		}
		serviceID := ""
		if trip.ServiceID != "" {
			serviceID = gtfs.GlobalID(trip.ModeTag, trip.ServiceID)
		}

		sts := cat.StopTimes(tripID)
		for i := 0; i+1 < len(sts); i++ {
			a, b := sts[i], sts[i+1]
			conns = append(conns, Connection{
				From:      a.StopID,
				To:        b.StopID,
				Dep:       a.Departure,
				Arr:       b.Arrival,
				TripID:    tripID,
				RouteID:   routeID,
				RouteType: routeType,
				ServiceID: serviceID,
				ModeTag:   trip.ModeTag,
			})
		}
	}

	for _, mode := range cat.Modes() {
		feed, _ := cat.Feed(mode)
		for _, tr := range feed.Transfers {
			from := gtfs.GlobalID(mode, tr.FromStopID)
			to := gtfs.GlobalID(mode, tr.ToStopID)
			if _, ok := cat.Stop(from); !ok {
				continue
			}
			if _, ok := cat.Stop(to); !ok {
				continue
			}
			conns = append(conns, Connection{
				From:    from,
				To:      to,
				Dep:     0,
				Arr:     tr.MinTransferSecs,
				ModeTag: mode,
			})
		}
	}

	SortConnections(conns)
	return conns
}

// SortConnections orders a connection slice by departure time ascending with
// total tie-breaks, so two builds of the same catalogue scan identically.
func SortConnections(conns []Connection) {
	sort.SliceStable(conns, func(i, j int) bool {
		a, b := conns[i], conns[j]
		if a.Dep != b.Dep {
			return a.Dep < b.Dep
		}
		if a.Arr != b.Arr {
			return a.Arr < b.Arr
		}
		if a.From != b.From {
			return a.From < b.From
		}
		return a.TripID < b.TripID
	})
}

// FilterByMode keeps the connections belonging to one mode bundle. The
// relative order of the retained connections is unchanged, so the result is
// still scan-ordered.
func FilterByMode(conns []Connection, modeTag string) []Connection {
	var out []Connection
	for _, c := range conns {
		if c.ModeTag == modeTag {
			out = append(out, c)
		}
	}
	return out
}
