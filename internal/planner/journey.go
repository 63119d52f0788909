package planner

import "time"

// Leg is one contiguous segment of a journey: either a ride on a single trip
// or a walk between stops at an interchange, never both. Times are seconds
// from midnight of the journey's service day. Actual times equal the
// scheduled ones until a realtime overlay adjusts them.
type Leg struct {
	FromStopID   string
	FromStopName string
	ToStopID     string
	ToStopName   string

	TripID         string
	RouteID        string
	RouteShortName string
	RouteType      int
	IsTransfer     bool

	Departure int
	Arrival   int

	ActualDeparture int
	ActualArrival   int
	DelaySeconds    int
	Cancelled       bool
	HasRealtime     bool
	Platform        string

	// IntermediateStops lists the names of stops traversed strictly between
	// the leg's endpoints. NumStops counts endpoints plus intermediates.
	IntermediateStops []string
	NumStops          int
}

// Duration returns the leg's scheduled duration in seconds.
func (l Leg) Duration() int {
	return l.Arrival - l.Departure
}

// Journey is a complete origin-to-destination itinerary. Departure and
// Arrival come from the first and last non-transfer legs; synthetic transfer
// legs never define the envelope.
type Journey struct {
	OriginStopID    string
	OriginName      string
	DestinationID   string
	DestinationName string

	ServiceDate       time.Time
	DateShiftedByDays int

	Departure    int
	Arrival      int
	DurationSecs int
	NumTransfers int

	Legs []Leg

	HasRealtime        bool
	ValidAfterRealtime bool
	Notes              []string
}

// finalise computes the journey envelope from the legs. The duration adds a
// day when the arrival is numerically earlier than the departure, which
// happens when a leg wraps past midnight.
func (j *Journey) finalise() {
	var first, last *Leg
	for i := range j.Legs {
		if j.Legs[i].IsTransfer {
			continue
		}
		if first == nil {
			first = &j.Legs[i]
		}
		last = &j.Legs[i]
	}
	if first == nil && len(j.Legs) > 0 {
		first = &j.Legs[0]
		last = &j.Legs[len(j.Legs)-1]
	}
	if first == nil {
		return
	}

	j.Departure = first.Departure
	j.Arrival = last.Arrival
	j.DurationSecs = j.Arrival - j.Departure
	if j.DurationSecs < 0 {
		j.DurationSecs += daySecs
	}

	j.NumTransfers = 0
	for _, l := range j.Legs {
		if l.IsTransfer {
			j.NumTransfers++
		}
	}
}
