package models

import (
	"journey.transitgo.org/internal/gtfs"
	"journey.transitgo.org/internal/planner"
)

// StopRef identifies one endpoint of a journey in a response.
type StopRef struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Platform string  `json:"platform,omitempty"`
}

// LegResponse is one leg of a returned journey. Times are HH:MM:SS strings
// in the service day's frame; hours past 24 denote the next calendar day.
type LegResponse struct {
	FromStop          string   `json:"from_stop"`
	ToStop            string   `json:"to_stop"`
	DepartureTime     string   `json:"departure_time"`
	ArrivalTime       string   `json:"arrival_time"`
	DurationSeconds   int      `json:"duration_seconds"`
	RouteShortName    string   `json:"route_short_name,omitempty"`
	RouteType         int      `json:"route_type"`
	ModeDisplay       string   `json:"mode_display"`
	NumStops          int      `json:"num_stops"`
	IntermediateStops []string `json:"intermediate_stops"`
	IsTransfer        bool     `json:"is_transfer"`

	ScheduledDeparture string `json:"scheduled_departure"`
	ScheduledArrival   string `json:"scheduled_arrival"`
	ActualDeparture    string `json:"actual_departure,omitempty"`
	ActualArrival      string `json:"actual_arrival,omitempty"`
	DelaySeconds       int    `json:"delay_seconds"`
	Cancelled          bool   `json:"cancelled"`
	Platform           string `json:"platform,omitempty"`
}

// JourneyResponse is one mode's journey in the outbound response.
type JourneyResponse struct {
	Origin            StopRef       `json:"origin"`
	Destination       StopRef       `json:"destination"`
	DepartureTime     string        `json:"departure_time"`
	ArrivalTime       string        `json:"arrival_time"`
	DurationSeconds   int           `json:"duration_seconds"`
	NumTransfers      int           `json:"num_transfers"`
	Legs              []LegResponse `json:"legs"`
	DateShiftedByDays int           `json:"date_shifted_by_days"`
	HasRealtime       bool          `json:"has_realtime"`
	ValidAfterRT      bool          `json:"valid_after_realtime"`
	Notes             []string      `json:"notes,omitempty"`
}

// ModeSlot is one entry of the per-mode result map: a journey, or null with
// an optional note naming the error kind.
type ModeSlot struct {
	Journey *JourneyResponse `json:"journey"`
	Note    string           `json:"note,omitempty"`
}

// PlanResponse is the full outbound payload of a plan request.
type PlanResponse struct {
	Results map[string]ModeSlot `json:"results"`
}

// ErrorResponse is the boundary error shape. Suggestions carry fuzzy
// candidates for lookup failures.
type ErrorResponse struct {
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// StopMatchResponse is one candidate from the stop search endpoint.
type StopMatchResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// NewJourneyResponse converts a planner journey into the outbound shape.
func NewJourneyResponse(j *planner.Journey, cat *gtfs.Catalogue) *JourneyResponse {
	if j == nil {
		return nil
	}

	resp := &JourneyResponse{
		Origin:            newStopRef(cat, j.OriginStopID),
		Destination:       newStopRef(cat, j.DestinationID),
		DepartureTime:     gtfs.FormatTime(j.Departure),
		ArrivalTime:       gtfs.FormatTime(j.Arrival),
		DurationSeconds:   j.DurationSecs,
		NumTransfers:      j.NumTransfers,
		DateShiftedByDays: j.DateShiftedByDays,
		HasRealtime:       j.HasRealtime,
		ValidAfterRT:      j.ValidAfterRealtime,
		Notes:             j.Notes,
		Legs:              make([]LegResponse, 0, len(j.Legs)),
	}

	for _, leg := range j.Legs {
		lr := LegResponse{
			FromStop:           leg.FromStopName,
			ToStop:             leg.ToStopName,
			DepartureTime:      gtfs.FormatTime(leg.Departure),
			ArrivalTime:        gtfs.FormatTime(leg.Arrival),
			DurationSeconds:    leg.Duration(),
			RouteShortName:     leg.RouteShortName,
			RouteType:          leg.RouteType,
			NumStops:           leg.NumStops,
			IntermediateStops:  leg.IntermediateStops,
			IsTransfer:         leg.IsTransfer,
			ScheduledDeparture: gtfs.FormatTime(leg.Departure),
			ScheduledArrival:   gtfs.FormatTime(leg.Arrival),
			DelaySeconds:       leg.DelaySeconds,
			Cancelled:          leg.Cancelled,
			Platform:           leg.Platform,
		}
		if leg.IsTransfer {
			lr.ModeDisplay = "Walk"
		} else {
			lr.ModeDisplay = ModeDisplay(leg.RouteType)
		}
		if leg.HasRealtime {
			lr.ActualDeparture = gtfs.FormatTime(leg.ActualDeparture)
			lr.ActualArrival = gtfs.FormatTime(leg.ActualArrival)
		}
		if lr.IntermediateStops == nil {
			lr.IntermediateStops = []string{}
		}
		resp.Legs = append(resp.Legs, lr)
	}

	return resp
}

func newStopRef(cat *gtfs.Catalogue, id string) StopRef {
	ref := StopRef{ID: id, Name: id}
	if s, ok := cat.Stop(id); ok {
		ref.Name = s.Name
		ref.Lat = s.Lat
		ref.Lon = s.Lon
		ref.Platform = s.Platform
	}
	return ref
}
