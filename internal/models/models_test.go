package models

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journey.transitgo.org/internal/gtfs"
	"journey.transitgo.org/internal/planner"
)

func TestModeDisplay(t *testing.T) {
	testCases := []struct {
		routeType int
		want      string
	}{
		{0, "Tram"},
		{900, "Tram"},
		{1, "Metro"},
		{400, "Metro"},
		{2, "Train"},
		{102, "Train"},
		{3, "Bus"},
		{204, "Bus"},
		{700, "Bus"},
		{701, "Bus"},
		{4, "Ferry"},
		{9999, "Transit"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, ModeDisplay(tc.routeType), "route_type %d", tc.routeType)
	}
}

func TestNewJourneyResponse(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cat, err := gtfs.BuildCatalogue([]gtfs.ModeBundle{
		{ModeTag: "vline", Path: "../gtfs/testdata/vline"},
	}, logger)
	require.NoError(t, err)

	j := &planner.Journey{
		OriginStopID:       "vline:TAR",
		OriginName:         "Tarneit Station",
		DestinationID:      "vline:WAU",
		DestinationName:    "Waurn Ponds Station",
		Departure:          14*3600 + 17*60,
		Arrival:            15*3600 + 8*60,
		DurationSecs:       51 * 60,
		NumTransfers:       1,
		DateShiftedByDays:  0,
		ValidAfterRealtime: true,
		Legs: []planner.Leg{
			{
				FromStopID: "vline:TAR", FromStopName: "Tarneit Station",
				ToStopID: "vline:GEE", ToStopName: "Geelong Station",
				TripID: "vline:GEL-1417", RouteType: 2, RouteShortName: "Geelong",
				Departure: 14*3600 + 17*60, Arrival: 14*3600 + 51*60,
				ActualDeparture: 14*3600 + 17*60, ActualArrival: 14*3600 + 51*60,
				NumStops:          7,
				IntermediateStops: []string{"Wyndham Vale Station"},
			},
			{
				FromStopID: "vline:GEE", FromStopName: "Geelong Station",
				ToStopID: "vline:GEE", ToStopName: "Geelong Station",
				IsTransfer: true,
				Departure:  14*3600 + 51*60, Arrival: 14*3600 + 54*60,
			},
		},
	}

	resp := NewJourneyResponse(j, cat)
	require.NotNil(t, resp)

	assert.Equal(t, "vline:TAR", resp.Origin.ID)
	assert.Equal(t, "Tarneit Station", resp.Origin.Name)
	assert.InDelta(t, -37.832, resp.Origin.Lat, 0.001)
	assert.Equal(t, "14:17:00", resp.DepartureTime)
	assert.Equal(t, "15:08:00", resp.ArrivalTime)
	assert.Equal(t, 51*60, resp.DurationSeconds)
	assert.True(t, resp.ValidAfterRT)

	require.Len(t, resp.Legs, 2)
	leg := resp.Legs[0]
	assert.Equal(t, "Train", leg.ModeDisplay)
	assert.Equal(t, "14:17:00", leg.ScheduledDeparture)
	assert.Equal(t, "14:51:00", leg.ScheduledArrival)
	// No realtime applied: actual fields stay empty.
	assert.Empty(t, leg.ActualDeparture)
	assert.Equal(t, 34*60, leg.DurationSeconds)

	walk := resp.Legs[1]
	assert.Equal(t, "Walk", walk.ModeDisplay)
	assert.True(t, walk.IsTransfer)
	assert.NotNil(t, walk.IntermediateStops)
	assert.Empty(t, walk.IntermediateStops)
}

func TestNewJourneyResponseNil(t *testing.T) {
	assert.Nil(t, NewJourneyResponse(nil, nil))
}

func TestNewJourneyResponseRealtimeFields(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cat, err := gtfs.BuildCatalogue([]gtfs.ModeBundle{
		{ModeTag: "vline", Path: "../gtfs/testdata/vline"},
	}, logger)
	require.NoError(t, err)

	j := &planner.Journey{
		OriginStopID:       "vline:GEE",
		DestinationID:      "vline:WAU",
		Departure:          23*3600 + 50*60,
		Arrival:            24*3600 + 10*60,
		DurationSecs:       20 * 60,
		HasRealtime:        true,
		ValidAfterRealtime: true,
		Legs: []planner.Leg{
			{
				FromStopID: "vline:GEE", FromStopName: "Geelong Station",
				ToStopID: "vline:WAU", ToStopName: "Waurn Ponds Station",
				TripID: "vline:GEL-2350", RouteType: 2,
				Departure: 23*3600 + 50*60, Arrival: 24*3600 + 10*60,
				ActualDeparture: 23*3600 + 52*60, ActualArrival: 24*3600 + 12*60,
				DelaySeconds: 120, HasRealtime: true,
				NumStops: 2,
			},
		},
	}

	resp := NewJourneyResponse(j, cat)
	require.Len(t, resp.Legs, 1)

	leg := resp.Legs[0]
	assert.Equal(t, "23:52:00", leg.ActualDeparture)
	// Past-midnight arrivals keep the GTFS next-day notation.
	assert.Equal(t, "24:12:00", leg.ActualArrival)
	assert.Equal(t, 120, leg.DelaySeconds)
	assert.True(t, resp.HasRealtime)
}
