package planner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"journey.transitgo.org/internal/gtfs"
)

// writeMinimalFeed writes a calendar-less feed with one two-stop trip.
func writeMinimalFeed(t *testing.T, dir string) {
	t.Helper()
	writeFeedFile(t, dir, "stops.txt",
		"stop_id,stop_name,stop_lat,stop_lon\nA,Stop A,-37.8,144.9\nB,Stop B,-37.9,145.0\n")
	writeFeedFile(t, dir, "routes.txt", "route_id,route_short_name,route_type\nR1,One,3\n")
	writeFeedFile(t, dir, "trips.txt", "trip_id,route_id,service_id\nT1,R1,S1\n")
	writeFeedFile(t, dir, "stop_times.txt",
		"trip_id,arrival_time,departure_time,stop_id,stop_sequence\n"+
			"T1,10:00:00,10:00:00,A,1\n"+
			"T1,10:10:00,10:10:00,B,2\n")
}

// writeTransferFloorFeed describes three stops where a tight connection at B
// departs only 60 seconds after arrival, under the default transfer floor.
func writeTransferFloorFeed(t *testing.T, dir string) {
	t.Helper()
	writeFeedFile(t, dir, "stops.txt",
		"stop_id,stop_name,stop_lat,stop_lon\n"+
			"A,Stop A,-37.8,144.9\nB,Stop B,-37.9,145.0\nC,Stop C,-38.0,145.1\n")
	writeFeedFile(t, dir, "routes.txt", "route_id,route_short_name,route_type\nR1,One,3\n")
	writeFeedFile(t, dir, "trips.txt",
		"trip_id,route_id,service_id\nT1,R1,S1\nT2,R1,S1\nT3,R1,S1\n")
	writeFeedFile(t, dir, "stop_times.txt",
		"trip_id,arrival_time,departure_time,stop_id,stop_sequence\n"+
			"T1,09:50:00,09:50:00,A,1\n"+
			"T1,10:00:00,10:00:00,B,2\n"+
			"T2,10:01:00,10:01:00,B,1\n"+
			"T2,10:20:00,10:20:00,C,2\n"+
			"T3,10:05:00,10:05:00,B,1\n"+
			"T3,10:30:00,10:30:00,C,2\n")
}

func writeFeedFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func plannerForDir(t *testing.T, dir, mode string) (*Planner, *gtfs.Catalogue) {
	t.Helper()
	cat, err := gtfs.BuildCatalogue([]gtfs.ModeBundle{{ModeTag: mode, Path: dir}}, discardLogger())
	require.NoError(t, err)
	cal := NewCalendar(cat, discardLogger())
	conns := BuildConnections(cat)
	return New(cat, cal, conns, Options{}, discardLogger()), cat
}

func vlinePlanner(t *testing.T) *Planner {
	t.Helper()
	cat := testCatalogue(t)
	cal := NewCalendar(cat, discardLogger())
	conns := BuildConnections(cat)
	return New(cat, cal, FilterByMode(conns, "vline"), Options{}, discardLogger())
}
