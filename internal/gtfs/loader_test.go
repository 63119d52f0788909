package gtfs

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadFeed(t *testing.T) {
	feed, err := LoadFeed("testdata/vline", "vline", discardLogger())
	require.NoError(t, err)

	assert.Equal(t, "vline", feed.ModeTag)
	assert.Len(t, feed.Stops, 18)
	assert.Len(t, feed.Routes, 5)
	assert.Len(t, feed.Trips, 10)
	assert.Len(t, feed.Transfers, 2)
	assert.True(t, feed.HasCalendar)

	stop := feed.Stops["GEE"]
	require.NotNil(t, stop)
	assert.Equal(t, "Geelong Station", stop.Name)
	assert.Equal(t, "1", stop.Platform)
	assert.InDelta(t, -38.15, stop.Lat, 0.001)

	route := feed.Routes["COA"]
	require.NotNil(t, route)
	assert.Equal(t, 701, route.Type)

	trip := feed.Trips["GEL-1417"]
	require.NotNil(t, trip)
	assert.Equal(t, "WEEKDAY", trip.ServiceID)
	assert.Equal(t, "GEL", trip.RouteID)
}

func TestLoadFeedStopTimesOrderedAndWrapPreserved(t *testing.T) {
	feed, err := LoadFeed("testdata/vline", "vline", discardLogger())
	require.NoError(t, err)

	sts := feed.StopTimesByTrip["GEL-1417"]
	require.Len(t, sts, 7)
	for i := 1; i < len(sts); i++ {
		assert.Greater(t, sts[i].StopSequence, sts[i-1].StopSequence)
		assert.GreaterOrEqual(t, sts[i].Arrival, sts[i-1].Departure)
	}

	// Past-midnight times survive un-normalised.
	late := feed.StopTimesByTrip["GEL-2350"]
	require.Len(t, late, 2)
	assert.Equal(t, 24*3600+10*60, late[1].Arrival)
}

func TestLoadFeedStripsByteOrderMark(t *testing.T) {
	feed, err := LoadFeed("testdata/metro", "metro", discardLogger())
	require.NoError(t, err)

	// stops.txt carries a UTF-8 BOM; the stop_id column must still resolve.
	stop := feed.Stops["RIC"]
	require.NotNil(t, stop)
	assert.Equal(t, "Richmond Station", stop.Name)
}

func TestLoadFeedMissingMandatoryFile(t *testing.T) {
	dir := t.TempDir()
	writeFixtureFile(t, dir, "stops.txt", "stop_id,stop_name\nA,Stop A\n")

	_, err := LoadFeed(dir, "test", discardLogger())
	assert.ErrorIs(t, err, ErrMissingFile)
}

func TestLoadFeedMissingMandatoryColumn(t *testing.T) {
	dir := minimalFeedDir(t)
	// routes.txt without route_type.
	writeFixtureFile(t, dir, "routes.txt", "route_id,route_short_name\nR1,One\n")

	_, err := LoadFeed(dir, "test", discardLogger())
	assert.ErrorIs(t, err, ErrMalformedFeed)
}

func TestLoadFeedUnresolvedReferences(t *testing.T) {
	dir := minimalFeedDir(t)
	writeFixtureFile(t, dir, "stop_times.txt",
		"trip_id,arrival_time,departure_time,stop_id,stop_sequence\n"+
			"T1,10:00:00,10:00:00,NOPE,1\n"+
			"T1,10:10:00,10:10:00,B,2\n")

	_, err := LoadFeed(dir, "test", discardLogger())
	require.ErrorIs(t, err, ErrMalformedFeed)
	assert.Contains(t, err.Error(), "NOPE")
}

func TestLoadFeedOptionalFilesAbsent(t *testing.T) {
	dir := minimalFeedDir(t)

	feed, err := LoadFeed(dir, "test", discardLogger())
	require.NoError(t, err)
	assert.False(t, feed.HasCalendar)
	assert.Empty(t, feed.Transfers)
	assert.Empty(t, feed.Agencies)
}

// minimalFeedDir writes the four mandatory files describing one two-stop trip.
func minimalFeedDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFixtureFile(t, dir, "stops.txt", "stop_id,stop_name,stop_lat,stop_lon\nA,Stop A,-37.8,144.9\nB,Stop B,-37.9,145.0\n")
	writeFixtureFile(t, dir, "routes.txt", "route_id,route_short_name,route_type\nR1,One,3\n")
	writeFixtureFile(t, dir, "trips.txt", "trip_id,route_id,service_id\nT1,R1,S1\n")
	writeFixtureFile(t, dir, "stop_times.txt",
		"trip_id,arrival_time,departure_time,stop_id,stop_sequence\n"+
			"T1,10:00:00,10:00:00,A,1\n"+
			"T1,10:10:00,10:10:00,B,2\n")
	return dir
}

func writeFixtureFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
