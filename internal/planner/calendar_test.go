package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journey.transitgo.org/internal/gtfs"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalendarIsActive(t *testing.T) {
	cal := NewCalendar(testCatalogue(t), discardLogger())

	testCases := []struct {
		name      string
		serviceID string
		date      time.Time
		want      bool
	}{
		{name: "WeekdayOnWednesday", serviceID: "vline:WEEKDAY", date: date(2025, time.July, 16), want: true},
		{name: "WeekdayOnSaturday", serviceID: "vline:WEEKDAY", date: date(2025, time.July, 19), want: false},
		{name: "SaturdayOnlyOnMonday", serviceID: "vline:SATONLY", date: date(2025, time.July, 14), want: false},
		{name: "SaturdayOnlyOnSaturday", serviceID: "vline:SATONLY", date: date(2025, time.July, 19), want: true},
		{name: "BeforeRange", serviceID: "vline:WEEKDAY", date: date(2024, time.July, 17), want: false},
		{name: "AfterRange", serviceID: "vline:WEEKDAY", date: date(2027, time.July, 14), want: false},
		{name: "ExpiredService", serviceID: "vline:EXPIRED", date: date(2025, time.July, 16), want: false},
		{name: "UnknownService", serviceID: "vline:GHOST", date: date(2025, time.July, 16), want: false},
		{name: "RemovedByException", serviceID: "vline:WEEKDAY", date: date(2025, time.December, 25), want: false},
		{name: "AddedByException", serviceID: "vline:SATONLY", date: date(2025, time.December, 26), want: true},
		{name: "DailyOnSunday", serviceID: "metro:DAILY", date: date(2025, time.July, 20), want: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, cal.IsActive(tc.serviceID, tc.date))
		})
	}
}

func TestCalendarFailsOpenWithoutData(t *testing.T) {
	// A feed with no calendar files at all treats every service as active.
	dir := t.TempDir()
	writeMinimalFeed(t, dir)

	cat, err := gtfs.BuildCatalogue([]gtfs.ModeBundle{{ModeTag: "bus", Path: dir}}, discardLogger())
	require.NoError(t, err)

	cal := NewCalendar(cat, discardLogger())
	assert.True(t, cal.IsActive("bus:S1", date(2025, time.July, 16)))
	assert.True(t, cal.IsActive("bus:ANYTHING", date(2025, time.July, 20)))
}
