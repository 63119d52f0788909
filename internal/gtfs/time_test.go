package gtfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTime(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "Midnight", input: "00:00:00", want: 0},
		{name: "Afternoon", input: "14:17:00", want: 14*3600 + 17*60},
		{name: "PastMidnight", input: "24:10:00", want: 24*3600 + 10*60},
		{name: "MaxHour", input: "47:59:59", want: 47*3600 + 59*60 + 59},
		{name: "HourTooLarge", input: "48:00:00", wantErr: true},
		{name: "MinuteTooLarge", input: "10:60:00", wantErr: true},
		{name: "TwoParts", input: "10:30", wantErr: true},
		{name: "Garbage", input: "noon", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTime(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatTime(0))
	assert.Equal(t, "14:17:00", FormatTime(14*3600+17*60))
	assert.Equal(t, "15:08:00", FormatTime(15*3600+8*60))

	// Next-day times keep their hours past 24.
	assert.Equal(t, "24:10:00", FormatTime(24*3600+10*60))

	assert.Equal(t, "00:00:00", FormatTime(-5))
}

func TestParseThenFormatPreservesWrap(t *testing.T) {
	secs, err := ParseTime("25:45:30")
	assert.NoError(t, err)
	assert.Equal(t, "25:45:30", FormatTime(secs))
}
