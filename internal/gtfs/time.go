package gtfs

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTime converts a GTFS HH:MM:SS string to seconds from midnight of the
// service day. GTFS permits hours up to 47 for trips that run past midnight;
// values beyond 86400 are preserved, not wrapped.
func ParseTime(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid GTFS time %q", s)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 47 {
		return 0, fmt.Errorf("invalid hour in GTFS time %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in GTFS time %q", s)
	}
	sec, err := strconv.Atoi(parts[2])
	if err != nil || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("invalid second in GTFS time %q", s)
	}

	return h*3600 + m*60 + sec, nil
}

// FormatTime renders seconds from midnight as HH:MM:SS. Hours past 24 are
// kept as-is (e.g. 24:15:00), matching how GTFS feeds express next-day runs.
func FormatTime(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}
