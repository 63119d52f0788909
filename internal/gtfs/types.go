package gtfs

// Record types produced by the schedule loader. All of them are immutable
// once a Feed has been built; nothing in the planner mutates them.

// Stop is a boardable location from stops.txt.
type Stop struct {
	ID       string
	Name     string
	Lat      float64
	Lon      float64
	Platform string
	ModeTag  string
}

// Route is a line from routes.txt. Type carries the GTFS route_type code
// (0=tram, 2=rail, 3=bus, 400=metro, ...) which mode display derives from,
// so it is preserved end-to-end.
type Route struct {
	ID        string
	AgencyID  string
	ShortName string
	LongName  string
	Type      int
	ModeTag   string
}

// Trip is one scheduled run of a vehicle on a route on a service day.
type Trip struct {
	ID          string
	RouteID     string
	ServiceID   string
	DirectionID string
	Headsign    string
	ModeTag     string
}

// StopTime is one scheduled call of a trip at a stop. Arrival and Departure
// are seconds from midnight of the trip's service day and may exceed 86400
// for runs that wrap past midnight; the loader preserves them un-normalised.
type StopTime struct {
	TripID       string
	StopSequence int
	StopID       string
	Arrival      int
	Departure    int
}

// Calendar is a service_id's operating pattern from calendar.txt.
// Weekdays is indexed Monday=0 .. Sunday=6. Dates are YYYYMMDD strings,
// which compare correctly with plain string ordering.
type Calendar struct {
	ServiceID string
	Weekdays  [7]bool
	StartDate string
	EndDate   string
}

// Calendar exception types from calendar_dates.txt.
const (
	ServiceAdded   = 1
	ServiceRemoved = 2
)

// CalendarDate is a single-date override of a Calendar entry.
type CalendarDate struct {
	ServiceID     string
	Date          string
	ExceptionType int
}

// Transfer is a feed-declared walk between two stops with a minimum duration.
type Transfer struct {
	FromStopID      string
	ToStopID        string
	TransferType    int
	MinTransferSecs int
}

// Agency is a record from agency.txt. Loaded for completeness; nothing
// outside the loader reads it.
type Agency struct {
	ID       string
	Name     string
	URL      string
	Timezone string
}

// Feed holds one parsed GTFS bundle tagged with the mode it was loaded for.
type Feed struct {
	ModeTag         string
	Agencies        map[string]*Agency
	Stops           map[string]*Stop
	Routes          map[string]*Route
	Trips           map[string]*Trip
	StopTimesByTrip map[string][]StopTime
	Calendars       map[string]*Calendar
	CalendarDates   []CalendarDate
	Transfers       []Transfer

	// HasCalendar records whether any calendar data was present at all,
	// which the calendar oracle needs to decide fail-open behaviour.
	HasCalendar bool
}
