package planner

import (
	"log/slog"
	"sync"
	"time"

	"journey.transitgo.org/internal/gtfs"
)

// Calendar answers whether a service runs on a given date. Service ids are
// global (mode-prefixed), matching the ids carried on connections. Built
// once, read-only afterwards.
type Calendar struct {
	calendars  map[string]*gtfs.Calendar
	exceptions map[string]map[string]int
	hasData    bool

	warnOnce sync.Once
	logger   *slog.Logger
}

// NewCalendar merges the calendar data of every loaded feed.
func NewCalendar(cat *gtfs.Catalogue, logger *slog.Logger) *Calendar {
	cal := &Calendar{
		calendars:  make(map[string]*gtfs.Calendar),
		exceptions: make(map[string]map[string]int),
		logger:     logger,
	}

	for _, mode := range cat.Modes() {
		feed, _ := cat.Feed(mode)
		for rawID, c := range feed.Calendars {
			cal.calendars[gtfs.GlobalID(mode, rawID)] = c
		}
		for _, cd := range feed.CalendarDates {
			id := gtfs.GlobalID(mode, cd.ServiceID)
			if cal.exceptions[id] == nil {
				cal.exceptions[id] = make(map[string]int)
			}
			cal.exceptions[id][cd.Date] = cd.ExceptionType
		}
		cal.hasData = cal.hasData || feed.HasCalendar
	}

	return cal
}

// IsActive decides whether serviceID runs on date. With no calendar data
// loaded at all it fails open, warning once: some feeds simply omit
// calendars and filtering everything out would make them unroutable.
func (cal *Calendar) IsActive(serviceID string, date time.Time) bool {
	if !cal.hasData {
		cal.warnOnce.Do(func() {
			if cal.logger != nil {
				cal.logger.Warn("no calendar data loaded; treating all services as active")
			}
		})
		return true
	}

	c, ok := cal.calendars[serviceID]
	if !ok {
		return false
	}

	day := date.Format("20060102")
	if day < c.StartDate || day > c.EndDate {
		return false
	}

	if ex, ok := cal.exceptions[serviceID][day]; ok {
		return ex == gtfs.ServiceAdded
	}

	// Weekdays are indexed Monday=0; time.Weekday starts at Sunday.
	return c.Weekdays[(int(date.Weekday())+6)%7]
}
