package gtfs

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"journey.transitgo.org/internal/logging"
)

// maxReferenceErrors bounds how many unresolved references are enumerated in
// a load-time error before the list is truncated.
const maxReferenceErrors = 20

var mandatoryFiles = []string{"stops.txt", "routes.txt", "trips.txt", "stop_times.txt"}

// LoadFeed parses one GTFS bundle from a directory of CSV files. stops.txt,
// routes.txt, trips.txt and stop_times.txt are mandatory; calendar.txt,
// calendar_dates.txt, transfers.txt and agency.txt are optional and their
// absence is logged and treated as empty.
func LoadFeed(dir, modeTag string, logger *slog.Logger) (*Feed, error) {
	for _, name := range mandatoryFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return nil, fmt.Errorf("%w: %s in %s", ErrMissingFile, name, dir)
		}
	}

	feed := &Feed{
		ModeTag:         modeTag,
		Agencies:        make(map[string]*Agency),
		Stops:           make(map[string]*Stop),
		Routes:          make(map[string]*Route),
		Trips:           make(map[string]*Trip),
		StopTimesByTrip: make(map[string][]StopTime),
		Calendars:       make(map[string]*Calendar),
	}

	if err := loadAgencies(dir, feed); err != nil {
		return nil, err
	}
	if err := loadStops(dir, feed); err != nil {
		return nil, err
	}
	if err := loadRoutes(dir, feed); err != nil {
		return nil, err
	}
	if err := loadTrips(dir, feed); err != nil {
		return nil, err
	}
	if err := loadStopTimes(dir, feed); err != nil {
		return nil, err
	}
	if err := loadCalendars(dir, feed, logger); err != nil {
		return nil, err
	}
	if err := loadCalendarDates(dir, feed); err != nil {
		return nil, err
	}
	if err := loadTransfers(dir, feed, logger); err != nil {
		return nil, err
	}

	if err := validateReferences(feed); err != nil {
		return nil, err
	}

	for tripID := range feed.StopTimesByTrip {
		sts := feed.StopTimesByTrip[tripID]
		sort.Slice(sts, func(i, j int) bool { return sts[i].StopSequence < sts[j].StopSequence })
		feed.StopTimesByTrip[tripID] = sts
	}

	logging.LogOperation(logger, "gtfs_feed_loaded",
		slog.String("mode", modeTag),
		slog.String("dir", dir),
		slog.Int("stops", len(feed.Stops)),
		slog.Int("routes", len(feed.Routes)),
		slog.Int("trips", len(feed.Trips)))

	return feed, nil
}

// csvFile opens one GTFS file and reads its header row. The required columns
// must all be present; missing any of them is a malformed feed. A UTF-8
// byte-order-mark on the first header cell is stripped transparently.
type csvFile struct {
	name   string
	reader *csv.Reader
	closer io.Closer
	cols   map[string]int
}

func openCSV(dir, name string, required []string) (*csvFile, error) {
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: cannot read header of %s: %v", ErrMalformedFeed, name, err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		cols[strings.TrimSpace(h)] = i
	}

	for _, col := range required {
		if _, ok := cols[col]; !ok {
			_ = f.Close()
			return nil, fmt.Errorf("%w: %s is missing column %q", ErrMalformedFeed, name, col)
		}
	}

	return &csvFile{name: name, reader: r, closer: f, cols: cols}, nil
}

func (c *csvFile) get(row []string, col string) string {
	i, ok := c.cols[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// eachRow streams every data row to fn, closing the file afterwards.
func (c *csvFile) eachRow(fn func(row []string) error) error {
	defer func() { _ = c.closer.Close() }()
	for {
		row, err := c.reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: reading %s: %v", ErrMalformedFeed, c.name, err)
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}

func loadAgencies(dir string, feed *Feed) error {
	f, err := openCSV(dir, "agency.txt", []string{"agency_name"})
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return f.eachRow(func(row []string) error {
		a := &Agency{
			ID:       f.get(row, "agency_id"),
			Name:     f.get(row, "agency_name"),
			URL:      f.get(row, "agency_url"),
			Timezone: f.get(row, "agency_timezone"),
		}
		feed.Agencies[a.ID] = a
		return nil
	})
}

func loadStops(dir string, feed *Feed) error {
	f, err := openCSV(dir, "stops.txt", []string{"stop_id", "stop_name"})
	if err != nil {
		return err
	}
	return f.eachRow(func(row []string) error {
		lat, _ := strconv.ParseFloat(f.get(row, "stop_lat"), 64)
		lon, _ := strconv.ParseFloat(f.get(row, "stop_lon"), 64)
		s := &Stop{
			ID:       f.get(row, "stop_id"),
			Name:     f.get(row, "stop_name"),
			Lat:      lat,
			Lon:      lon,
			Platform: f.get(row, "platform_code"),
			ModeTag:  feed.ModeTag,
		}
		if s.ID == "" {
			return fmt.Errorf("%w: stops.txt row with empty stop_id", ErrMalformedFeed)
		}
		feed.Stops[s.ID] = s
		return nil
	})
}

func loadRoutes(dir string, feed *Feed) error {
	f, err := openCSV(dir, "routes.txt", []string{"route_id", "route_type"})
	if err != nil {
		return err
	}
	return f.eachRow(func(row []string) error {
		routeType, err := strconv.Atoi(f.get(row, "route_type"))
		if err != nil {
			return fmt.Errorf("%w: routes.txt has non-numeric route_type %q", ErrMalformedFeed, f.get(row, "route_type"))
		}
		r := &Route{
			ID:        f.get(row, "route_id"),
			AgencyID:  f.get(row, "agency_id"),
			ShortName: f.get(row, "route_short_name"),
			LongName:  f.get(row, "route_long_name"),
			Type:      routeType,
			ModeTag:   feed.ModeTag,
		}
		if r.ID == "" {
			return fmt.Errorf("%w: routes.txt row with empty route_id", ErrMalformedFeed)
		}
		feed.Routes[r.ID] = r
		return nil
	})
}

func loadTrips(dir string, feed *Feed) error {
	f, err := openCSV(dir, "trips.txt", []string{"trip_id", "route_id", "service_id"})
	if err != nil {
		return err
	}
	return f.eachRow(func(row []string) error {
		t := &Trip{
			ID:          f.get(row, "trip_id"),
			RouteID:     f.get(row, "route_id"),
			ServiceID:   f.get(row, "service_id"),
			DirectionID: f.get(row, "direction_id"),
			Headsign:    f.get(row, "trip_headsign"),
			ModeTag:     feed.ModeTag,
		}
		if t.ID == "" {
			return fmt.Errorf("%w: trips.txt row with empty trip_id", ErrMalformedFeed)
		}
		feed.Trips[t.ID] = t
		return nil
	})
}

func loadStopTimes(dir string, feed *Feed) error {
	f, err := openCSV(dir, "stop_times.txt", []string{"trip_id", "stop_id", "stop_sequence", "arrival_time", "departure_time"})
	if err != nil {
		return err
	}
	return f.eachRow(func(row []string) error {
		seq, err := strconv.Atoi(f.get(row, "stop_sequence"))
		if err != nil {
			return fmt.Errorf("%w: stop_times.txt has non-numeric stop_sequence %q", ErrMalformedFeed, f.get(row, "stop_sequence"))
		}
		arr, err := ParseTime(f.get(row, "arrival_time"))
		if err != nil {
			return fmt.Errorf("%w: stop_times.txt: %v", ErrMalformedFeed, err)
		}
		dep, err := ParseTime(f.get(row, "departure_time"))
		if err != nil {
			return fmt.Errorf("%w: stop_times.txt: %v", ErrMalformedFeed, err)
		}
		st := StopTime{
			TripID:       f.get(row, "trip_id"),
			StopSequence: seq,
			StopID:       f.get(row, "stop_id"),
			Arrival:      arr,
			Departure:    dep,
		}
		feed.StopTimesByTrip[st.TripID] = append(feed.StopTimesByTrip[st.TripID], st)
		return nil
	})
}

func loadCalendars(dir string, feed *Feed, logger *slog.Logger) error {
	f, err := openCSV(dir, "calendar.txt", []string{"service_id", "start_date", "end_date"})
	if os.IsNotExist(err) {
		logging.LogOperation(logger, "gtfs_optional_file_absent",
			slog.String("mode", feed.ModeTag), slog.String("file", "calendar.txt"))
		return nil
	}
	if err != nil {
		return err
	}

	days := []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	err = f.eachRow(func(row []string) error {
		c := &Calendar{
			ServiceID: f.get(row, "service_id"),
			StartDate: f.get(row, "start_date"),
			EndDate:   f.get(row, "end_date"),
		}
		for i, day := range days {
			c.Weekdays[i] = f.get(row, day) == "1"
		}
		feed.Calendars[c.ServiceID] = c
		return nil
	})
	if err != nil {
		return err
	}
	feed.HasCalendar = len(feed.Calendars) > 0
	return nil
}

func loadCalendarDates(dir string, feed *Feed) error {
	f, err := openCSV(dir, "calendar_dates.txt", []string{"service_id", "date", "exception_type"})
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	err = f.eachRow(func(row []string) error {
		et, err := strconv.Atoi(f.get(row, "exception_type"))
		if err != nil {
			return fmt.Errorf("%w: calendar_dates.txt has non-numeric exception_type", ErrMalformedFeed)
		}
		feed.CalendarDates = append(feed.CalendarDates, CalendarDate{
			ServiceID:     f.get(row, "service_id"),
			Date:          f.get(row, "date"),
			ExceptionType: et,
		})
		return nil
	})
	if err != nil {
		return err
	}
	if len(feed.CalendarDates) > 0 {
		feed.HasCalendar = true
	}
	return nil
}

func loadTransfers(dir string, feed *Feed, logger *slog.Logger) error {
	f, err := openCSV(dir, "transfers.txt", []string{"from_stop_id", "to_stop_id"})
	if os.IsNotExist(err) {
		logging.LogOperation(logger, "gtfs_optional_file_absent",
			slog.String("mode", feed.ModeTag), slog.String("file", "transfers.txt"))
		return nil
	}
	if err != nil {
		return err
	}
	return f.eachRow(func(row []string) error {
		transferType, _ := strconv.Atoi(f.get(row, "transfer_type"))
		minSecs, _ := strconv.Atoi(f.get(row, "min_transfer_time"))
		feed.Transfers = append(feed.Transfers, Transfer{
			FromStopID:      f.get(row, "from_stop_id"),
			ToStopID:        f.get(row, "to_stop_id"),
			TransferType:    transferType,
			MinTransferSecs: minSecs,
		})
		return nil
	})
}

// validateReferences checks that every stop_times.stop_id resolves to a
// loaded Stop and every trips.route_id resolves to a loaded Route. The
// error enumerates at most the first 20 offenders.
func validateReferences(feed *Feed) error {
	var offenders []string

	tripIDs := make([]string, 0, len(feed.StopTimesByTrip))
	for tripID := range feed.StopTimesByTrip {
		tripIDs = append(tripIDs, tripID)
	}
	sort.Strings(tripIDs)

	for _, tripID := range tripIDs {
		for _, st := range feed.StopTimesByTrip[tripID] {
			if _, ok := feed.Stops[st.StopID]; !ok {
				offenders = append(offenders, fmt.Sprintf("stop_times: trip %s references unknown stop %s", tripID, st.StopID))
				if len(offenders) >= maxReferenceErrors {
					break
				}
			}
		}
		if len(offenders) >= maxReferenceErrors {
			break
		}
	}

	if len(offenders) < maxReferenceErrors {
		ids := make([]string, 0, len(feed.Trips))
		for id := range feed.Trips {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			t := feed.Trips[id]
			if _, ok := feed.Routes[t.RouteID]; !ok {
				offenders = append(offenders, fmt.Sprintf("trips: trip %s references unknown route %s", t.ID, t.RouteID))
				if len(offenders) >= maxReferenceErrors {
					break
				}
			}
		}
	}

	if len(offenders) > 0 {
		return fmt.Errorf("%w: unresolved references: %s", ErrMalformedFeed, strings.Join(offenders, "; "))
	}
	return nil
}
