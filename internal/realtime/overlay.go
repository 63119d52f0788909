package realtime

import (
	"fmt"
	"log/slog"
	"strings"

	gtfsrt "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"journey.transitgo.org/internal/gtfs"
	"journey.transitgo.org/internal/planner"
)

// ApplyTripUpdates overlays a trip-update feed onto a journey. Scheduled
// times are never touched; only the actual-time fields, delay, cancellation
// flag and platform of each leg change, so applying the same blob twice
// yields the same state. Trips absent from the feed are treated as on time.
// After all legs are adjusted, interchange transfers are re-checked against
// minTransferSecs; a violation marks the journey invalid and records a
// BrokenTransfer note naming the interchange, but the journey survives.
func ApplyTripUpdates(j *planner.Journey, raw []byte, minTransferSecs int, logger *slog.Logger) error {
	var feed gtfsrt.FeedMessage
	if err := proto.Unmarshal(raw, &feed); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRealtime, err)
	}

	updates := make(map[string]*gtfsrt.TripUpdate)
	for _, entity := range feed.GetEntity() {
		if tu := entity.GetTripUpdate(); tu != nil {
			updates[tu.GetTrip().GetTripId()] = tu
		}
	}

	for i := range j.Legs {
		leg := &j.Legs[i]
		if leg.IsTransfer || leg.TripID == "" {
			continue
		}

		tu, ok := updates[rawID(leg.TripID)]
		if !ok {
			continue
		}

		leg.HasRealtime = true
		j.HasRealtime = true

		if tu.GetTrip().GetScheduleRelationship() == gtfsrt.TripDescriptor_CANCELED {
			leg.Cancelled = true
			leg.ActualDeparture = leg.Departure
			leg.ActualArrival = leg.Arrival
			leg.DelaySeconds = 0
			if logger != nil {
				logger.Warn("trip cancelled in realtime feed",
					slog.String("trip", leg.TripID))
			}
			continue
		}

		depDelay, depPlatform := stopUpdate(tu, rawID(leg.FromStopID), true)
		arrDelay, _ := stopUpdate(tu, rawID(leg.ToStopID), false)

		leg.Cancelled = false
		leg.ActualDeparture = leg.Departure + depDelay
		leg.ActualArrival = leg.Arrival + arrDelay
		leg.DelaySeconds = arrDelay
		if depPlatform != "" {
			leg.Platform = depPlatform
		}
	}

	revalidateTransfers(j, minTransferSecs)
	return nil
}

// stopUpdate locates the StopTimeUpdate for one stop and returns the delay
// in seconds plus any platform reassignment. Departure updates prefer the
// departure event's delay and fall back to the arrival's, and vice versa.
func stopUpdate(tu *gtfsrt.TripUpdate, stopID string, departure bool) (int, string) {
	for _, stu := range tu.GetStopTimeUpdate() {
		if stu.GetStopId() != stopID {
			continue
		}

		platform := stu.GetStopTimeProperties().GetAssignedStopId()

		primary, secondary := stu.GetArrival(), stu.GetDeparture()
		if departure {
			primary, secondary = stu.GetDeparture(), stu.GetArrival()
		}
		if primary != nil {
			return int(primary.GetDelay()), platform
		}
		if secondary != nil {
			return int(secondary.GetDelay()), platform
		}
		return 0, platform
	}
	return 0, ""
}

// revalidateTransfers checks every interchange between transit legs still
// holds under the adjusted times. Prior broken-transfer notes are replaced,
// not accumulated, so re-applying a feed cannot double-report.
func revalidateTransfers(j *planner.Journey, minTransferSecs int) {
	kept := j.Notes[:0:0]
	for _, n := range j.Notes {
		if !strings.HasPrefix(n, "BrokenTransfer(") {
			kept = append(kept, n)
		}
	}
	j.Notes = kept

	j.ValidAfterRealtime = true

	var prev *planner.Leg
	for i := range j.Legs {
		leg := &j.Legs[i]
		if leg.IsTransfer {
			continue
		}
		if prev != nil && prev.TripID != leg.TripID {
			if leg.ActualDeparture-prev.ActualArrival < minTransferSecs {
				j.ValidAfterRealtime = false
				j.Notes = append(j.Notes,
					fmt.Sprintf("BrokenTransfer(%s)", prev.ToStopName))
			}
		}
		prev = leg
	}
}

func rawID(id string) string {
	if _, raw, ok := gtfs.SplitGlobalID(id); ok {
		return raw
	}
	return id
}
