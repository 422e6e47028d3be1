package arrivals

import (
	"strconv"
	"strings"
	"time"

	"github.com/ashika-verma/realtimebus.nyc/gtfsrt"
	"github.com/ashika-verma/realtimebus.nyc/siri"
)

// FromTripUpdates flattens a trip-updates snapshot into per-stop arrival
// lists for the target stop set. Trip-level fields are copied onto each
// per-stop record; entries with neither an arrival nor a departure time are
// dropped. Every target stop is present in the result, empty when no trip
// serves it.
func FromTripUpdates(snap *gtfsrt.Snapshot, stopIDs map[string]struct{}) map[string][]Arrival {
	byStop := make(map[string][]Arrival, len(stopIDs))
	for id := range stopIDs {
		byStop[id] = []Arrival{}
	}

	for _, e := range snap.Entities() {
		tu := e.TripUpdate
		if tu == nil {
			continue
		}
		var tripID, routeID, vehicleID string
		var directionID *int
		if tu.Trip != nil {
			if tu.Trip.TripId != nil {
				tripID = *tu.Trip.TripId
			}
			if tu.Trip.RouteId != nil {
				routeID = *tu.Trip.RouteId
			}
			if tu.Trip.DirectionId != nil {
				d := int(*tu.Trip.DirectionId)
				directionID = &d
			}
		}
		if tu.Vehicle != nil {
			if tu.Vehicle.Id != nil {
				vehicleID = *tu.Vehicle.Id
			} else if tu.Vehicle.Label != nil {
				vehicleID = *tu.Vehicle.Label
			}
		}

		for _, stu := range tu.StopTimeUpdate {
			if stu.StopId == nil {
				continue
			}
			sid := *stu.StopId
			if _, ok := byStop[sid]; !ok {
				continue
			}
			a := Arrival{
				TripID:       tripID,
				RouteID:      routeID,
				DirectionID:  directionID,
				VehicleID:    vehicleID,
				StopSequence: stu.StopSequence,
			}
			if stu.Arrival != nil && stu.Arrival.Time != nil {
				t := *stu.Arrival.Time
				a.ArrivalSec = &t
			}
			if stu.Departure != nil && stu.Departure.Time != nil {
				t := *stu.Departure.Time
				a.DepartureSec = &t
			}
			if a.ArrivalSec == nil && a.DepartureSec == nil {
				continue
			}
			byStop[sid] = append(byStop[sid], a)
		}
	}

	for sid := range byStop {
		sortByEffectiveTime(byStop[sid])
	}
	return byStop
}

// FromVisits converts one stop's SIRI stop-monitoring visits into arrivals,
// sorted ascending by effective time. Visits with no usable time are dropped.
func FromVisits(resp *siri.StopMonitoringResponse) []Arrival {
	out := []Arrival{}
	for _, v := range resp.Visits() {
		mvj := v.MonitoredVehicleJourney
		mc := mvj.MonitoredCall
		if mc == nil {
			continue
		}

		// Expected times are live predictions; aimed times the static
		// schedule. First usable one wins.
		timeSec, live, ok := pickEffectiveTime(mc)
		if !ok {
			continue
		}

		a := Arrival{
			TripID:     mvj.FramedVehicleJourneyRef.DatedVehicleJourneyRef,
			RouteID:    TrimAgencyPrefix(mvj.LineRef),
			Headsign:   string(mvj.DestinationName),
			VehicleID:  VehicleRefID(mvj.VehicleRef),
			ArrivalSec: &timeSec,
			StopsAway:  stopsAway(mc),
		}
		a.IsScheduled = !live
		if d, err := strconv.Atoi(string(mvj.DirectionRef)); err == nil {
			a.DirectionID = &d
		}
		out = append(out, a)
	}
	sortByEffectiveTime(out)
	return out
}

// pickEffectiveTime applies the SIRI preference order: expected arrival,
// expected departure, aimed arrival, aimed departure. live reports whether
// an expected (predicted) time contributed the value.
func pickEffectiveTime(mc *siri.MonitoredCall) (sec int64, live bool, ok bool) {
	for _, cand := range []struct {
		value string
		live  bool
	}{
		{mc.ExpectedArrivalTime, true},
		{mc.ExpectedDepartureTime, true},
		{mc.AimedArrivalTime, false},
		{mc.AimedDepartureTime, false},
	} {
		if cand.value == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, cand.value)
		if err != nil {
			continue
		}
		return t.Unix(), cand.live, true
	}
	live = mc.ExpectedArrivalTime != "" || mc.ExpectedDepartureTime != ""
	return 0, live, false
}

func stopsAway(mc *siri.MonitoredCall) *int {
	if mc.NumberOfStopsAway != nil {
		return mc.NumberOfStopsAway
	}
	if mc.Extensions != nil {
		return mc.Extensions.Distances.StopsFromCall
	}
	return nil
}

// TrimAgencyPrefix strips the agency qualifier from a SIRI line reference:
// "MTA NYCT_Q17" becomes "Q17". References without an underscore pass
// through unchanged.
func TrimAgencyPrefix(lineRef string) string {
	if i := strings.Index(lineRef, "_"); i >= 0 {
		return lineRef[i+1:]
	}
	return lineRef
}

// VehicleRefID strips the agency qualifier from a SIRI vehicle reference,
// keeping the text after the last underscore.
func VehicleRefID(vehicleRef string) string {
	if i := strings.LastIndex(vehicleRef, "_"); i >= 0 {
		return vehicleRef[i+1:]
	}
	return vehicleRef
}
