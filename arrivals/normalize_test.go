package arrivals

import (
	"encoding/json"
	"testing"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/ashika-verma/realtimebus.nyc/gtfsrt"
	"github.com/ashika-verma/realtimebus.nyc/siri"
)

func TestTrimAgencyPrefix(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "agency prefixed", input: "MTA NYCT_Q17", expected: "Q17"},
		{name: "underscore in route survives", input: "MTA NYCT_Q17_X", expected: "Q17_X"},
		{name: "no prefix passes through", input: "Q17", expected: "Q17"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAgencyPrefix(tt.input); got != tt.expected {
				t.Errorf("TrimAgencyPrefix(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestVehicleRefID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "agency prefixed", input: "MTA NYCT_8865", expected: "8865"},
		{name: "takes text after last underscore", input: "MTA_NYCT_8865", expected: "8865"},
		{name: "no prefix", input: "8865", expected: "8865"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VehicleRefID(tt.input); got != tt.expected {
				t.Errorf("VehicleRefID(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func visitJSON(t *testing.T, mcBody string) *siri.StopMonitoringResponse {
	t.Helper()
	raw := `{"Siri":{"ServiceDelivery":{"StopMonitoringDelivery":[{"MonitoredStopVisit":[
		{"MonitoredVehicleJourney":{
			"LineRef":"MTA NYCT_Q17",
			"DirectionRef":"1",
			"FramedVehicleJourneyRef":{"DatedVehicleJourneyRef":"trip-1"},
			"DestinationName":"FLUSHING MAIN ST",
			"VehicleRef":"MTA NYCT_8865",
			"MonitoredCall":` + mcBody + `}}
	]}]}}}`
	var resp siri.StopMonitoringResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("unmarshal visit: %v", err)
	}
	return &resp
}

func TestFromVisitsEffectiveTimeOrder(t *testing.T) {
	// 2025-06-01T12:00:00Z etc.
	tests := []struct {
		name          string
		call          string
		expectedEpoch int64
		isScheduled   bool
	}{
		{
			name:          "expected arrival wins",
			call:          `{"ExpectedArrivalTime":"2025-06-01T12:00:00Z","ExpectedDepartureTime":"2025-06-01T12:01:00Z","AimedArrivalTime":"2025-06-01T12:02:00Z"}`,
			expectedEpoch: 1748779200,
			isScheduled:   false,
		},
		{
			name:          "expected departure second",
			call:          `{"ExpectedDepartureTime":"2025-06-01T12:01:00Z","AimedArrivalTime":"2025-06-01T12:02:00Z"}`,
			expectedEpoch: 1748779260,
			isScheduled:   false,
		},
		{
			name:          "aimed arrival third and marks scheduled",
			call:          `{"AimedArrivalTime":"2025-06-01T12:02:00Z","AimedDepartureTime":"2025-06-01T12:03:00Z"}`,
			expectedEpoch: 1748779320,
			isScheduled:   true,
		},
		{
			name:          "aimed departure last",
			call:          `{"AimedDepartureTime":"2025-06-01T12:03:00Z"}`,
			expectedEpoch: 1748779380,
			isScheduled:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromVisits(visitJSON(t, tt.call))
			if len(got) != 1 {
				t.Fatalf("expected 1 arrival, got %d", len(got))
			}
			a := got[0]
			if a.ArrivalSec == nil || *a.ArrivalSec != tt.expectedEpoch {
				t.Errorf("effective time = %v, expected %d", a.ArrivalSec, tt.expectedEpoch)
			}
			if a.IsScheduled != tt.isScheduled {
				t.Errorf("IsScheduled = %v, expected %v", a.IsScheduled, tt.isScheduled)
			}
		})
	}
}

func TestFromVisitsDropsTimelessRecords(t *testing.T) {
	got := FromVisits(visitJSON(t, `{"NumberOfStopsAway":2}`))
	if len(got) != 0 {
		t.Errorf("expected visit with no usable time to be dropped, got %d arrivals", len(got))
	}
}

func TestFromVisitsFieldNormalization(t *testing.T) {
	got := FromVisits(visitJSON(t, `{"ExpectedArrivalTime":"2025-06-01T12:00:00Z","NumberOfStopsAway":3}`))
	if len(got) != 1 {
		t.Fatalf("expected 1 arrival, got %d", len(got))
	}
	a := got[0]
	if a.RouteID != "Q17" {
		t.Errorf("RouteID = %q", a.RouteID)
	}
	if a.VehicleID != "8865" {
		t.Errorf("VehicleID = %q", a.VehicleID)
	}
	if a.Headsign != "FLUSHING MAIN ST" {
		t.Errorf("Headsign = %q", a.Headsign)
	}
	if a.TripID != "trip-1" {
		t.Errorf("TripID = %q", a.TripID)
	}
	if a.DirectionID == nil || *a.DirectionID != 1 {
		t.Errorf("DirectionID = %v", a.DirectionID)
	}
	if a.StopsAway == nil || *a.StopsAway != 3 {
		t.Errorf("StopsAway = %v", a.StopsAway)
	}
}

func TestFromVisitsStopsAwayExtensionFallback(t *testing.T) {
	t.Run("extensions path", func(t *testing.T) {
		got := FromVisits(visitJSON(t, `{"ExpectedArrivalTime":"2025-06-01T12:00:00Z","Extensions":{"Distances":{"StopsFromCall":5}}}`))
		if len(got) != 1 || got[0].StopsAway == nil || *got[0].StopsAway != 5 {
			t.Errorf("expected stopsAway 5 from extensions, got %+v", got)
		}
	})
	t.Run("absent everywhere means unknown", func(t *testing.T) {
		got := FromVisits(visitJSON(t, `{"ExpectedArrivalTime":"2025-06-01T12:00:00Z"}`))
		if len(got) != 1 || got[0].StopsAway != nil {
			t.Errorf("expected nil stopsAway, got %+v", got)
		}
	})
}

func TestFromVisitsSorted(t *testing.T) {
	raw := `{"Siri":{"ServiceDelivery":{"StopMonitoringDelivery":[{"MonitoredStopVisit":[
		{"MonitoredVehicleJourney":{"LineRef":"A","MonitoredCall":{"ExpectedArrivalTime":"2025-06-01T12:10:00Z"}}},
		{"MonitoredVehicleJourney":{"LineRef":"B","MonitoredCall":{"ExpectedArrivalTime":"2025-06-01T12:02:00Z"}}},
		{"MonitoredVehicleJourney":{"LineRef":"C","MonitoredCall":{"AimedDepartureTime":"2025-06-01T12:05:00Z"}}}
	]}]}}}`
	var resp siri.StopMonitoringResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatal(err)
	}
	got := FromVisits(&resp)
	if len(got) != 3 {
		t.Fatalf("expected 3 arrivals, got %d", len(got))
	}
	var prev int64
	for i, a := range got {
		if a.EffectiveTime() < prev {
			t.Errorf("arrival %d out of order: %d < %d", i, a.EffectiveTime(), prev)
		}
		prev = a.EffectiveTime()
	}
}

func tripUpdatesSnapshot() *gtfsrt.Snapshot {
	stu := func(stopID string, seq uint32, arrival, departure int64) *gtfsrtpb.TripUpdate_StopTimeUpdate {
		u := &gtfsrtpb.TripUpdate_StopTimeUpdate{
			StopId:       proto.String(stopID),
			StopSequence: proto.Uint32(seq),
		}
		if arrival != 0 {
			u.Arrival = &gtfsrtpb.TripUpdate_StopTimeEvent{Time: proto.Int64(arrival)}
		}
		if departure != 0 {
			u.Departure = &gtfsrtpb.TripUpdate_StopTimeEvent{Time: proto.Int64(departure)}
		}
		return u
	}
	return &gtfsrt.Snapshot{
		FetchedAt: testNow,
		Feed: &gtfsrtpb.FeedMessage{Entity: []*gtfsrtpb.FeedEntity{
			{
				Id: proto.String("1"),
				TripUpdate: &gtfsrtpb.TripUpdate{
					Trip: &gtfsrtpb.TripDescriptor{
						TripId:      proto.String("trip-a"),
						RouteId:     proto.String("Q17"),
						DirectionId: proto.Uint32(0),
					},
					Vehicle: &gtfsrtpb.VehicleDescriptor{Id: proto.String("8865")},
					StopTimeUpdate: []*gtfsrtpb.TripUpdate_StopTimeUpdate{
						stu("stop-1", 3, at(600), 0),
						stu("stop-2", 4, at(800), at(810)),
						stu("elsewhere", 5, at(900), 0),
					},
				},
			},
			{
				Id: proto.String("2"),
				TripUpdate: &gtfsrtpb.TripUpdate{
					Trip: &gtfsrtpb.TripDescriptor{TripId: proto.String("trip-b"), RouteId: proto.String("Q27")},
					StopTimeUpdate: []*gtfsrtpb.TripUpdate_StopTimeUpdate{
						stu("stop-1", 7, at(120), 0),
						// no times at all: dropped as malformed
						{StopId: proto.String("stop-1"), StopSequence: proto.Uint32(8)},
					},
				},
			},
		}},
	}
}

func TestFromTripUpdates(t *testing.T) {
	targets := map[string]struct{}{"stop-1": {}, "stop-2": {}, "stop-3": {}}
	byStop := FromTripUpdates(tripUpdatesSnapshot(), targets)

	if len(byStop) != 3 {
		t.Fatalf("expected all 3 target stops present, got %d", len(byStop))
	}
	if len(byStop["stop-3"]) != 0 {
		t.Errorf("stop-3 should be empty, got %d", len(byStop["stop-3"]))
	}
	if _, ok := byStop["elsewhere"]; ok {
		t.Error("non-target stop leaked into result")
	}

	s1 := byStop["stop-1"]
	if len(s1) != 2 {
		t.Fatalf("stop-1: expected 2 arrivals (timeless entry dropped), got %d", len(s1))
	}
	// sorted by effective time: trip-b at +120 before trip-a at +600
	if s1[0].TripID != "trip-b" || s1[1].TripID != "trip-a" {
		t.Errorf("stop-1 order wrong: %q, %q", s1[0].TripID, s1[1].TripID)
	}

	a := s1[1]
	if a.RouteID != "Q17" || a.VehicleID != "8865" {
		t.Errorf("trip-level fields not copied: %+v", a)
	}
	if a.DirectionID == nil || *a.DirectionID != 0 {
		t.Errorf("DirectionID = %v", a.DirectionID)
	}
	if a.StopSequence == nil || *a.StopSequence != 3 {
		t.Errorf("StopSequence = %v", a.StopSequence)
	}

	s2 := byStop["stop-2"]
	if len(s2) != 1 || s2[0].ArrivalSec == nil || s2[0].DepartureSec == nil {
		t.Fatalf("stop-2 arrival should carry both times: %+v", s2)
	}
	if s2[0].EffectiveTime() != *s2[0].ArrivalSec {
		t.Error("effective time should prefer arrival over departure")
	}
}

func TestEffectiveTimeFallback(t *testing.T) {
	dep := int64(100)
	a := Arrival{DepartureSec: &dep}
	if a.EffectiveTime() != 100 {
		t.Errorf("expected departure fallback, got %d", a.EffectiveTime())
	}
}
