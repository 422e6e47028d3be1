package gtfsrt

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/rs/zerolog"
	"google.golang.org/protobuf/proto"

	"github.com/ashika-verma/realtimebus.nyc/upstream"
)

func testFeed(t *testing.T) []byte {
	t.Helper()
	fm := &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Timestamp:           proto.Uint64(1750000000),
		},
		Entity: []*gtfsrtpb.FeedEntity{
			{
				Id: proto.String("1"),
				TripUpdate: &gtfsrtpb.TripUpdate{
					Trip: &gtfsrtpb.TripDescriptor{
						TripId:  proto.String("trip-a"),
						RouteId: proto.String("Q17"),
					},
					StopTimeUpdate: []*gtfsrtpb.TripUpdate_StopTimeUpdate{
						{
							StopId:       proto.String("502184"),
							StopSequence: proto.Uint32(4),
							Arrival:      &gtfsrtpb.TripUpdate_StopTimeEvent{Time: proto.Int64(1750000300)},
						},
					},
				},
			},
		},
	}
	data, err := proto.Marshal(fm)
	if err != nil {
		t.Fatalf("marshal feed: %v", err)
	}
	return data
}

func TestFetchFeedDecodes(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		_, _ = w.Write(testFeed(t))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", time.Second, zerolog.Nop(), nil)
	snap, err := c.FetchFeed(context.Background(), "/tripUpdates")
	if err != nil {
		t.Fatalf("FetchFeed: %v", err)
	}
	if gotKey != "secret" {
		t.Errorf("expected x-api-key header, got %q", gotKey)
	}
	if snap.HeaderTimestamp() != 1750000000 {
		t.Errorf("header timestamp = %d", snap.HeaderTimestamp())
	}
	if len(snap.Entities()) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(snap.Entities()))
	}
	if snap.FetchedAt.IsZero() {
		t.Error("snapshot should be tagged with fetch time")
	}
}

func TestFetchFeedErrors(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
	}{
		{
			name:       "upstream 503",
			handler:    func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(503) },
			wantStatus: 503,
		},
		{
			name:       "garbage payload",
			handler:    func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("\xff\xfe not protobuf")) },
			wantStatus: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewClient(srv.URL, "", time.Second, zerolog.Nop(), nil)
			_, err := c.FetchFeed(context.Background(), "/tripUpdates")
			var ue *upstream.Error
			if !errors.As(err, &ue) {
				t.Fatalf("expected *upstream.Error, got %v", err)
			}
			if ue.Status != tt.wantStatus {
				t.Errorf("status = %d, expected %d", ue.Status, tt.wantStatus)
			}
			if ue.Resource != "/tripUpdates" {
				t.Errorf("resource = %q", ue.Resource)
			}
		})
	}
}

func TestSnapshotTripLookups(t *testing.T) {
	snap := &Snapshot{Feed: &gtfsrtpb.FeedMessage{
		Entity: []*gtfsrtpb.FeedEntity{
			{
				Id: proto.String("v1"),
				Vehicle: &gtfsrtpb.VehiclePosition{
					Trip:     &gtfsrtpb.TripDescriptor{TripId: proto.String("trip-a")},
					Position: &gtfsrtpb.Position{Latitude: proto.Float32(40.75), Longitude: proto.Float32(-73.83)},
				},
			},
			{
				Id: proto.String("t1"),
				TripUpdate: &gtfsrtpb.TripUpdate{
					Trip: &gtfsrtpb.TripDescriptor{TripId: proto.String("trip-a")},
					StopTimeUpdate: []*gtfsrtpb.TripUpdate_StopTimeUpdate{
						{
							StopId:    proto.String("100"),
							Departure: &gtfsrtpb.TripUpdate_StopTimeEvent{Time: proto.Int64(1750000100)},
						},
						{
							StopId:               proto.String("101"),
							Arrival:              &gtfsrtpb.TripUpdate_StopTimeEvent{Time: proto.Int64(1750000200)},
							ScheduleRelationship: gtfsrtpb.TripUpdate_StopTimeUpdate_SKIPPED.Enum(),
						},
					},
				},
			},
		},
	}}

	if v := snap.VehicleForTrip("trip-a"); v == nil {
		t.Error("expected vehicle for trip-a")
	}
	if v := snap.VehicleForTrip("trip-b"); v != nil {
		t.Error("expected nil vehicle for unknown trip")
	}

	sts := snap.TripStopTimes("trip-a")
	if len(sts) != 2 {
		t.Fatalf("expected 2 stop times, got %d", len(sts))
	}
	if sts[0].DepartureSec == nil || *sts[0].DepartureSec != 1750000100 {
		t.Errorf("first stop departure wrong: %+v", sts[0])
	}
	if !sts[1].Skipped {
		t.Error("second stop should be marked skipped")
	}
	if snap.TripStopTimes("trip-b") != nil {
		t.Error("expected nil stop times for unknown trip")
	}
}

func TestAlertsNormalization(t *testing.T) {
	snap := &Snapshot{Feed: &gtfsrtpb.FeedMessage{
		Entity: []*gtfsrtpb.FeedEntity{
			{
				Id: proto.String("alert-1"),
				Alert: &gtfsrtpb.Alert{
					HeaderText: &gtfsrtpb.TranslatedString{Translation: []*gtfsrtpb.TranslatedString_Translation{
						{Text: proto.String("Q17 detour"), Language: proto.String("en")},
					}},
					ActivePeriod: []*gtfsrtpb.TimeRange{
						{Start: proto.Uint64(1000), End: proto.Uint64(2000)},
					},
					InformedEntity: []*gtfsrtpb.EntitySelector{
						{RouteId: proto.String("Q17")},
					},
					Effect: gtfsrtpb.Alert_DETOUR.Enum(),
				},
			},
		},
	}}

	alerts := snap.Alerts()
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	a := alerts[0]
	if a.Header != "Q17 detour" || a.Effect != "DETOUR" {
		t.Errorf("alert fields wrong: %+v", a)
	}

	if a.ActiveAt(time.Unix(1500, 0)) != true {
		t.Error("alert should be active inside its window")
	}
	if a.ActiveAt(time.Unix(2500, 0)) {
		t.Error("alert should be inactive after End")
	}
	if a.ActiveAt(time.Unix(500, 0)) {
		t.Error("alert should be inactive before Start")
	}

	if !a.TouchesRoute(map[string]struct{}{"Q17": {}}) {
		t.Error("alert should touch Q17")
	}
	if a.TouchesRoute(map[string]struct{}{"Bx1": {}}) {
		t.Error("alert should not touch Bx1")
	}
	systemWide := Alert{}
	if !systemWide.TouchesRoute(map[string]struct{}{"Bx1": {}}) {
		t.Error("alert naming no routes should touch everything")
	}
}
