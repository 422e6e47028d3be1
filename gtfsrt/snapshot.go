package gtfsrt

import (
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
)

// Snapshot is one decoded feed fetch, tagged with its wall-clock fetch time.
type Snapshot struct {
	Feed      *gtfsrtpb.FeedMessage
	FetchedAt time.Time
}

// HeaderTimestamp returns the feed header timestamp, or zero when absent.
func (s *Snapshot) HeaderTimestamp() int64 {
	if s.Feed == nil || s.Feed.Header == nil || s.Feed.Header.Timestamp == nil {
		return 0
	}
	return int64(*s.Feed.Header.Timestamp)
}

// Entities returns the feed entity list (never nil).
func (s *Snapshot) Entities() []*gtfsrtpb.FeedEntity {
	if s.Feed == nil {
		return nil
	}
	return s.Feed.Entity
}

// VehicleForTrip returns the vehicle position for a trip from a
// vehicle-positions snapshot, or nil when the trip is not in the feed.
func (s *Snapshot) VehicleForTrip(tripID string) *gtfsrtpb.VehiclePosition {
	for _, e := range s.Entities() {
		v := e.Vehicle
		if v == nil || v.Trip == nil || v.Trip.TripId == nil {
			continue
		}
		if *v.Trip.TripId == tripID {
			return v
		}
	}
	return nil
}

// StopTime is one per-stop entry of a trip update's stop sequence.
type StopTime struct {
	StopID       string  `json:"stopId"`
	StopSequence *uint32 `json:"stopSequence,omitempty"`
	ArrivalSec   *int64  `json:"arrivalSec,omitempty"`
	DepartureSec *int64  `json:"departureSec,omitempty"`
	Skipped      bool    `json:"skipped,omitempty"`
}

// TripStopTimes returns the remaining stop sequence for a trip from a
// trip-updates snapshot, in feed order. Nil when the trip is not present.
func (s *Snapshot) TripStopTimes(tripID string) []StopTime {
	for _, e := range s.Entities() {
		tu := e.TripUpdate
		if tu == nil || tu.Trip == nil || tu.Trip.TripId == nil || *tu.Trip.TripId != tripID {
			continue
		}
		out := make([]StopTime, 0, len(tu.StopTimeUpdate))
		for _, stu := range tu.StopTimeUpdate {
			if stu.StopId == nil {
				continue
			}
			st := StopTime{StopID: *stu.StopId, StopSequence: stu.StopSequence}
			if stu.Arrival != nil && stu.Arrival.Time != nil {
				t := *stu.Arrival.Time
				st.ArrivalSec = &t
			}
			if stu.Departure != nil && stu.Departure.Time != nil {
				t := *stu.Departure.Time
				st.DepartureSec = &t
			}
			if stu.ScheduleRelationship != nil && *stu.ScheduleRelationship == gtfsrtpb.TripUpdate_StopTimeUpdate_SKIPPED {
				st.Skipped = true
			}
			out = append(out, st)
		}
		return out
	}
	return nil
}
