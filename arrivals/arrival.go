package arrivals

import "sort"

// Arrival is the canonical record both upstream shapes normalize into.
// Nothing downstream of the normalizer branches on the source shape. Every
// Arrival has at least one of ArrivalSec/DepartureSec set; records lacking
// both are dropped during normalization.
type Arrival struct {
	TripID       string  `json:"tripId,omitempty"`
	RouteID      string  `json:"routeId,omitempty"`
	Headsign     string  `json:"headsign,omitempty"` // resolved; empty groups under "Unknown"
	DirectionID  *int    `json:"directionId,omitempty"`
	VehicleID    string  `json:"vehicleId,omitempty"`
	StopSequence *uint32 `json:"stopSequence,omitempty"`
	ArrivalSec   *int64  `json:"arrivalSec,omitempty"`
	DepartureSec *int64  `json:"departureSec,omitempty"`
	// StopsAway is nil when unknown; zero means "at the previous stop".
	StopsAway *int `json:"stopsAway,omitempty"`
	// IsScheduled is true when only a static/aimed time exists, with no
	// live prediction behind it.
	IsScheduled bool `json:"isScheduled"`
}

// EffectiveTime is the single timestamp used for ordering and comparison:
// arrival time, falling back to departure time.
func (a Arrival) EffectiveTime() int64 {
	if a.ArrivalSec != nil {
		return *a.ArrivalSec
	}
	if a.DepartureSec != nil {
		return *a.DepartureSec
	}
	return 0
}

// sortByEffectiveTime orders a stop's list ascending by effective time,
// keeping feed order among ties.
func sortByEffectiveTime(list []Arrival) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].EffectiveTime() < list[j].EffectiveTime()
	})
}
