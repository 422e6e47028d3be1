package arrivals

import (
	"sort"
	"time"

	"github.com/ashika-verma/realtimebus.nyc/gtfs"
)

// UnknownHeadsign is the grouping bucket for arrivals whose direction could
// not be resolved. It is distinct from any real headsign string.
const UnknownHeadsign = "Unknown"

// DirectionGroup is one direction's arrivals at a stop, keyed by resolved
// headsign.
type DirectionGroup struct {
	Headsign string    `json:"headsign"`
	Arrivals []Arrival `json:"arrivals"`
}

// GroupByDirection partitions a stop's arrivals by resolved headsign,
// preserving first-appearance order of groups. A group is dropped entirely
// when every arrival in it is more than groupGraceSec in the past, so the stop
// shows only directions with at least one still-relevant arrival.
func GroupByDirection(list []Arrival, now time.Time) []DirectionGroup {
	var order []string
	groups := map[string][]Arrival{}
	for _, a := range list {
		key := a.Headsign
		if key == "" {
			key = UnknownHeadsign
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], a)
	}

	out := []DirectionGroup{}
	for _, key := range order {
		if !anyRelevant(groups[key], now) {
			continue
		}
		out = append(out, DirectionGroup{Headsign: key, Arrivals: groups[key]})
	}
	return out
}

// anyRelevant reports whether at least one arrival is newer than the group
// grace window (intentionally looser than the per-row "departed" threshold).
func anyRelevant(list []Arrival, now time.Time) bool {
	for _, a := range list {
		t := a.EffectiveTime()
		if t > 0 && float64(t-now.Unix()) > -groupGraceSec {
			return true
		}
	}
	return false
}

// NearbyStop is one display-ready stop result: the stop, the rider's walk
// time to it, and its direction-grouped arrivals. Raw effective times stay on
// the arrivals so any derived label can be recomputed at render time.
type NearbyStop struct {
	gtfs.StopDistance
	WalkTimeSec float64          `json:"walkTimeSec"`
	Directions  []DirectionGroup `json:"directions"`
}

// HasLiveArrival reports whether any direction still has a not-long-departed
// arrival.
func (n NearbyStop) HasLiveArrival(now time.Time) bool {
	for _, g := range n.Directions {
		if anyRelevant(g.Arrivals, now) {
			return true
		}
	}
	return false
}

// RankStops orders a nearby-stops list for display: stops with at least one
// live arrival first, then by ascending distance, stably in both keys.
func RankStops(stops []NearbyStop, now time.Time) {
	sort.SliceStable(stops, func(i, j int) bool {
		iHas := stops[i].HasLiveArrival(now)
		jHas := stops[j].HasLiveArrival(now)
		if iHas != jHas {
			return iHas
		}
		return stops[i].DistanceMeters < stops[j].DistanceMeters
	})
}
