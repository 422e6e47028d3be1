package gtfs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/ashika-verma/realtimebus.nyc/geo"
)

// Store holds the reference data in memory for fast lookups: stops, routes,
// and per-direction headsigns. It is loaded exactly once at startup and
// read-only afterwards; serving without it is not a supported mode.
type Store struct {
	stops     map[string]Stop
	stopList  []Stop
	routes    map[string]Route
	headsigns map[string]map[string]string // route_id -> direction ("0"|"1") -> headsign
}

// Load reads the three pre-built JSON tables (stops.json, routes.json,
// route-headsigns.json) from dir. Any missing or malformed table is a fatal
// startup error.
func Load(dir string) (*Store, error) {
	s := &Store{
		stops:     map[string]Stop{},
		routes:    map[string]Route{},
		headsigns: map[string]map[string]string{},
	}

	var stops []Stop
	if err := readTable(filepath.Join(dir, "stops.json"), &stops); err != nil {
		return nil, fmt.Errorf("reference data: %w", err)
	}
	var routes []Route
	if err := readTable(filepath.Join(dir, "routes.json"), &routes); err != nil {
		return nil, fmt.Errorf("reference data: %w", err)
	}
	if err := readTable(filepath.Join(dir, "route-headsigns.json"), &s.headsigns); err != nil {
		return nil, fmt.Errorf("reference data: %w", err)
	}

	s.stopList = stops
	for _, st := range stops {
		s.stops[st.StopID] = st
	}
	for _, r := range routes {
		s.routes[r.RouteID] = r
	}
	return s, nil
}

func readTable(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

// Stop looks up a stop by its upstream identifier.
func (s *Store) Stop(stopID string) (Stop, bool) {
	st, ok := s.stops[stopID]
	return st, ok
}

// Route looks up a route by ID.
func (s *Store) Route(routeID string) (Route, bool) {
	r, ok := s.routes[routeID]
	return r, ok
}

// Headsign returns the static headsign for a (route, direction) pair. Used
// only as a fallback when a live record carries no headsign of its own.
func (s *Store) Headsign(routeID string, directionID int) (string, bool) {
	dirs, ok := s.headsigns[routeID]
	if !ok {
		return "", false
	}
	h, ok := dirs[strconv.Itoa(directionID)]
	return h, ok
}

// Stops returns all stops in table order.
func (s *Store) Stops() []Stop { return s.stopList }

// RoutesByID returns the full route table.
func (s *Store) RoutesByID() map[string]Route { return s.routes }

// Headsigns returns the full route → direction → headsign table.
func (s *Store) Headsigns() map[string]map[string]string { return s.headsigns }

// StopsNear returns the stops within radiusMeters of (lat, lon), each
// annotated with its distance, sorted ascending by distance.
func (s *Store) StopsNear(lat, lon, radiusMeters float64) []StopDistance {
	out := make([]StopDistance, 0)
	for _, st := range s.stopList {
		d := geo.HaversineMeters(lat, lon, st.Lat, st.Lon)
		if d <= radiusMeters {
			out = append(out, StopDistance{Stop: st, DistanceMeters: d})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceMeters < out[j].DistanceMeters })
	return out
}
