package realtimebus

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"

	"github.com/ashika-verma/realtimebus.nyc/gtfsrt"
)

// handleTrips, handleVehicles and handleAlerts expose the decoded GTFS-RT
// feeds verbatim, rendered as protojson so the payload matches the proto
// field names clients already know.

func (s *Server) handleTrips(w http.ResponseWriter, r *http.Request) {
	s.serveFeed(w, r, s.svc.Config().TripUpdatesPath, s.svc.TripUpdates)
}

func (s *Server) handleVehicles(w http.ResponseWriter, r *http.Request) {
	s.serveFeed(w, r, s.svc.Config().VehiclePositionsPath, s.svc.VehiclePositions)
}

// handleAlerts serves the raw alerts feed, or the normalized active alerts
// touching the given routes when a routes filter is present.
func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("routes")
	if raw == "" {
		s.serveFeed(w, r, s.svc.Config().AlertsPath, s.svc.AlertsFeed)
		return
	}
	var routeIDs []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			routeIDs = append(routeIDs, id)
		}
	}
	alerts, stale, err := s.svc.AlertsForRoutes(r.Context(), routeIDs)
	if err != nil {
		writeError(w, err, http.StatusBadGateway)
		return
	}
	s.setFreshnessHeaders(w, s.svc.Config().AlertsPath, stale)
	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

func (s *Server) serveFeed(w http.ResponseWriter, r *http.Request, cacheKey string, fetch func(context.Context) (*gtfsrt.Snapshot, bool, error)) {
	snap, stale, err := fetch(r.Context())
	if err != nil {
		writeError(w, err, http.StatusBadGateway)
		return
	}
	buf, err := protojson.Marshal(snap.Feed)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	s.setFreshnessHeaders(w, cacheKey, stale)
	if ts := snap.HeaderTimestamp(); ts > 0 {
		w.Header().Set("X-Feed-Timestamp", strconv.FormatInt(ts, 10))
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf)
}
