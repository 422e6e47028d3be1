package realtimebus

import (
	"errors"
	"net/http"
	"strconv"
)

// handleNearby serves the ranked nearby-stops view: each stop within the
// radius with walk time and direction-grouped arrivals, live stops first.
func (s *Server) handleNearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(q.Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		writeError(w, errors.New("lat and lon parameters are required"), http.StatusBadRequest)
		return
	}
	var radius float64
	if raw := q.Get("radius"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			writeError(w, errors.New("radius must be a positive number"), http.StatusBadRequest)
			return
		}
		radius = v
	}

	stops, stale, err := s.svc.Nearby(r.Context(), lat, lon, radius)
	if err != nil {
		writeError(w, err, http.StatusBadGateway)
		return
	}
	s.setFreshnessHeaders(w, s.svc.Config().TripUpdatesPath, stale)
	writeJSON(w, http.StatusOK, map[string]any{"stops": stops})
}
