package realtimebus

import (
	"errors"
	"net/http"
	"strings"
)

// handleSIRIStops serves normalized per-stop arrivals for a comma-separated
// stops parameter. A stop whose upstream call failed appears with an empty
// list; the request fails only when every stop did.
func (s *Server) handleSIRIStops(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("stops")
	if raw == "" {
		writeError(w, errors.New("stops parameter is required"), http.StatusBadRequest)
		return
	}
	var stopIDs []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			stopIDs = append(stopIDs, id)
		}
	}
	if len(stopIDs) == 0 {
		writeError(w, errors.New("stops parameter is required"), http.StatusBadRequest)
		return
	}

	byStop, err := s.svc.StopArrivals(r.Context(), stopIDs)
	if err != nil {
		writeError(w, err, http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, byStop)
}
