package realtimebus

import (
	"errors"
	"net/http"
)

// handleTrip serves the per-trip timeline: remaining stop updates with names
// resolved, plus the vehicle position when the positions feed has one.
func (s *Server) handleTrip(w http.ResponseWriter, r *http.Request) {
	tripID := r.PathValue("tripId")
	if tripID == "" {
		writeError(w, errors.New("tripId is required"), http.StatusBadRequest)
		return
	}
	detail, err := s.svc.TripDetail(r.Context(), tripID)
	if err != nil {
		writeError(w, err, http.StatusBadGateway)
		return
	}
	if len(detail.Stops) == 0 && detail.Vehicle == nil {
		writeError(w, errors.New("trip not found in current feed"), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
