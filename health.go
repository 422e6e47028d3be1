package realtimebus

import "net/http"

type healthStatus struct {
	Status    string           `json:"status"`
	StopCount int              `json:"stopCount"`
	FeedAges  map[string]int64 `json:"feedAgeSeconds,omitempty"`
}

// handleHealth reports liveness plus the age of each feed cache entry, so an
// operator can tell a healthy-but-idle server from one whose upstreams stopped
// answering.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	cfg := s.svc.Config()
	ages := map[string]int64{}
	for name, key := range map[string]string{
		"tripUpdates":      cfg.TripUpdatesPath,
		"vehiclePositions": cfg.VehiclePositionsPath,
		"alerts":           cfg.AlertsPath,
	} {
		if age := s.svc.SecondsSinceFetch(key); age != nil {
			ages[name] = *age
		}
	}
	writeJSON(w, http.StatusOK, healthStatus{
		Status:    "ok",
		StopCount: len(s.svc.Store().Stops()),
		FeedAges:  ages,
	})
}
