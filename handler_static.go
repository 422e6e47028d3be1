package realtimebus

import "net/http"

// The static endpoints serve the reference tables as loaded at startup; they
// never touch upstreams.

func (s *Server) handleStops(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Store().Stops())
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Store().RoutesByID())
}

func (s *Server) handleRouteHeadsigns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Store().Headsigns())
}
