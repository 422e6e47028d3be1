package realtimebus

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ashika-verma/realtimebus.nyc/upstream"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps upstream failures to 502 and everything else to the given
// fallback status, always as an {"error": ...} body.
func writeError(w http.ResponseWriter, err error, fallback int) {
	status := fallback
	var ue *upstream.Error
	if errors.As(err, &ue) {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// setFreshnessHeaders stamps the response with the age of the backing fetch
// and whether it was served past its TTL.
func (s *Server) setFreshnessHeaders(w http.ResponseWriter, cacheKey string, stale bool) {
	if age := s.svc.SecondsSinceFetch(cacheKey); age != nil {
		w.Header().Set("X-Fetched-At", strconv.FormatInt(*age, 10)+"s ago")
	}
	if stale {
		w.Header().Set("X-Stale", "true")
	}
}
