package realtimebus

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ashika-verma/realtimebus.nyc/arrivals"
	"github.com/ashika-verma/realtimebus.nyc/metrics"
)

// Server owns the HTTP listener and routes every endpoint to the arrival
// service.
type Server struct {
	svc       *arrivals.Service
	collector *metrics.Collector
	log       zerolog.Logger
	httpSrv   *http.Server
}

func NewServer(port int, svc *arrivals.Service, collector *metrics.Collector, log zerolog.Logger) *Server {
	s := &Server{svc: svc, collector: collector, log: log}
	s.httpSrv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/gtfs/trips", s.handleTrips)
	mux.HandleFunc("GET /api/gtfs/vehicles", s.handleVehicles)
	mux.HandleFunc("GET /api/gtfs/alerts", s.handleAlerts)
	mux.HandleFunc("GET /api/siri/stops", s.handleSIRIStops)
	mux.HandleFunc("GET /api/nearby", s.handleNearby)
	mux.HandleFunc("GET /api/trip/{tripId}", s.handleTrip)
	mux.HandleFunc("GET /api/stops", s.handleStops)
	mux.HandleFunc("GET /api/routes", s.handleRoutes)
	mux.HandleFunc("GET /api/route-headsigns", s.handleRouteHeadsigns)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	if s.collector != nil {
		mux.Handle("GET /metrics", s.collector.Handler())
	}
	return mux
}

// Handler exposes the routed mux for tests.
func (s *Server) Handler() http.Handler { return s.httpSrv.Handler }

// Start runs ListenAndServe in the background and reports startup failures
// on the returned channel.
func (s *Server) Start() <-chan error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.httpSrv.Addr).Msg("server listening")
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()
	return errc
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
