package arrivals

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ashika-verma/realtimebus.nyc/cache"
	"github.com/ashika-verma/realtimebus.nyc/geo"
	"github.com/ashika-verma/realtimebus.nyc/gtfs"
	"github.com/ashika-verma/realtimebus.nyc/gtfsrt"
	"github.com/ashika-verma/realtimebus.nyc/siri"
)

// ServiceConfig carries the TTLs and caps the pipeline operates under.
type ServiceConfig struct {
	TripUpdatesPath      string
	VehiclePositionsPath string
	AlertsPath           string
	FeedTTL              time.Duration // trip updates + vehicle positions
	AlertsTTL            time.Duration
	SIRITTL              time.Duration
	MaxBatchStops        int
	NearbyRadiusMeters   float64
}

// Service is the arrival resolution pipeline: reference data + feed clients
// + response cache, producing per-stop, direction-grouped, ranked arrival
// views.
type Service struct {
	cfg   ServiceConfig
	store *gtfs.Store
	rt    *gtfsrt.Client
	siri  *siri.Client
	cache *cache.Store
	log   zerolog.Logger
	now   func() time.Time
}

// NewService wires the pipeline. now may be nil (wall clock).
func NewService(cfg ServiceConfig, store *gtfs.Store, rt *gtfsrt.Client, siriClient *siri.Client, cacheStore *cache.Store, log zerolog.Logger, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	if cfg.MaxBatchStops <= 0 {
		cfg.MaxBatchStops = 20
	}
	return &Service{
		cfg:   cfg,
		store: store,
		rt:    rt,
		siri:  siriClient,
		cache: cacheStore,
		log:   log.With().Str("component", "arrivals").Logger(),
		now:   now,
	}
}

// Store exposes the reference data for the serving layer.
func (s *Service) Store() *gtfs.Store { return s.store }

// Config exposes the effective pipeline configuration, mainly so the serving
// layer can reuse the feed cache keys for freshness headers.
func (s *Service) Config() ServiceConfig { return s.cfg }

// TripUpdates returns the trip-updates snapshot, cached for the feed TTL.
// stale is true when an expired snapshot was served because the refresh
// failed.
func (s *Service) TripUpdates(ctx context.Context) (*gtfsrt.Snapshot, bool, error) {
	return s.feed(ctx, s.cfg.TripUpdatesPath, "trip_updates", s.cfg.FeedTTL)
}

// VehiclePositions returns the vehicle-positions snapshot, cached for the
// feed TTL.
func (s *Service) VehiclePositions(ctx context.Context) (*gtfsrt.Snapshot, bool, error) {
	return s.feed(ctx, s.cfg.VehiclePositionsPath, "vehicle_positions", s.cfg.FeedTTL)
}

// AlertsFeed returns the service-alerts snapshot, cached for the alerts TTL.
func (s *Service) AlertsFeed(ctx context.Context) (*gtfsrt.Snapshot, bool, error) {
	return s.feed(ctx, s.cfg.AlertsPath, "alerts", s.cfg.AlertsTTL)
}

func (s *Service) feed(ctx context.Context, path, kind string, ttl time.Duration) (*gtfsrt.Snapshot, bool, error) {
	return cache.Get(ctx, s.cache, path, kind, ttl, func(ctx context.Context) (*gtfsrt.Snapshot, error) {
		return s.rt.FetchFeed(ctx, path)
	})
}

// StopArrivals is the SIRI path: per-stop cached fetches for up to
// MaxBatchStops stop IDs, run concurrently so the slowest stop determines
// batch latency. A failing stop yields an empty list; the batch as a whole
// fails only when every stop failed, surfacing the first error encountered.
func (s *Service) StopArrivals(ctx context.Context, stopIDs []string) (map[string][]Arrival, error) {
	if len(stopIDs) > s.cfg.MaxBatchStops {
		stopIDs = stopIDs[:s.cfg.MaxBatchStops]
	}
	out := make(map[string][]Arrival, len(stopIDs))
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
		failures int
	)
	for _, id := range stopIDs {
		wg.Add(1)
		go func(stopID string) {
			defer wg.Done()
			resp, _, err := cache.Get(ctx, s.cache, "siri_"+stopID, "siri", s.cfg.SIRITTL,
				func(ctx context.Context) (*siri.StopMonitoringResponse, error) {
					return s.siri.StopMonitoring(ctx, stopID)
				})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.log.Warn().Err(err).Str("stop", stopID).Msg("stop monitoring failed")
				failures++
				if firstErr == nil {
					firstErr = err
				}
				out[stopID] = []Arrival{}
				return
			}
			list := FromVisits(resp)
			s.resolveHeadsigns(list)
			out[stopID] = list
		}(id)
	}
	wg.Wait()

	if len(stopIDs) > 0 && failures == len(stopIDs) && firstErr != nil {
		return nil, fmt.Errorf("stop monitoring batch: %w", firstErr)
	}
	return out, nil
}

// ArrivalsFromTripUpdates is the GTFS-RT path: one shared feed fetch,
// flattened to the requested stops. An error means no data at all was
// available, fresh or stale, which is distinct from a successful fetch with
// no buses.
func (s *Service) ArrivalsFromTripUpdates(ctx context.Context, stopIDs []string) (map[string][]Arrival, bool, error) {
	snap, stale, err := s.TripUpdates(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("arrivals unavailable: %w", err)
	}
	set := make(map[string]struct{}, len(stopIDs))
	for _, id := range stopIDs {
		set[id] = struct{}{}
	}
	byStop := FromTripUpdates(snap, set)
	for _, list := range byStop {
		s.resolveHeadsigns(list)
	}
	return byStop, stale, nil
}

// Nearby produces the display-ready nearby view: stops within the radius,
// each with walk time and direction-grouped arrivals, ranked with live
// stops first and distance as the tiebreaker.
func (s *Service) Nearby(ctx context.Context, lat, lon, radiusMeters float64) ([]NearbyStop, bool, error) {
	if radiusMeters <= 0 {
		radiusMeters = s.cfg.NearbyRadiusMeters
	}
	stops := s.store.StopsNear(lat, lon, radiusMeters)
	ids := make([]string, len(stops))
	for i, st := range stops {
		ids[i] = st.StopID
	}

	byStop, stale, err := s.ArrivalsFromTripUpdates(ctx, ids)
	if err != nil {
		return nil, false, err
	}

	now := s.now()
	out := make([]NearbyStop, 0, len(stops))
	for _, st := range stops {
		out = append(out, NearbyStop{
			StopDistance: st,
			WalkTimeSec:  geo.WalkTimeSec(st.DistanceMeters),
			Directions:   GroupByDirection(byStop[st.StopID], now),
		})
	}
	RankStops(out, now)
	return out, stale, nil
}

// TripStop is one row of a trip's remaining stop sequence, with the stop
// name resolved from reference data.
type TripStop struct {
	gtfsrt.StopTime
	Name string `json:"name,omitempty"`
}

// TripDetail is the per-trip view: vehicle position (when the vehicle feed
// has one) plus the trip's remaining stops.
type TripDetail struct {
	TripID   string     `json:"tripId"`
	Vehicle  *Vehicle   `json:"vehicle,omitempty"`
	Stops    []TripStop `json:"stops"`
	Stale    bool       `json:"stale,omitempty"`
	RouteID  string     `json:"routeId,omitempty"`
	Headsign string     `json:"headsign,omitempty"`
}

// Vehicle is the position of the bus serving a trip.
type Vehicle struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Bearing float64 `json:"bearing,omitempty"`
	StopID  string  `json:"stopId,omitempty"`
}

// TripDetail assembles the timeline view for one trip from the trip-updates
// and vehicle-positions feeds.
func (s *Service) TripDetail(ctx context.Context, tripID string) (*TripDetail, error) {
	tuSnap, tuStale, err := s.TripUpdates(ctx)
	if err != nil {
		return nil, fmt.Errorf("trip detail unavailable: %w", err)
	}
	detail := &TripDetail{TripID: tripID, Stale: tuStale, Stops: []TripStop{}}
	for _, st := range tuSnap.TripStopTimes(tripID) {
		ts := TripStop{StopTime: st}
		if stop, ok := s.store.Stop(st.StopID); ok {
			ts.Name = stop.Name
		}
		detail.Stops = append(detail.Stops, ts)
	}

	// Vehicle position is best-effort; the timeline is useful without it.
	if vpSnap, _, err := s.VehiclePositions(ctx); err == nil {
		if v := vpSnap.VehicleForTrip(tripID); v != nil && v.Position != nil {
			veh := &Vehicle{}
			if v.Position.Latitude != nil {
				veh.Lat = float64(*v.Position.Latitude)
			}
			if v.Position.Longitude != nil {
				veh.Lon = float64(*v.Position.Longitude)
			}
			if v.Position.Bearing != nil {
				veh.Bearing = float64(*v.Position.Bearing)
			}
			if v.StopId != nil {
				veh.StopID = *v.StopId
			}
			detail.Vehicle = veh
		}
	}
	return detail, nil
}

// AlertsForRoutes returns the currently-active alerts touching any of the
// given routes (system-wide alerts always match).
func (s *Service) AlertsForRoutes(ctx context.Context, routeIDs []string) ([]gtfsrt.Alert, bool, error) {
	snap, stale, err := s.AlertsFeed(ctx)
	if err != nil {
		return nil, false, err
	}
	set := make(map[string]struct{}, len(routeIDs))
	for _, rid := range routeIDs {
		set[rid] = struct{}{}
	}
	now := s.now()
	out := []gtfsrt.Alert{}
	for _, a := range snap.Alerts() {
		if !a.ActiveAt(now) {
			continue
		}
		if len(routeIDs) > 0 && !a.TouchesRoute(set) {
			continue
		}
		out = append(out, a)
	}
	return out, stale, nil
}

// SecondsSinceFetch reports the age of a cached feed key, or nil when the
// key has never been fetched.
func (s *Service) SecondsSinceFetch(key string) *int64 {
	age, ok := s.cache.SecondsSinceFetch(key)
	if !ok {
		return nil
	}
	return &age
}

// resolveHeadsigns applies the uniform fallback order: the record's own
// headsign, then the static (route, direction) table, else empty, which
// groups under UnknownHeadsign.
func (s *Service) resolveHeadsigns(list []Arrival) {
	for i := range list {
		if list[i].Headsign != "" {
			continue
		}
		if list[i].RouteID == "" || list[i].DirectionID == nil {
			continue
		}
		if h, ok := s.store.Headsign(list[i].RouteID, *list[i].DirectionID); ok {
			list[i].Headsign = h
		}
	}
}
