package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	realtimebus "github.com/ashika-verma/realtimebus.nyc"
	"github.com/ashika-verma/realtimebus.nyc/arrivals"
	"github.com/ashika-verma/realtimebus.nyc/cache"
	"github.com/ashika-verma/realtimebus.nyc/config"
	"github.com/ashika-verma/realtimebus.nyc/gtfs"
	"github.com/ashika-verma/realtimebus.nyc/gtfsrt"
	"github.com/ashika-verma/realtimebus.nyc/logging"
	"github.com/ashika-verma/realtimebus.nyc/metrics"
	"github.com/ashika-verma/realtimebus.nyc/siri"
)

func main() {
	configPath := flag.String("config", "", "path to config.yml (default: config.yml, ./server/config.yml)")
	logLevel := flag.String("log-level", "info", "zerolog level (trace|debug|info|warn|error)")
	flag.Parse()

	// .env is optional; real deployments set the keys in the environment.
	_ = godotenv.Load()

	log := logging.Setup(*logLevel)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	if cfg.GTFSRT.APIKey == "" {
		log.Warn().Msg("MTA_API_KEY not set; feed requests will be unauthenticated")
	}

	store, err := gtfs.Load(cfg.GTFS.DataDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.GTFS.DataDir).Msg("reference data load failed")
	}
	log.Info().Int("stops", len(store.Stops())).Msg("reference data loaded")

	collector := metrics.NewCollector()
	cacheStore := cache.New(nil, collector)

	rt := gtfsrt.NewClient(
		cfg.GTFSRT.BaseURL,
		cfg.GTFSRT.APIKey,
		time.Duration(cfg.GTFSRT.TimeoutMS)*time.Millisecond,
		log, collector,
	)
	siriClient := siri.NewClient(
		cfg.SIRI.BaseURL,
		cfg.SIRI.APIKey,
		cfg.SIRI.OperatorRef,
		cfg.SIRI.MinStopVisitsPerLine,
		time.Duration(cfg.SIRI.TimeoutMS)*time.Millisecond,
		log, collector,
	)

	svc := arrivals.NewService(arrivals.ServiceConfig{
		TripUpdatesPath:      cfg.GTFSRT.TripUpdatesPath,
		VehiclePositionsPath: cfg.GTFSRT.VehiclePositionsPath,
		AlertsPath:           cfg.GTFSRT.AlertsPath,
		FeedTTL:              time.Duration(cfg.GTFSRT.FeedTTLSeconds) * time.Second,
		AlertsTTL:            time.Duration(cfg.GTFSRT.AlertsTTLSeconds) * time.Second,
		SIRITTL:              time.Duration(cfg.SIRI.TTLSeconds) * time.Second,
		MaxBatchStops:        cfg.SIRI.MaxBatchStops,
		NearbyRadiusMeters:   cfg.Nearby.RadiusMeters,
	}, store, rt, siriClient, cacheStore, log, nil)

	srv := realtimebus.NewServer(cfg.Server.Port, svc, collector, log)
	errc := srv.Start()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errc:
		if err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
		os.Exit(1)
	}
	log.Info().Msg("server shut down")
}
