package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Load reads, validates, and defaults the application configuration. When
// path is empty, the usual locations are tried in order. API keys come from
// the environment, never from the YAML file.
func Load(path string) (*AppConfig, error) {
	paths := []string{"config.yml", "./server/config.yml"}
	if path != "" {
		paths = []string{path}
	}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	cfg.GTFSRT.APIKey = os.Getenv("MTA_API_KEY")
	cfg.SIRI.APIKey = os.Getenv("BUSTIME_API_KEY")
	if cfg.SIRI.APIKey == "" {
		cfg.SIRI.APIKey = cfg.GTFSRT.APIKey
	}
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *AppConfig) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3001
	}
	if cfg.GTFSRT.TripUpdatesPath == "" {
		cfg.GTFSRT.TripUpdatesPath = "/tripUpdates"
	}
	if cfg.GTFSRT.VehiclePositionsPath == "" {
		cfg.GTFSRT.VehiclePositionsPath = "/vehiclePositions"
	}
	if cfg.GTFSRT.AlertsPath == "" {
		cfg.GTFSRT.AlertsPath = "/alerts"
	}
	if cfg.GTFSRT.FeedTTLSeconds == 0 {
		cfg.GTFSRT.FeedTTLSeconds = 15
	}
	if cfg.GTFSRT.AlertsTTLSeconds == 0 {
		cfg.GTFSRT.AlertsTTLSeconds = 60
	}
	if cfg.GTFSRT.TimeoutMS == 0 {
		cfg.GTFSRT.TimeoutMS = 5000
	}
	if cfg.SIRI.OperatorRef == "" {
		cfg.SIRI.OperatorRef = "MTA"
	}
	if cfg.SIRI.MinStopVisitsPerLine == 0 {
		cfg.SIRI.MinStopVisitsPerLine = 2
	}
	if cfg.SIRI.TTLSeconds == 0 {
		cfg.SIRI.TTLSeconds = 30
	}
	if cfg.SIRI.MaxBatchStops == 0 {
		cfg.SIRI.MaxBatchStops = 20
	}
	if cfg.SIRI.TimeoutMS == 0 {
		cfg.SIRI.TimeoutMS = 5000
	}
	if cfg.Nearby.RadiusMeters == 0 {
		// 560m is roughly a 7 minute walk at 1.33 m/s.
		cfg.Nearby.RadiusMeters = 560
	}
	// The SIRI client appends the endpoint itself; a base URL pasted with the
	// full stop-monitoring path would double the segment and 404.
	cfg.SIRI.BaseURL = strings.TrimSuffix(cfg.SIRI.BaseURL, "/")
	cfg.SIRI.BaseURL = strings.TrimSuffix(cfg.SIRI.BaseURL, "/stop-monitoring.json")
}
