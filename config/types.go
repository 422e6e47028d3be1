package config

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0"`
}

// GTFSConfig locates the pre-built reference tables (stops.json, routes.json,
// route-headsigns.json) produced by the GTFS processing batch job.
type GTFSConfig struct {
	DataDir string `yaml:"dataDir" validate:"required"`
}

// GTFSRTConfig contains GTFS-Realtime feed configuration. The API key is not
// part of the YAML shape; it is read from the MTA_API_KEY environment variable.
type GTFSRTConfig struct {
	BaseURL              string `yaml:"baseURL" validate:"omitempty,url"`
	TripUpdatesPath      string `yaml:"tripUpdatesPath"`
	VehiclePositionsPath string `yaml:"vehiclePositionsPath"`
	AlertsPath           string `yaml:"alertsPath"`
	FeedTTLSeconds       int    `yaml:"feedTTLSeconds" validate:"gte=0"`
	AlertsTTLSeconds     int    `yaml:"alertsTTLSeconds" validate:"gte=0"`
	TimeoutMS            int    `yaml:"timeoutMS" validate:"gte=0"`
	APIKey               string `yaml:"-"`
}

// SIRIConfig contains SIRI stop-monitoring endpoint configuration. The key is
// read from BUSTIME_API_KEY, falling back to MTA_API_KEY (same registration).
type SIRIConfig struct {
	BaseURL              string `yaml:"baseURL" validate:"omitempty,url"`
	OperatorRef          string `yaml:"operatorRef"`
	MinStopVisitsPerLine int    `yaml:"minStopVisitsPerLine" validate:"gte=0"`
	TTLSeconds           int    `yaml:"ttlSeconds" validate:"gte=0"`
	MaxBatchStops        int    `yaml:"maxBatchStops" validate:"gte=0"`
	TimeoutMS            int    `yaml:"timeoutMS" validate:"gte=0"`
	APIKey               string `yaml:"-"`
}

// NearbyConfig contains the nearby-stop search parameters.
type NearbyConfig struct {
	RadiusMeters float64 `yaml:"radiusMeters" validate:"gte=0"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server ServerConfig `yaml:"server"`
	GTFS   GTFSConfig   `yaml:"gtfs" validate:"required"`
	GTFSRT GTFSRTConfig `yaml:"gtfsrt"`
	SIRI   SIRIConfig   `yaml:"siri"`
	Nearby NearbyConfig `yaml:"nearby"`
}
