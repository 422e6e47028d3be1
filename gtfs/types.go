package gtfs

// Stop is one row of the pre-built stops table. Immutable after load.
type Stop struct {
	StopID string   `json:"stopId"`
	Name   string   `json:"name"`
	Lat    float64  `json:"lat"`
	Lon    float64  `json:"lon"`
	Routes []string `json:"routes"`
}

// Route is one row of the pre-built routes table. Colors are optional hex
// triplets; absent means the caller applies the default brand color.
type Route struct {
	RouteID   string `json:"routeId"`
	ShortName string `json:"routeShortName"`
	LongName  string `json:"routeLongName"`
	Color     string `json:"routeColor,omitempty"`
	TextColor string `json:"routeTextColor,omitempty"`
}

// StopDistance is a stop annotated with its distance from a rider, produced
// by nearby search.
type StopDistance struct {
	Stop
	DistanceMeters float64 `json:"distanceMeters"`
}
