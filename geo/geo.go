// Package geo holds the small amount of spatial and walking-time math the
// arrival pipeline depends on.
package geo

import "math"

const earthRadiusMeters = 6371000

// WalkSpeedMetersPerSec is the assumed walking pace (about 80 m/min, a
// comfortable walk). Every physical-to-temporal conversion in the pipeline
// goes through this constant.
const WalkSpeedMetersPerSec = 1.33

// HaversineMeters returns the great-circle distance between two WGS84 points.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// WalkTimeSec converts a walking distance to seconds at WalkSpeedMetersPerSec.
func WalkTimeSec(distanceMeters float64) float64 {
	return distanceMeters / WalkSpeedMetersPerSec
}
