package geo

import "math"

const earthRadiusKm = 6371.0

// Speeds used for travel-time estimation, in km/h.
var transportSpeedKmh = map[string]float64{
	"walking":   5.0,
	"bicycling": 15.0,
	"driving":   40.0,
	"transit":   25.0,
}

// HaversineKm returns the great-circle distance between two coordinates
// given in degrees.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lng1Rad := lng1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lng2Rad := lng2 * math.Pi / 180

	dlat := lat2Rad - lat1Rad
	dlng := lng2Rad - lng1Rad

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dlng/2)*math.Sin(dlng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// EstimateTravelMinutes converts a distance into travel minutes for the
// given transport mode. Unknown modes fall back to walking speed.
func EstimateTravelMinutes(distanceKm float64, mode string) float64 {
	speed, ok := transportSpeedKmh[mode]
	if !ok || speed <= 0 {
		speed = transportSpeedKmh["walking"]
	}
	return distanceKm / speed * 60
}
