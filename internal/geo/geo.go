package geo

import (
	"context"
	"math"
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Geocoder resolves a free-text city name to coordinates.
//
// Implementations are best-effort: a lookup failure or an unknown city is
// reported as (nil, error) and callers degrade to "no coordinates" rather
// than failing the operation that needed them.
type Geocoder interface {
	Geocode(ctx context.Context, city string) (*Coordinates, error)
}

// DistanceKM returns the great-circle distance between two points using the
// haversine formula.
func DistanceKM(a, b Coordinates) float64 {
	const earthRadius = 6371 // km

	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadius * c
}
