package spatial

import (
	"math"

	"github.com/golang/geo/s2"

	"github.com/peerpath/journey-backend-go/internal/models"
)

// Earth's mean radius
const (
	EarthRadiusMeters = 6371000.0
	EarthRadiusKm     = 6371.0
)

// DistanceMeters returns the great-circle distance between two points in
// meters (haversine via S2 angular distance).
func DistanceMeters(a, b models.LatLng) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lng)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lng)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// WithinRadius reports whether point p lies inside the geofence centered
// at center with the given radius in meters.
func WithinRadius(p, center models.LatLng, radiusMeters float64) bool {
	return DistanceMeters(p, center) <= radiusMeters
}

// Bearing returns the initial bearing (forward azimuth) from a to b in
// degrees, normalized to [0, 360), 0 being North.
func Bearing(a, b models.LatLng) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	lonDiff := (b.Lng - a.Lng) * math.Pi / 180

	y := math.Sin(lonDiff) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(lonDiff)
	bearing := math.Atan2(y, x) * 180 / math.Pi

	return math.Mod(bearing+360, 360)
}

// Midpoint returns the great-circle midpoint between a and b.
func Midpoint(a, b models.LatLng) models.LatLng {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lng)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lng)

	mid := s2.Interpolate(0.5, s2.PointFromLatLng(p1), s2.PointFromLatLng(p2))
	ll := s2.LatLngFromPoint(mid)

	return models.LatLng{Lat: ll.Lat.Degrees(), Lng: ll.Lng.Degrees()}
}
