package spatial

import (
	"math"
	"testing"

	"github.com/peerpath/journey-backend-go/internal/models"
)

func TestDistanceMeters_Identity(t *testing.T) {
	points := []models.LatLng{
		{Lat: 0, Lng: 0},
		{Lat: 20.5937, Lng: 78.9629},
		{Lat: -33.8688, Lng: 151.2093},
	}
	for _, p := range points {
		if d := DistanceMeters(p, p); d != 0 {
			t.Errorf("DistanceMeters(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestDistanceMeters_Symmetry(t *testing.T) {
	a := models.LatLng{Lat: 28.6139, Lng: 77.2090} // Delhi
	b := models.LatLng{Lat: 19.0760, Lng: 72.8777} // Mumbai

	ab := DistanceMeters(a, b)
	ba := DistanceMeters(b, a)
	if math.Abs(ab-ba) > 1e-6 {
		t.Errorf("distance not symmetric: %v vs %v", ab, ba)
	}
}

func TestDistanceMeters_KnownDistance(t *testing.T) {
	// One degree of longitude at the equator is ~111.19 km
	a := models.LatLng{Lat: 0, Lng: 0}
	b := models.LatLng{Lat: 0, Lng: 1}

	want := EarthRadiusMeters * math.Pi / 180
	got := DistanceMeters(a, b)
	if math.Abs(got-want) > 1 {
		t.Errorf("DistanceMeters = %v, want ~%v", got, want)
	}
}

func TestWithinRadius(t *testing.T) {
	center := models.LatLng{Lat: 52.5200, Lng: 13.4050}

	tests := []struct {
		name   string
		p      models.LatLng
		radius float64
		want   bool
	}{
		{name: "same point", p: center, radius: 50, want: true},
		{name: "just inside", p: models.LatLng{Lat: 52.5210, Lng: 13.4050}, radius: 150, want: true},
		{name: "outside", p: models.LatLng{Lat: 52.5300, Lng: 13.4050}, radius: 150, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithinRadius(tt.p, center, tt.radius); got != tt.want {
				t.Errorf("WithinRadius() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBearing(t *testing.T) {
	tests := []struct {
		name string
		a, b models.LatLng
		want float64
	}{
		{name: "due north", a: models.LatLng{Lat: 0, Lng: 0}, b: models.LatLng{Lat: 1, Lng: 0}, want: 0},
		{name: "due east", a: models.LatLng{Lat: 0, Lng: 0}, b: models.LatLng{Lat: 0, Lng: 1}, want: 90},
		{name: "due south", a: models.LatLng{Lat: 1, Lng: 0}, b: models.LatLng{Lat: 0, Lng: 0}, want: 180},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bearing(tt.a, tt.b)
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("Bearing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMidpoint(t *testing.T) {
	a := models.LatLng{Lat: 0, Lng: 0}
	b := models.LatLng{Lat: 0, Lng: 2}

	mid := Midpoint(a, b)
	if math.Abs(mid.Lat) > 0.001 || math.Abs(mid.Lng-1) > 0.001 {
		t.Errorf("Midpoint = %v, want ~(0, 1)", mid)
	}
}
