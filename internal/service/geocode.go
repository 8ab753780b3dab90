package service

import (
	"context"
	"strings"
)

// Geocoder resolves a street address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
}

// StaticGeocoder resolves addresses against a fixed city-prefix table.
// Lots are created with an explicit city suffix; anything unknown maps to
// the default coordinates so lot creation never blocks on a third-party
// geocoding quota.
type StaticGeocoder struct {
	cities     map[string][2]float64
	defaultLat float64
	defaultLng float64
}

// NewStaticGeocoder creates a geocoder seeded with the launch cities.
func NewStaticGeocoder() *StaticGeocoder {
	return &StaticGeocoder{
		cities: map[string][2]float64{
			"bangalore": {12.9716, 77.5946},
			"bengaluru": {12.9716, 77.5946},
			"mumbai":    {19.0760, 72.8777},
			"delhi":     {28.6139, 77.2090},
			"pune":      {18.5204, 73.8567},
			"hyderabad": {17.3850, 78.4867},
			"chennai":   {13.0827, 80.2707},
		},
		defaultLat: 12.9716,
		defaultLng: 77.5946,
	}
}

// Geocode resolves an address by matching a known city name in it.
func (g *StaticGeocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	if strings.TrimSpace(address) == "" {
		return 0, 0, ErrAddressNotFound
	}

	lower := strings.ToLower(address)
	for city, coords := range g.cities {
		if strings.Contains(lower, city) {
			return coords[0], coords[1], nil
		}
	}

	return g.defaultLat, g.defaultLng, nil
}
