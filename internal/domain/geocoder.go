package domain

import (
	"context"
	"strings"
)

// GeocodeCountry is appended to every geocoding query.
const GeocodeCountry = "USA"

// Coordinates is a latitude/longitude pair kept as the provider's decimal
// strings so values round-trip through the cache and output unchanged.
type Coordinates struct {
	Lat string
	Lng string
}

// IsZero reports whether neither coordinate is set.
func (c Coordinates) IsZero() bool {
	return c.Lat == "" && c.Lng == ""
}

// Geocoder resolves a free-text address query to coordinates.
type Geocoder interface {
	// Geocode returns the best match for query. A zero Coordinates with a nil
	// error means the provider found nothing.
	Geocode(ctx context.Context, query string) (Coordinates, error)
}

// GeocodeQuery joins the non-empty parts of address, city, state and the
// fixed country with ", ". It returns "" when address, city and state are
// all empty.
func GeocodeQuery(address, city, state string) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{address, city, state} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	parts = append(parts, GeocodeCountry)
	return strings.Join(parts, ", ")
}
