// Package geocoding turns free-form addresses into WGS84 coordinates.
//
// A Resolver runs an ordered chain of strategies and returns the first
// coordinate any of them produces. Strategies never return errors: network
// failures, timeouts, malformed payloads and empty results all mean the
// address was not found by that strategy, and the chain moves on.
package geocoding

import "context"

// Coordinate is a WGS84 point in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// Strategy is one step of the resolution chain.
type Strategy interface {
	Name() string
	// Attempt geocodes address. The boolean is false when the strategy could
	// not produce a coordinate for any reason.
	Attempt(ctx context.Context, address string) (Coordinate, bool)
}

// Candidate is a single match returned by a Provider. Either field may be
// missing in the upstream payload.
type Candidate struct {
	Lat *float64
	Lon *float64
}

// Coordinate returns the candidate's point when both axes are present.
func (c Candidate) Coordinate() (Coordinate, bool) {
	if c.Lat == nil || c.Lon == nil {
		return Coordinate{}, false
	}
	return Coordinate{Lat: *c.Lat, Lon: *c.Lon}, true
}

// Provider is a geocoding backend used by the primary strategy.
type Provider interface {
	Name() string
	Geocode(ctx context.Context, address string) ([]Candidate, error)
}
