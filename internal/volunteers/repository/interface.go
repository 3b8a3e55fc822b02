package repository

import (
	"context"
	"time"

	"volunteer_map_backend/internal/geocoding"
)

// Volunteer is a persisted volunteer record. Every row has a location.
type Volunteer struct {
	ID        int64
	Name      string
	Phone     string
	PhoneE164 *string
	Address   string
	Latitude  float64
	Longitude float64
	CreatedAt time.Time
	// Distance from the search center in meters. Set only by WithinRadius.
	Distance *float64
}

// InsertParams contains the values for a new volunteer row.
type InsertParams struct {
	Name      string
	Phone     string
	PhoneE164 *string
	Address   string
	Location  geocoding.Coordinate
}

// VolunteerReader provides read operations for volunteers.
type VolunteerReader interface {
	// List returns all volunteers, newest first.
	List(ctx context.Context) ([]Volunteer, error)
	// WithinRadius returns volunteers whose geodesic distance to center is at
	// most radiusMeters, nearest first, with Distance set.
	WithinRadius(ctx context.Context, center geocoding.Coordinate, radiusMeters float64) ([]Volunteer, error)
	Count(ctx context.Context) (int64, error)
}

// VolunteerWriter provides write operations for volunteers.
type VolunteerWriter interface {
	Insert(ctx context.Context, params InsertParams) (Volunteer, error)
}

// Repository combines all volunteer storage operations.
type Repository interface {
	VolunteerReader
	VolunteerWriter
	Ping(ctx context.Context) error
}
