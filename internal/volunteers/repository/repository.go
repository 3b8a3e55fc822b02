package repository

import (
	"context"
	"fmt"

	"volunteer_map_backend/internal/geocoding"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const volunteerColumns = `id, name, phone, phone_e164, address,
	ST_Y(location::geometry) AS latitude, ST_X(location::geometry) AS longitude, created_at`

// Repo implements the Repository interface with PostgreSQL and PostGIS.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new volunteers repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Insert stores a volunteer. The geography point is built by PostGIS from
// the coordinate (longitude first).
func (r *Repo) Insert(ctx context.Context, params InsertParams) (Volunteer, error) {
	query := `
		INSERT INTO volunteers (name, phone, phone_e164, address, location)
		VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography)
		RETURNING ` + volunteerColumns

	v, err := scanVolunteer(r.pool.QueryRow(ctx, query,
		params.Name, params.Phone, params.PhoneE164, params.Address,
		params.Location.Lon, params.Location.Lat,
	))
	if err != nil {
		return Volunteer{}, fmt.Errorf("insert volunteer: %w", err)
	}
	return v, nil
}

// List returns every volunteer, newest first.
func (r *Repo) List(ctx context.Context) ([]Volunteer, error) {
	query := `SELECT ` + volunteerColumns + `
		FROM volunteers
		ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list volunteers: %w", err)
	}
	defer rows.Close()

	items := make([]Volunteer, 0)
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan volunteer: %w", err)
		}
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate volunteers: %w", err)
	}
	return items, nil
}

// WithinRadius uses geography operands for both the containment test and the
// distance, so both are measured on the spheroid in meters.
func (r *Repo) WithinRadius(ctx context.Context, center geocoding.Coordinate, radiusMeters float64) ([]Volunteer, error) {
	query := `
		SELECT ` + volunteerColumns + `,
			ST_Distance(v.location, c.point) AS distance
		FROM volunteers v,
			(SELECT ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography AS point) c
		WHERE ST_DWithin(v.location, c.point, $3)
		ORDER BY distance ASC, v.id ASC`

	rows, err := r.pool.Query(ctx, query, center.Lon, center.Lat, radiusMeters)
	if err != nil {
		return nil, fmt.Errorf("search volunteers within radius: %w", err)
	}
	defer rows.Close()

	items := make([]Volunteer, 0)
	for rows.Next() {
		var (
			v        Volunteer
			distance float64
		)
		if err := rows.Scan(
			&v.ID, &v.Name, &v.Phone, &v.PhoneE164, &v.Address,
			&v.Latitude, &v.Longitude, &v.CreatedAt, &distance,
		); err != nil {
			return nil, fmt.Errorf("scan volunteer: %w", err)
		}
		v.Distance = &distance
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate volunteers: %w", err)
	}
	return items, nil
}

// Count returns the number of stored volunteers.
func (r *Repo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM volunteers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count volunteers: %w", err)
	}
	return n, nil
}

// Ping checks that the database is reachable.
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanVolunteer(row pgx.Row) (Volunteer, error) {
	var v Volunteer
	err := row.Scan(
		&v.ID, &v.Name, &v.Phone, &v.PhoneE164, &v.Address,
		&v.Latitude, &v.Longitude, &v.CreatedAt,
	)
	return v, err
}
