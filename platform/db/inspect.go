package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Report summarizes the state of the connected database.
type Report struct {
	ServerTime     time.Time
	ServerVersion  string
	PostGISVersion string
	TableExists    bool
	VolunteerCount int64
}

// Inspect collects diagnostic information about the database behind pool.
// A missing PostGIS extension is reported as an empty version, not an error.
func Inspect(ctx context.Context, pool *pgxpool.Pool) (Report, error) {
	var r Report

	if err := pool.QueryRow(ctx, `SELECT now(), version()`).Scan(&r.ServerTime, &r.ServerVersion); err != nil {
		return Report{}, fmt.Errorf("query server info: %w", err)
	}

	var postgis *string
	err := pool.QueryRow(ctx,
		`SELECT (SELECT extversion FROM pg_extension WHERE extname = 'postgis')`,
	).Scan(&postgis)
	if err != nil {
		return Report{}, fmt.Errorf("query postgis version: %w", err)
	}
	if postgis != nil {
		r.PostGISVersion = *postgis
	}

	if err := pool.QueryRow(ctx, `SELECT to_regclass('public.volunteers') IS NOT NULL`).Scan(&r.TableExists); err != nil {
		return Report{}, fmt.Errorf("check volunteers table: %w", err)
	}
	if !r.TableExists {
		return r, nil
	}

	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM volunteers`).Scan(&r.VolunteerCount); err != nil {
		return Report{}, fmt.Errorf("count volunteers: %w", err)
	}
	return r, nil
}
