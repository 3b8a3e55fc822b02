package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"volunteer_map_backend/internal/geocoding"

	"github.com/umahmood/haversine"
)

// Memory is an in-process Repository. Distances are great-circle distances on
// a spherical Earth, which is close to but not identical with the spheroidal
// distances PostGIS computes.
type Memory struct {
	mu     sync.RWMutex
	nextID int64
	items  []Volunteer
	now    func() time.Time
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

var _ Repository = (*Memory)(nil)

func (m *Memory) Insert(_ context.Context, params InsertParams) (Volunteer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	v := Volunteer{
		ID:        m.nextID,
		Name:      params.Name,
		Phone:     params.Phone,
		PhoneE164: params.PhoneE164,
		Address:   params.Address,
		Latitude:  params.Location.Lat,
		Longitude: params.Location.Lon,
		CreatedAt: m.now().UTC(),
	}
	m.items = append(m.items, v)
	return v, nil
}

func (m *Memory) List(_ context.Context) ([]Volunteer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Volunteer, len(m.items))
	copy(out, m.items)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *Memory) WithinRadius(_ context.Context, center geocoding.Coordinate, radiusMeters float64) ([]Volunteer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	origin := haversine.Coord{Lat: center.Lat, Lon: center.Lon}
	out := make([]Volunteer, 0)
	for _, v := range m.items {
		_, km := haversine.Distance(origin, haversine.Coord{Lat: v.Latitude, Lon: v.Longitude})
		meters := km * 1000
		if meters > radiusMeters {
			continue
		}
		v.Distance = &meters
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if *out[i].Distance != *out[j].Distance {
			return *out[i].Distance < *out[j].Distance
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) Count(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.items)), nil
}

func (m *Memory) Ping(context.Context) error {
	return nil
}
