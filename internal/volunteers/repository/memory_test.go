package repository

import (
	"context"
	"testing"
	"time"

	"volunteer_map_backend/internal/geocoding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	redSquare   = geocoding.Coordinate{Lat: 55.7539, Lon: 37.6208}
	bolshoi     = geocoding.Coordinate{Lat: 55.7601, Lon: 37.6186} // ~700 m from Red Square
	gorkyPark   = geocoding.Coordinate{Lat: 55.7298, Lon: 37.6011} // ~3 km
	stPetersbrg = geocoding.Coordinate{Lat: 59.9343, Lon: 30.3351}
)

func seed(t *testing.T, repo *Memory, names ...string) {
	t.Helper()
	points := map[string]geocoding.Coordinate{
		"red-square": redSquare,
		"bolshoi":    bolshoi,
		"gorky-park": gorkyPark,
		"spb":        stPetersbrg,
	}
	for _, name := range names {
		_, err := repo.Insert(context.Background(), InsertParams{
			Name: name, Phone: "+7 900 000-00-00", Address: name, Location: points[name],
		})
		require.NoError(t, err)
	}
}

func TestMemory_InsertAssignsIDAndTimestamp(t *testing.T) {
	repo := NewMemory()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	v, err := repo.Insert(context.Background(), InsertParams{
		Name: "Anna", Phone: "8 (900) 123-45-67", Address: "Red Square", Location: redSquare,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.ID)
	assert.Equal(t, fixed, v.CreatedAt)
	assert.Equal(t, "8 (900) 123-45-67", v.Phone)
	assert.Equal(t, redSquare.Lat, v.Latitude)
	assert.Equal(t, redSquare.Lon, v.Longitude)
	assert.Nil(t, v.Distance)
}

func TestMemory_ListNewestFirst(t *testing.T) {
	repo := NewMemory()
	tick := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}
	seed(t, repo, "red-square", "bolshoi", "gorky-park")

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"gorky-park", "bolshoi", "red-square"},
		[]string{items[0].Name, items[1].Name, items[2].Name})
}

func TestMemory_WithinRadiusOrdersByDistance(t *testing.T) {
	repo := NewMemory()
	seed(t, repo, "gorky-park", "spb", "bolshoi", "red-square")

	items, err := repo.WithinRadius(context.Background(), redSquare, 5000)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "red-square", items[0].Name)
	require.NotNil(t, items[0].Distance)
	assert.InDelta(t, 0, *items[0].Distance, 1e-6)
	assert.Equal(t, "bolshoi", items[1].Name)
	assert.Equal(t, "gorky-park", items[2].Name)
	for i := 1; i < len(items); i++ {
		assert.LessOrEqual(t, *items[i-1].Distance, *items[i].Distance)
	}
	for _, v := range items {
		assert.LessOrEqual(t, *v.Distance, 5000.0)
	}
}

func TestMemory_WithinRadiusExcludesOutside(t *testing.T) {
	repo := NewMemory()
	seed(t, repo, "bolshoi", "gorky-park")

	items, err := repo.WithinRadius(context.Background(), redSquare, 1000)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "bolshoi", items[0].Name)
}

func TestMemory_Count(t *testing.T) {
	repo := NewMemory()
	seed(t, repo, "bolshoi", "spb")

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
