package geocoding

import (
	"context"
	"math"
	"testing"

	"volunteer_map_backend/platform/logger"
	"volunteer_map_backend/platform/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStrategy struct {
	name    string
	coord   Coordinate
	ok      bool
	explode bool
	calls   int
	seen    []string
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Attempt(_ context.Context, address string) (Coordinate, bool) {
	f.calls++
	f.seen = append(f.seen, address)
	if f.explode {
		panic("provider exploded")
	}
	return f.coord, f.ok
}

func TestResolver_PrimarySuccessSkipsFallback(t *testing.T) {
	primary := &fakeStrategy{name: "primary", coord: Coordinate{Lat: 55.75, Lon: 37.61}, ok: true}
	fallback := &fakeStrategy{name: "fallback", coord: Coordinate{Lat: 1, Lon: 1}, ok: true}
	r := NewResolver(logger.Discard(), nil, primary, fallback)

	coord, ok := r.Resolve(context.Background(), "Moscow")
	require.True(t, ok)
	assert.Equal(t, Coordinate{Lat: 55.75, Lon: 37.61}, coord)
	assert.Equal(t, 1, primary.calls)
	assert.Zero(t, fallback.calls)
}

func TestResolver_FallsBackWhenPrimaryAbsent(t *testing.T) {
	primary := &fakeStrategy{name: "primary"}
	fallback := &fakeStrategy{name: "fallback", coord: Coordinate{Lat: 59.93, Lon: 30.31}, ok: true}
	m := metrics.NewForTesting()
	r := NewResolver(logger.Discard(), m, primary, fallback)

	coord, ok := r.Resolve(context.Background(), "Saint Petersburg")
	require.True(t, ok)
	assert.Equal(t, Coordinate{Lat: 59.93, Lon: 30.31}, coord)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)

	assert.InDelta(t, 1, testutil.ToFloat64(m.GeocodeRequests.WithLabelValues("primary", "absent")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.GeocodeRequests.WithLabelValues("fallback", "success")), 0)
}

func TestResolver_AllAbsent(t *testing.T) {
	primary := &fakeStrategy{name: "primary"}
	fallback := &fakeStrategy{name: "fallback"}
	r := NewResolver(logger.Discard(), nil, primary, fallback)

	_, ok := r.Resolve(context.Background(), "nowhere at all")
	assert.False(t, ok)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestResolver_PanickingStrategyIsContained(t *testing.T) {
	primary := &fakeStrategy{name: "primary", explode: true}
	fallback := &fakeStrategy{name: "fallback", coord: Coordinate{Lat: 10, Lon: 20}, ok: true}
	m := metrics.NewForTesting()
	r := NewResolver(logger.Discard(), m, primary, fallback)

	var (
		coord Coordinate
		ok    bool
	)
	require.NotPanics(t, func() {
		coord, ok = r.Resolve(context.Background(), "somewhere")
	})
	require.True(t, ok)
	assert.Equal(t, Coordinate{Lat: 10, Lon: 20}, coord)
	assert.InDelta(t, 1, testutil.ToFloat64(m.GeocodeRequests.WithLabelValues("primary", "panic")), 0)
}

func TestResolver_OutOfRangeCoordinateIsAbsent(t *testing.T) {
	primary := &fakeStrategy{name: "primary", coord: Coordinate{Lat: 123, Lon: 10}, ok: true}
	fallback := &fakeStrategy{name: "fallback", coord: Coordinate{Lat: math.NaN(), Lon: 0}, ok: true}
	r := NewResolver(logger.Discard(), nil, primary, fallback)

	_, ok := r.Resolve(context.Background(), "broken upstream")
	assert.False(t, ok)
}

func TestResolver_BlankAddressMakesNoAttempts(t *testing.T) {
	primary := &fakeStrategy{name: "primary", ok: true}
	r := NewResolver(logger.Discard(), nil, primary)

	_, ok := r.Resolve(context.Background(), "   ")
	assert.False(t, ok)
	assert.Zero(t, primary.calls)
}

func TestResolver_PassesAddressUnchanged(t *testing.T) {
	primary := &fakeStrategy{name: "primary"}
	fallback := &fakeStrategy{name: "fallback", coord: Coordinate{Lat: 55.75, Lon: 37.61}, ok: true}
	r := NewResolver(logger.Discard(), nil, primary, fallback)

	const address = "Moscow,  Red Square <1>"
	_, ok := r.Resolve(context.Background(), address)
	require.True(t, ok)
	assert.Equal(t, []string{address}, primary.seen)
	assert.Equal(t, []string{address}, fallback.seen)
}

func TestResolver_CancelledContextStopsChain(t *testing.T) {
	primary := &fakeStrategy{name: "primary", ok: true}
	r := NewResolver(logger.Discard(), nil, primary)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := r.Resolve(ctx, "Moscow")
	assert.False(t, ok)
	assert.Zero(t, primary.calls)
}

func TestResolver_EndToEndFallbackOverHTTP(t *testing.T) {
	primary := NewPrimaryStrategy(stubProvider{}, 0, nil)

	srv := newJSONServer(t, `[{"lat":"48.8566","lon":"2.3522"}]`)
	defer srv.Close()

	r := NewResolver(logger.Discard(), nil, primary, testFallback(t, srv.URL, nil))
	coord, ok := r.Resolve(context.Background(), "Paris")
	require.True(t, ok)
	assert.InDelta(t, 48.8566, coord.Lat, 1e-9)
	assert.InDelta(t, 2.3522, coord.Lon, 1e-9)
	assert.Equal(t, []string{"stub", "nominatim-fallback"}, r.Strategies())
}

func TestValidCoordinate(t *testing.T) {
	assert.True(t, ValidCoordinate(Coordinate{Lat: 90, Lon: -180}))
	assert.True(t, ValidCoordinate(Coordinate{}))
	assert.False(t, ValidCoordinate(Coordinate{Lat: -90.0001, Lon: 0}))
	assert.False(t, ValidCoordinate(Coordinate{Lat: 0, Lon: 180.5}))
	assert.False(t, ValidCoordinate(Coordinate{Lat: math.Inf(1), Lon: 0}))
}
