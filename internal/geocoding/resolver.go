package geocoding

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"volunteer_map_backend/platform/logger"
	"volunteer_map_backend/platform/metrics"
)

// Attempt outcomes, used as log values and metric labels.
const (
	outcomeSuccess = "success"
	outcomeAbsent  = "absent"
	outcomePanic   = "panic"
)

// Resolver tries its strategies in order and returns the first coordinate
// produced. It never returns an error and never panics.
type Resolver struct {
	strategies []Strategy
	log        *logger.Logger
	metrics    *metrics.Metrics
}

// NewResolver creates a Resolver over strategies. log and m may be nil.
func NewResolver(log *logger.Logger, m *metrics.Metrics, strategies ...Strategy) *Resolver {
	if log == nil {
		log = logger.Discard()
	}
	return &Resolver{strategies: strategies, log: log, metrics: m}
}

// Strategies returns the strategy names in the order they are tried.
func (r *Resolver) Strategies() []string {
	names := make([]string, 0, len(r.strategies))
	for _, s := range r.strategies {
		names = append(names, s.Name())
	}
	return names
}

// Resolve geocodes address. The boolean is false when no strategy found it.
func (r *Resolver) Resolve(ctx context.Context, address string) (Coordinate, bool) {
	if strings.TrimSpace(address) == "" {
		return Coordinate{}, false
	}

	for _, s := range r.strategies {
		if ctx.Err() != nil {
			break
		}
		if coord, ok := r.attempt(ctx, s, address); ok {
			return coord, true
		}
	}

	r.log.WithContext(ctx).Warn("address could not be geocoded", "address", address)
	return Coordinate{}, false
}

func (r *Resolver) attempt(ctx context.Context, s Strategy, address string) (coord Coordinate, ok bool) {
	start := time.Now()
	outcome := outcomeAbsent

	defer func() {
		if rec := recover(); rec != nil {
			coord, ok = Coordinate{}, false
			outcome = outcomePanic
			r.log.WithContext(ctx).Error("geocoding strategy panicked",
				"strategy", s.Name(), "panic", fmt.Sprint(rec))
		}
		elapsed := time.Since(start)
		if r.metrics != nil {
			r.metrics.GeocodeRequests.WithLabelValues(s.Name(), outcome).Inc()
			r.metrics.GeocodeDuration.WithLabelValues(s.Name()).Observe(elapsed.Seconds())
		}
		r.log.WithContext(ctx).GeocodeAttempt(s.Name(), address, outcome, elapsed)
	}()

	coord, ok = s.Attempt(ctx, address)
	if ok && !ValidCoordinate(coord) {
		r.log.WithContext(ctx).Warn("geocoding strategy returned an out-of-range coordinate",
			"strategy", s.Name(), "latitude", coord.Lat, "longitude", coord.Lon)
		coord, ok = Coordinate{}, false
	}
	if ok {
		outcome = outcomeSuccess
	}
	return coord, ok
}

// ValidCoordinate reports whether c is a finite point inside WGS84 bounds.
func ValidCoordinate(c Coordinate) bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}
