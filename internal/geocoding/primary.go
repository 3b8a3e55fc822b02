package geocoding

import (
	"context"
	"time"

	"volunteer_map_backend/platform/logger"
)

// PrimaryStrategy asks a Provider and accepts its first candidate when that
// candidate carries both coordinates.
type PrimaryStrategy struct {
	provider Provider
	timeout  time.Duration
	log      *logger.Logger
}

// NewPrimaryStrategy wraps provider with a per-call timeout.
func NewPrimaryStrategy(provider Provider, timeout time.Duration, log *logger.Logger) *PrimaryStrategy {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.Discard()
	}
	return &PrimaryStrategy{provider: provider, timeout: timeout, log: log}
}

func (p *PrimaryStrategy) Name() string {
	return p.provider.Name()
}

func (p *PrimaryStrategy) Attempt(ctx context.Context, address string) (Coordinate, bool) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	candidates, err := p.provider.Geocode(ctx, address)
	if err != nil {
		p.log.WithContext(ctx).Warn("primary geocoder failed",
			"provider", p.provider.Name(), "address", address, "error", err)
		return Coordinate{}, false
	}
	if len(candidates) == 0 {
		return Coordinate{}, false
	}
	return candidates[0].Coordinate()
}
