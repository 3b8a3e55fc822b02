package geocoding

import (
	"fmt"
	"net/http"

	"volunteer_map_backend/platform/config"
	"volunteer_map_backend/platform/logger"
	"volunteer_map_backend/platform/metrics"

	"github.com/jonboulle/clockwork"
)

// NewFromConfig builds the production chain: the configured primary provider
// followed by the throttled Nominatim fallback.
func NewFromConfig(cfg config.GeocoderConfig, log *logger.Logger, m *metrics.Metrics) (*Resolver, error) {
	langs, err := ParseLanguages(cfg.GetGeocoderLanguage())
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: cfg.GetGeocoderTimeout()}

	var provider Provider
	switch cfg.GetGeocoderProvider() {
	case "openstreetmap", "nominatim":
		provider = NewNominatimProvider(client, cfg.GetNominatimURL(), cfg.GetGeocoderUserAgent(), langs)
	case "opencage":
		provider = NewOpenCageProvider(client, "", cfg.GetOpenCageAPIKey(), cfg.GetGeocoderUserAgent(), langs)
	case "mapbox":
		provider = NewMapboxProvider(client, "", cfg.GetMapboxToken(), cfg.GetGeocoderUserAgent(), langs)
	default:
		return nil, fmt.Errorf("unsupported geocoder provider %q", cfg.GetGeocoderProvider())
	}

	fallback := NewFallbackStrategy(FallbackOptions{
		Client:    client,
		Endpoint:  cfg.GetNominatimURL(),
		UserAgent: cfg.GetGeocoderUserAgent(),
		Languages: langs,
		Timeout:   cfg.GetGeocoderTimeout(),
		Throttle:  NewThrottle(cfg.GetGeocoderMinInterval(), clockwork.NewRealClock()),
		Log:       log,
		Metrics:   m,
	})

	return NewResolver(log, m,
		NewPrimaryStrategy(provider, cfg.GetGeocoderTimeout(), log),
		fallback,
	), nil
}
