package geocoding

import (
	"testing"
	"time"

	"volunteer_map_backend/platform/config"
	"volunteer_map_backend/platform/logger"
	"volunteer_map_backend/platform/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGeocoderConfig(provider string) *config.Config {
	return &config.Config{
		GeocoderProvider:    provider,
		GeocoderTimeout:     15 * time.Second,
		GeocoderMinInterval: time.Second,
		GeocoderLanguage:    "ru-RU,ru,en",
		GeocoderUserAgent:   "VolunteerMap/1.0",
		NominatimURL:        DefaultNominatimURL,
		OpenCageAPIKey:      "key",
		MapboxToken:         "token",
	}
}

func TestNewFromConfig_ChainOrder(t *testing.T) {
	tests := []struct {
		provider string
		primary  string
	}{
		{provider: "openstreetmap", primary: "openstreetmap"},
		{provider: "nominatim", primary: "openstreetmap"},
		{provider: "opencage", primary: "opencage"},
		{provider: "mapbox", primary: "mapbox"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			r, err := NewFromConfig(testGeocoderConfig(tt.provider), logger.Discard(), metrics.NewForTesting())
			require.NoError(t, err)
			assert.Equal(t, []string{tt.primary, "nominatim-fallback"}, r.Strategies())
		})
	}
}

func TestNewFromConfig_UnknownProvider(t *testing.T) {
	_, err := NewFromConfig(testGeocoderConfig("yandex"), logger.Discard(), nil)
	assert.Error(t, err)
}
