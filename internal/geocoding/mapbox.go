package geocoding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// MapboxURL is the Mapbox places geocoding endpoint.
const MapboxURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

type mapboxResponse struct {
	Features []mapboxFeature `json:"features"`
}

type mapboxFeature struct {
	Center    []float64 `json:"center"` // [lon, lat]
	PlaceName string    `json:"place_name"`
}

// MapboxProvider geocodes through the Mapbox Geocoding API.
type MapboxProvider struct {
	http    *httpClient
	baseURL string
	token   string
	lang    string
}

// NewMapboxProvider creates a Mapbox provider. An empty baseURL uses MapboxURL.
func NewMapboxProvider(client *http.Client, baseURL, token, userAgent string, langs Languages) *MapboxProvider {
	if baseURL == "" {
		baseURL = MapboxURL
	}
	return &MapboxProvider{
		http:    newHTTPClient(client, userAgent, ""),
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		lang:    langs.Primary(),
	}
}

func (m *MapboxProvider) Name() string {
	return "mapbox"
}

func (m *MapboxProvider) Geocode(ctx context.Context, address string) ([]Candidate, error) {
	endpoint := fmt.Sprintf("%s/%s.json", m.baseURL, url.PathEscape(address))
	query := url.Values{}
	query.Set("access_token", m.token)
	query.Set("limit", "1")
	if m.lang != "" {
		query.Set("language", m.lang)
	}

	var response mapboxResponse
	if err := m.http.getJSON(ctx, endpoint, query, &response); err != nil {
		return nil, fmt.Errorf("mapbox search: %w", err)
	}

	candidates := make([]Candidate, 0, len(response.Features))
	for _, f := range response.Features {
		var c Candidate
		// Mapbox uses lon,lat order.
		if len(f.Center) == 2 {
			lon, lat := f.Center[0], f.Center[1]
			c = Candidate{Lat: &lat, Lon: &lon}
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}
