package geocoding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// OpenCageURL is the OpenCage forward geocoding endpoint.
const OpenCageURL = "https://api.opencagedata.com/geocode/v1/json"

type openCageResponse struct {
	Results []openCageResult `json:"results"`
}

type openCageResult struct {
	Formatted string           `json:"formatted"`
	Geometry  openCageGeometry `json:"geometry"`
}

type openCageGeometry struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lng"`
}

// OpenCageProvider geocodes through the OpenCage Data API.
type OpenCageProvider struct {
	http     *httpClient
	endpoint string
	apiKey   string
	lang     string
}

// NewOpenCageProvider creates an OpenCage provider. An empty endpoint uses OpenCageURL.
func NewOpenCageProvider(client *http.Client, endpoint, apiKey, userAgent string, langs Languages) *OpenCageProvider {
	if endpoint == "" {
		endpoint = OpenCageURL
	}
	return &OpenCageProvider{
		http:     newHTTPClient(client, userAgent, ""),
		endpoint: endpoint,
		apiKey:   apiKey,
		lang:     langs.Primary(),
	}
}

func (o *OpenCageProvider) Name() string {
	return "opencage"
}

func (o *OpenCageProvider) Geocode(ctx context.Context, address string) ([]Candidate, error) {
	query := url.Values{}
	query.Set("q", address)
	query.Set("key", o.apiKey)
	query.Set("limit", "1")
	query.Set("no_annotations", "1")
	query.Set("no_record", "1")
	if o.lang != "" {
		query.Set("language", o.lang)
	}

	var response openCageResponse
	if err := o.http.getJSON(ctx, o.endpoint, query, &response); err != nil {
		return nil, fmt.Errorf("opencage search: %w", err)
	}

	candidates := make([]Candidate, 0, len(response.Results))
	for _, r := range response.Results {
		candidates = append(candidates, Candidate{Lat: r.Geometry.Lat, Lon: r.Geometry.Lon})
	}
	return candidates, nil
}
