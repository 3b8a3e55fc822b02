package geocoding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"volunteer_map_backend/platform/logger"
	"volunteer_map_backend/platform/metrics"
)

// DefaultNominatimURL is the public OpenStreetMap Nominatim search endpoint.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org/search"

// nominatimResult mirrors the relevant parts of the Nominatim search payload.
// Coordinates are strings in both the json and jsonv2 formats.
type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

func (r nominatimResult) candidate() Candidate {
	return Candidate{Lat: parseCoordinate(r.Lat), Lon: parseCoordinate(r.Lon)}
}

func parseCoordinate(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// NominatimProvider queries a Nominatim instance with format=jsonv2. It is the
// default primary provider ("openstreetmap").
type NominatimProvider struct {
	http     *httpClient
	endpoint string
}

// NewNominatimProvider creates a provider for endpoint. A nil client gets a
// default one with DefaultTimeout.
func NewNominatimProvider(client *http.Client, endpoint, userAgent string, langs Languages) *NominatimProvider {
	if endpoint == "" {
		endpoint = DefaultNominatimURL
	}
	return &NominatimProvider{
		http:     newHTTPClient(client, userAgent, langs.Header()),
		endpoint: endpoint,
	}
}

func (n *NominatimProvider) Name() string {
	return "openstreetmap"
}

func (n *NominatimProvider) Geocode(ctx context.Context, address string) ([]Candidate, error) {
	query := url.Values{}
	query.Set("q", address)
	query.Set("format", "jsonv2")
	query.Set("limit", "1")

	var results []nominatimResult
	if err := n.http.getJSON(ctx, n.endpoint, query, &results); err != nil {
		return nil, fmt.Errorf("nominatim search: %w", err)
	}

	candidates := make([]Candidate, 0, len(results))
	for _, r := range results {
		candidates = append(candidates, r.candidate())
	}
	return candidates, nil
}

// FallbackStrategy calls Nominatim directly (format=json, one result) behind a
// Throttle, so consecutive calls from this process start at least the
// throttle interval apart. The throttle timestamp is taken before the call
// and is kept whatever the call's outcome.
type FallbackStrategy struct {
	http     *httpClient
	endpoint string
	timeout  time.Duration
	throttle *Throttle
	log      *logger.Logger
	metrics  *metrics.Metrics
}

// FallbackOptions configures a FallbackStrategy.
type FallbackOptions struct {
	Client    *http.Client
	Endpoint  string
	UserAgent string
	Languages Languages
	Timeout   time.Duration
	Throttle  *Throttle
	Log       *logger.Logger
	Metrics   *metrics.Metrics
}

// NewFallbackStrategy creates the direct Nominatim fallback.
func NewFallbackStrategy(opts FallbackOptions) *FallbackStrategy {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultNominatimURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Throttle == nil {
		opts.Throttle = NewThrottle(time.Second, nil)
	}
	if opts.Log == nil {
		opts.Log = logger.Discard()
	}
	return &FallbackStrategy{
		http:     newHTTPClient(opts.Client, opts.UserAgent, opts.Languages.Header()),
		endpoint: opts.Endpoint,
		timeout:  opts.Timeout,
		throttle: opts.Throttle,
		log:      opts.Log,
		metrics:  opts.Metrics,
	}
}

func (f *FallbackStrategy) Name() string {
	return "nominatim-fallback"
}

func (f *FallbackStrategy) Attempt(ctx context.Context, address string) (Coordinate, bool) {
	log := f.log.WithContext(ctx)

	waited, err := f.throttle.Wait(ctx)
	if err != nil {
		log.Warn("fallback geocoder throttle wait aborted", "error", err)
		return Coordinate{}, false
	}
	if f.metrics != nil {
		f.metrics.ThrottleWait.Observe(waited.Seconds())
	}
	if waited > 0 {
		log.Debug("fallback geocoder throttled", "waited_ms", waited.Milliseconds())
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	query := url.Values{}
	query.Set("q", address)
	query.Set("format", "json")
	query.Set("limit", "1")
	query.Set("addressdetails", "1")

	var results []nominatimResult
	if err := f.http.getJSON(ctx, f.endpoint, query, &results); err != nil {
		log.Warn("fallback geocoder request failed", "address", address, "error", err)
		return Coordinate{}, false
	}
	if len(results) == 0 {
		return Coordinate{}, false
	}
	return results[0].candidate().Coordinate()
}
