package geocoding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every provider call.
const DefaultTimeout = 15 * time.Second

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 1 << 20

var (
	// ErrUpstreamStatus is returned when the provider answers with a non-200 status.
	ErrUpstreamStatus = errors.New("unexpected upstream status")
	// ErrNotJSON is returned when the response does not declare a JSON content type.
	ErrNotJSON = errors.New("upstream response is not JSON")
	// ErrHTMLBody is returned when the body looks like markup (an error or captcha page).
	ErrHTMLBody = errors.New("upstream returned an HTML body")
)

// httpClient performs GET requests against geocoding APIs and decodes their
// JSON payloads, refusing anything that is not plainly a JSON success.
type httpClient struct {
	client    *http.Client
	userAgent string
	language  string
}

func newHTTPClient(client *http.Client, userAgent, language string) *httpClient {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &httpClient{client: client, userAgent: userAgent, language: language}
}

// getJSON requests endpoint with query and unmarshals the body into target.
func (h *httpClient) getJSON(ctx context.Context, endpoint string, query url.Values, target any) error {
	reqURL, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("parse endpoint: %w", err)
	}
	if query != nil {
		reqURL.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}
	if h.language != "" {
		req.Header.Set("Accept-Language", h.language)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		// The URL may carry an API key; keep it out of error messages.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(strings.ToLower(ct), "application/json") {
		return fmt.Errorf("%w: content type %q", ErrNotJSON, ct)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if bytes.HasPrefix(bytes.TrimSpace(body), []byte("<")) {
		return ErrHTMLBody
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
