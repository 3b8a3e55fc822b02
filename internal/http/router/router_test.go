package router_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"volunteer_map_backend/internal/geocoding"
	"volunteer_map_backend/internal/health"
	apphttp "volunteer_map_backend/internal/http"
	"volunteer_map_backend/internal/http/router"
	"volunteer_map_backend/internal/volunteers"
	"volunteer_map_backend/internal/volunteers/repository"
	"volunteer_map_backend/platform/config"
	"volunteer_map_backend/platform/httpkit"
	"volunteer_map_backend/platform/logger"
	"volunteer_map_backend/platform/metrics"
	"volunteer_map_backend/platform/phone"
	"volunteer_map_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver map[string]geocoding.Coordinate

func (s stubResolver) Resolve(_ context.Context, address string) (geocoding.Coordinate, bool) {
	c, ok := s[address]
	return c, ok
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type brokenRepo struct {
	repository.Repository
}

func (brokenRepo) List(context.Context) ([]repository.Volunteer, error) {
	return nil, errors.New("pq: relation \"volunteers\" does not exist")
}

type testEnv struct {
	engine *gin.Engine
	repo   repository.Repository
}

func newTestEnv(t *testing.T, repo repository.Repository, cfg *config.Config) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if cfg == nil {
		cfg = &config.Config{CORSOrigins: []string{"http://localhost:5173"}}
	}
	log := logger.Discard()
	m := metrics.NewForTesting()

	volunteersModule := volunteers.NewModule(volunteers.Deps{
		Repo: repo,
		Geocoder: stubResolver{
			"Red Square, Moscow": {Lat: 55.7539, Lon: 37.6208},
		},
		Validator: validator.New(),
		Phones:    phone.NewNormalizer("RU"),
		Logger:    log,
		Metrics:   m,
	})

	engine := router.New(&apphttp.App{
		Config:  cfg,
		Logger:  log,
		Metrics: m,
		Modules: []apphttp.Module{
			health.NewModule(pinger{}, log),
			volunteersModule,
		},
	})
	return testEnv{engine: engine, repo: repo}
}

func (e testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, repository.NewMemory(), nil)

	rec := env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "OK", body["status"])
	assert.NotEmpty(t, body["message"])
	assert.NotEmpty(t, rec.Header().Get(httpkit.HeaderRequestID))
}

func TestCreateVolunteer(t *testing.T) {
	env := newTestEnv(t, repository.NewMemory(), nil)

	rec := env.do(t, http.MethodPost, "/api/users",
		`{"name":"Anna","phone":"+7 900 123-45-67","address":"Red Square, Moscow"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode[map[string]any](t, rec)
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "Anna", body["name"])
	assert.Equal(t, "+7 900 123-45-67", body["phone"])
	assert.Equal(t, "Red Square, Moscow", body["address"])
	assert.Equal(t, 55.7539, body["latitude"])
	assert.Equal(t, 37.6208, body["longitude"])
	assert.Contains(t, body, "created_at")
	assert.NotContains(t, body, "distance")
}

func TestCreateVolunteer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{name: "malformed json", body: `{"name":`, status: http.StatusBadRequest, message: "invalid request body"},
		{name: "missing fields", body: `{"name":"Anna"}`, status: http.StatusBadRequest, message: "all fields are required"},
		{name: "unknown address", body: `{"name":"Anna","phone":"1","address":"Atlantis"}`, status: http.StatusBadRequest, message: "geocoding failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, repository.NewMemory(), nil)

			rec := env.do(t, http.MethodPost, "/api/users", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			body := decode[httpkit.ErrorResponse](t, rec)
			assert.Contains(t, body.Error, tt.message)

			n, err := env.repo.Count(context.Background())
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}

type searchBody struct {
	Users []struct {
		Name     string   `json:"name"`
		Distance *float64 `json:"distance"`
	} `json:"users"`
	SearchCenter struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"searchCenter"`
}

func TestSearchVolunteers(t *testing.T) {
	env := newTestEnv(t, repository.NewMemory(), nil)
	created := env.do(t, http.MethodPost, "/api/users",
		`{"name":"Anna","phone":"1","address":"Red Square, Moscow"}`)
	require.Equal(t, http.StatusCreated, created.Code)

	t.Run("by coordinates", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/users/search?latitude=55.7539&longitude=37.6208&radius=1000", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decode[searchBody](t, rec)
		require.Len(t, body.Users, 1)
		assert.Equal(t, "Anna", body.Users[0].Name)
		require.NotNil(t, body.Users[0].Distance)
		assert.InDelta(t, 0, *body.Users[0].Distance, 1e-6)
		assert.Equal(t, 55.7539, body.SearchCenter.Latitude)
	})

	t.Run("by address with zero coordinates", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/users/search?latitude=0&longitude=0&radius=500&address=Red%20Square,%20Moscow", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decode[searchBody](t, rec)
		require.Len(t, body.Users, 1)
		assert.Equal(t, 37.6208, body.SearchCenter.Longitude)
	})

	t.Run("empty result is an empty array", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/users/search?latitude=0&longitude=0&radius=10", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"users":[]`)
	})

	t.Run("address not found", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/users/search?radius=500&address=Atlantis", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decode[httpkit.ErrorResponse](t, rec).Error, "address not found")
	})

	t.Run("missing parameters", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/users/search?latitude=55.7", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListVolunteers(t *testing.T) {
	env := newTestEnv(t, repository.NewMemory(), nil)

	rec := env.do(t, http.MethodGet, "/api/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	for _, name := range []string{"first", "second"} {
		created := env.do(t, http.MethodPost, "/api/users",
			`{"name":"`+name+`","phone":"1","address":"Red Square, Moscow"}`)
		require.Equal(t, http.StatusCreated, created.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[[]map[string]any](t, rec)
	require.Len(t, items, 2)
	assert.Equal(t, "second", items[0]["name"])
	assert.NotContains(t, items[0], "distance")
}

func TestStoreFailureHidesInternals(t *testing.T) {
	env := newTestEnv(t, brokenRepo{}, nil)

	rec := env.do(t, http.MethodGet, "/api/users", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode[httpkit.ErrorResponse](t, rec)
	assert.Equal(t, "internal server error", body.Error)
	assert.NotContains(t, rec.Body.String(), "relation")
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, repository.NewMemory(), &config.Config{
		CORSAllowAll:      true,
		APIRateLimitRPS:   0.001,
		APIRateLimitBurst: 2,
	})

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/users", "").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, env.do(t, http.MethodGet, "/api/users", "").Code)

	// Probes are outside the limited group.
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health", "").Code)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, repository.NewMemory(), nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/users", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, repository.NewMemory(), nil)
	env.do(t, http.MethodGet, "/api/users", "")

	rec := env.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "volunteer_map_http_requests_total")
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t, repository.NewMemory(), nil)

	rec := env.do(t, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
