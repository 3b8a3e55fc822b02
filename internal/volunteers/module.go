// Package volunteers provides the volunteer registry bounded context module:
// registration with address geocoding, radius search and listing.
package volunteers

import (
	apphttp "volunteer_map_backend/internal/http"
	"volunteer_map_backend/internal/volunteers/handler"
	"volunteer_map_backend/internal/volunteers/repository"
	"volunteer_map_backend/internal/volunteers/service"
	"volunteer_map_backend/platform/logger"
	"volunteer_map_backend/platform/metrics"
	"volunteer_map_backend/platform/phone"
	"volunteer_map_backend/platform/validator"
)

// Module is the volunteers bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// Deps holds what the module needs from the composition root.
type Deps struct {
	Repo      repository.Repository
	Geocoder  service.Resolver
	Validator *validator.Validator
	Phones    *phone.Normalizer
	Logger    *logger.Logger
	Metrics   *metrics.Metrics
}

// NewModule creates and initializes the volunteers module with all its dependencies.
func NewModule(deps Deps) *Module {
	svc := service.New(deps.Repo, deps.Geocoder, deps.Validator, deps.Phones, deps.Logger, deps.Metrics)
	h := handler.New(svc)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "volunteers"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts volunteer routes under /api/users.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	users := ctx.API.Group("/users")
	users.POST("", m.handler.Create)
	users.GET("/search", m.handler.Search)
	users.GET("", m.handler.List)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
