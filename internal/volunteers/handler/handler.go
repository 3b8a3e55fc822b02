package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"volunteer_map_backend/internal/volunteers/service"
	"volunteer_map_backend/internal/volunteers/transport"
	"volunteer_map_backend/platform/httpkit"
)

// Handler handles HTTP requests for volunteers.
type Handler struct {
	svc *service.Service
}

const msgInvalidRequest = "invalid request body"

// New creates a new volunteers handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Create registers a volunteer after geocoding their address.
// POST /api/users
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateVolunteerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// Search finds volunteers within a radius of a point or an address.
// GET /api/users/search?latitude=&longitude=&radius=&address=
func (h *Handler) Search(c *gin.Context) {
	var req transport.SearchVolunteersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters", nil)
		return
	}

	result, err := h.svc.Search(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// List returns all volunteers, newest first.
// GET /api/users
func (h *Handler) List(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
