package lifecycle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gitaufar/technoday-sub001/internal/shared/server/middleware"
	"github.com/gitaufar/technoday-sub001/internal/shared/server/respond"
	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

// Handler wires HTTP handlers to the lifecycle service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches lifecycle routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/contracts/:id/lifecycle", h.timeline)
	rg.POST("/contracts/:id/lifecycle", middleware.RequireRole(middleware.RoleLegal, middleware.RoleManagement), h.start)
}

type startStageRequest struct {
	Stage string `json:"stage"`
	Notes string `json:"notes"`
}

func (h *Handler) start(c *gin.Context) {
	scope := middleware.ScopeFromContext(c)

	var req startStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	entry, err := h.Svc.StartStage(c.Request.Context(), scope, c.Param("id"), req.Stage, req.Notes)
	if err != nil {
		h.writeError(c, err, "failed to start stage")
		return
	}
	respond.JSON(c, http.StatusCreated, entry)
}

func (h *Handler) timeline(c *gin.Context) {
	scope := middleware.ScopeFromContext(c)

	timeline, err := h.Svc.Timeline(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to load timeline")
		return
	}
	if timeline == nil {
		timeline = []Entry{}
	}
	respond.OK(c, timeline)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidStage):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, tenant.ErrMissingScope):
		respond.Error(c, http.StatusForbidden, "forbidden", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, fallback, err.Error(), nil)
	}
}
