package notes

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gitaufar/technoday-sub001/internal/shared/server/middleware"
	"github.com/gitaufar/technoday-sub001/internal/shared/server/respond"
	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches note routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/contracts/:id/notes", h.list)
	rg.POST("/contracts/:id/notes", middleware.RequireRole(middleware.RoleLegal, middleware.RoleManagement), h.create)
}

type createNoteRequest struct {
	Body string `json:"body"`
}

func (h *Handler) create(c *gin.Context) {
	scope := middleware.ScopeFromContext(c)
	contractID := c.Param("id")

	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Body) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "body is required", nil)
		return
	}

	note, err := h.Svc.Add(c.Request.Context(), scope, contractID, middleware.UserNameFromContext(c), req.Body)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "contract not found", nil)
		case errors.Is(err, tenant.ErrMissingScope):
			respond.Error(c, http.StatusForbidden, "forbidden", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "failed to add note", err.Error(), nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, note)
}

func (h *Handler) list(c *gin.Context) {
	scope := middleware.ScopeFromContext(c)
	contractID := c.Param("id")

	notes, err := h.Svc.List(c.Request.Context(), scope, contractID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, tenant.ErrMissingScope):
			respond.Error(c, http.StatusForbidden, "forbidden", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "failed to list notes", err.Error(), nil)
		}
		return
	}
	if notes == nil {
		notes = []LegalNote{}
	}
	respond.OK(c, notes)
}
