package pipeline

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gitaufar/technoday-sub001/internal/contracts"
	"github.com/gitaufar/technoday-sub001/internal/docstore"
	"github.com/gitaufar/technoday-sub001/internal/shared/server/middleware"
	"github.com/gitaufar/technoday-sub001/internal/shared/server/respond"
	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

// Handler exposes the ingestion pipeline over HTTP.
type Handler struct {
	Orchestrator *Orchestrator
	MaxBytes     int64
}

// NewHandler constructs a Handler.
func NewHandler(o *Orchestrator, maxBytes int64) *Handler {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &Handler{Orchestrator: o, MaxBytes: maxBytes}
}

// RegisterRoutes attaches the upload route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/contracts/:id/document",
		middleware.RequireRole(middleware.RoleProcurement, middleware.RoleManagement),
		h.upload)
}

// upload runs the whole pipeline inside the request: the response carries
// the settled outcome, including per-branch failures.
func (h *Handler) upload(c *gin.Context) {
	scope := middleware.ScopeFromContext(c)
	contractID := c.Param("id")

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	outcome, err := h.Orchestrator.Run(c.Request.Context(), scope, contractID, fileHeader.Filename, file)
	if err != nil {
		var serr *docstore.StorageError
		switch {
		case errors.As(err, &serr):
			status := http.StatusBadRequest
			switch serr.Reason {
			case docstore.ReasonTooLarge:
				status = http.StatusRequestEntityTooLarge
			case docstore.ReasonConflict:
				status = http.StatusConflict
			case docstore.ReasonTransport:
				status = http.StatusBadGateway
			}
			respond.Error(c, status, serr.Reason, serr.Error(), outcome)
		case errors.Is(err, contracts.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "contract not found", nil)
		case errors.Is(err, tenant.ErrMissingScope):
			respond.Error(c, http.StatusForbidden, "forbidden", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "pipeline_failed", err.Error(), outcome)
		}
		return
	}

	status := http.StatusOK
	if outcome.State != StateDone {
		status = http.StatusMultiStatus
	}
	respond.JSON(c, status, outcome)
}
