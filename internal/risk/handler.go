package risk

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gitaufar/technoday-sub001/internal/shared/server/middleware"
	"github.com/gitaufar/technoday-sub001/internal/shared/server/respond"
	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

// Handler exposes risk findings and the classification audit trail.
type Handler struct {
	Repo Repo
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches risk routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/contracts/:id/findings", h.findings)
	rg.GET("/contracts/:id/analyses", h.analyses)
}

func (h *Handler) findings(c *gin.Context) {
	scope := middleware.ScopeFromContext(c)

	findings, err := h.Repo.ListFindings(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to list findings")
		return
	}
	if findings == nil {
		findings = []Finding{}
	}
	respond.OK(c, findings)
}

func (h *Handler) analyses(c *gin.Context) {
	scope := middleware.ScopeFromContext(c)

	analyses, err := h.Repo.ListAnalyses(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to list analyses")
		return
	}
	if analyses == nil {
		analyses = []AnalysisRecord{}
	}
	respond.OK(c, analyses)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, tenant.ErrMissingScope):
		respond.Error(c, http.StatusForbidden, "forbidden", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, fallback, err.Error(), nil)
	}
}
