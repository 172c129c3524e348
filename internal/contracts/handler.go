package contracts

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gitaufar/technoday-sub001/internal/risk"
	"github.com/gitaufar/technoday-sub001/internal/shared/server/middleware"
	"github.com/gitaufar/technoday-sub001/internal/shared/server/respond"
	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

// Handler wires HTTP handlers to the contract services.
type Handler struct {
	Svc    *Service
	Detail *DetailService
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, detail *DetailService) *Handler {
	return &Handler{Svc: svc, Detail: detail}
}

// RegisterRoutes attaches contract routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/contracts", h.list)
	rg.POST("/contracts", middleware.RequireRole(middleware.RoleProcurement, middleware.RoleManagement), h.create)
	rg.GET("/contracts/summary", h.summary)
	rg.GET("/contracts/:id", h.detail)
	rg.PATCH("/contracts/:id/status", h.transition)
}

type createContractRequest struct {
	Name        string `json:"name"`
	FirstParty  string `json:"firstParty"`
	SecondParty string `json:"secondParty"`
	Value       *int64 `json:"value"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

func (h *Handler) create(c *gin.Context) {
	scope := middleware.ScopeFromContext(c)

	var req createContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	in := CreateInput{
		Name:        req.Name,
		FirstParty:  req.FirstParty,
		SecondParty: req.SecondParty,
		Value:       req.Value,
	}
	var err error
	if in.StartDate, err = parseDateField(req.StartDate); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "startDate must be YYYY-MM-DD", nil)
		return
	}
	if in.EndDate, err = parseDateField(req.EndDate); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "endDate must be YYYY-MM-DD", nil)
		return
	}

	contract, err := h.Svc.Create(c.Request.Context(), scope, in)
	if err != nil {
		h.writeError(c, err, "failed to create contract")
		return
	}
	respond.JSON(c, http.StatusCreated, contract)
}

func (h *Handler) list(c *gin.Context) {
	scope := middleware.ScopeFromContext(c)

	filter := ListFilter{
		Status: Status(c.Query("status")),
		Risk:   RiskLevel(c.Query("risk")),
		Search: strings.TrimSpace(c.Query("search")),
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			filter.Offset = n
		}
	}

	list, err := h.Svc.List(c.Request.Context(), scope, filter)
	if err != nil {
		h.writeError(c, err, "failed to list contracts")
		return
	}
	if list == nil {
		list = []Contract{}
	}
	respond.OK(c, list)
}

func (h *Handler) detail(c *gin.Context) {
	scope := middleware.ScopeFromContext(c)

	detail, err := h.Detail.Get(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to load contract")
		return
	}
	if detail.Findings == nil {
		detail.Findings = []risk.Finding{}
	}
	respond.OK(c, detail)
}

type transitionRequest struct {
	Status string `json:"status"`
}

func (h *Handler) transition(c *gin.Context) {
	scope := middleware.ScopeFromContext(c)

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	contract, err := h.Svc.Transition(c.Request.Context(), scope, c.Param("id"), Status(req.Status))
	if err != nil {
		h.writeError(c, err, "failed to update status")
		return
	}
	respond.OK(c, contract)
}

func (h *Handler) summary(c *gin.Context) {
	scope := middleware.ScopeFromContext(c)

	summary, err := h.Svc.Summary(c.Request.Context(), scope)
	if err != nil {
		h.writeError(c, err, "failed to compute summary")
		return
	}
	respond.OK(c, summary)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrInvalidTransition):
		respond.Error(c, http.StatusConflict, "invalid_transition", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "contract not found", nil)
	case errors.Is(err, tenant.ErrMissingScope):
		respond.Error(c, http.StatusForbidden, "forbidden", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, fallback, err.Error(), nil)
	}
}

func parseDateField(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
