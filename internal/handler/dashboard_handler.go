package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bodedono/contestacoes-api/internal/dto"
	"github.com/bodedono/contestacoes-api/internal/middleware"
	appErrors "github.com/bodedono/contestacoes-api/pkg/errors"
	"github.com/bodedono/contestacoes-api/pkg/response"
)

type dashboardService interface {
	Build(ctx context.Context, query dto.DashboardQuery) (*dto.DashboardResponse, bool, error)
}

// DashboardHandler wires the dashboard service to HTTP.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Build godoc
// @Summary Dispute dashboard metrics
// @Tags Dashboard
// @Produce json
// @Param dataInicio query string false "Window start (YYYY-MM-DD)"
// @Param dataFim query string false "Window end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Build(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	query := dto.DashboardQuery{
		DataInicio: strings.TrimSpace(c.Query("dataInicio")),
		DataFim:    strings.TrimSpace(c.Query("dataFim")),
	}

	start := time.Now()
	dashboard, cacheHit, err := h.service.Build(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, dashboard, meta)
}
