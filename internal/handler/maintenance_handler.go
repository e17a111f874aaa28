package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bodedono/contestacoes-api/internal/dto"
	appErrors "github.com/bodedono/contestacoes-api/pkg/errors"
	"github.com/bodedono/contestacoes-api/pkg/response"
)

type maintenanceService interface {
	ReportEmptyRows(ctx context.Context) (*dto.EmptyRowsReport, error)
	RemoveEmptyRows(ctx context.Context) (*dto.EmptyRowsCleanupResult, error)
	ReportDuplicates(ctx context.Context) (*dto.DuplicatesReport, error)
	RemoveDuplicates(ctx context.Context, req dto.DuplicatesCleanupRequest) (*dto.DuplicatesCleanupResult, error)
	ReportNormalization(ctx context.Context) (*dto.NormalizationReport, error)
	ApplyNormalization(ctx context.Context) (*dto.NormalizationResult, error)
}

// MaintenanceHandler exposes the housekeeping sweeps. GET is always the
// dry-run report; POST applies the sweep.
type MaintenanceHandler struct {
	service maintenanceService
}

// NewMaintenanceHandler constructs the handler.
func NewMaintenanceHandler(service maintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{service: service}
}

// ReportEmptyRows godoc
// @Summary Report blank rows
// @Tags Manutencao
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /manutencao/linhas-vazias [get]
func (h *MaintenanceHandler) ReportEmptyRows(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	report, err := h.service.ReportEmptyRows(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// RemoveEmptyRows godoc
// @Summary Delete blank rows
// @Tags Manutencao
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /manutencao/linhas-vazias [post]
func (h *MaintenanceHandler) RemoveEmptyRows(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	result, err := h.service.RemoveEmptyRows(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// ReportDuplicates godoc
// @Summary Report duplicated disputes
// @Tags Manutencao
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /manutencao/duplicatas [get]
func (h *MaintenanceHandler) ReportDuplicates(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	report, err := h.service.ReportDuplicates(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// RemoveDuplicates godoc
// @Summary Delete duplicated disputes
// @Tags Manutencao
// @Accept json
// @Produce json
// @Param payload body dto.DuplicatesCleanupRequest true "Rows or IDs to remove"
// @Success 200 {object} response.Envelope
// @Router /manutencao/duplicatas [post]
func (h *MaintenanceHandler) RemoveDuplicates(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req dto.DuplicatesCleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "corpo da requisição inválido"))
		return
	}
	result, err := h.service.RemoveDuplicates(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// ReportNormalization godoc
// @Summary Report divergent restaurant names
// @Tags Manutencao
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /manutencao/normalizar [get]
func (h *MaintenanceHandler) ReportNormalization(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	report, err := h.service.ReportNormalization(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// ApplyNormalization godoc
// @Summary Normalize restaurant names in place
// @Tags Manutencao
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /manutencao/normalizar [post]
func (h *MaintenanceHandler) ApplyNormalization(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	result, err := h.service.ApplyNormalization(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
