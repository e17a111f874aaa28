package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bodedono/contestacoes-api/internal/dto"
	"github.com/bodedono/contestacoes-api/internal/service"
	appErrors "github.com/bodedono/contestacoes-api/pkg/errors"
	"github.com/bodedono/contestacoes-api/pkg/response"
)

type exportService interface {
	Export(ctx context.Context, format service.ExportFormat, query dto.DashboardQuery) (*service.ExportFile, error)
}

// ExportHandler streams dispute listings as downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Export godoc
// @Summary Download the dispute list as CSV or PDF
// @Tags Exportacao
// @Produce octet-stream
// @Param formato query string true "csv or pdf"
// @Param dataInicio query string false "Window start (YYYY-MM-DD)"
// @Param dataFim query string false "Window end (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Router /exportacao [get]
func (h *ExportHandler) Export(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	format := service.ExportFormat(strings.ToLower(strings.TrimSpace(c.Query("formato"))))
	query := dto.DashboardQuery{
		DataInicio: strings.TrimSpace(c.Query("dataInicio")),
		DataFim:    strings.TrimSpace(c.Query("dataFim")),
	}

	file, err := h.service.Export(c.Request.Context(), format, query)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(200, file.ContentType, file.Content)
}
