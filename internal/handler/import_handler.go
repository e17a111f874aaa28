package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bodedono/contestacoes-api/internal/models"
	"github.com/bodedono/contestacoes-api/internal/service"
	appErrors "github.com/bodedono/contestacoes-api/pkg/errors"
	"github.com/bodedono/contestacoes-api/pkg/response"
)

type importService interface {
	Import(ctx context.Context, orders []models.ImportedOrder) (*models.ImportSummary, error)
}

// ImportHandler receives vendor report uploads and runs the reconciliation.
type ImportHandler struct {
	service     importService
	maxFileSize int64
}

// NewImportHandler constructs the handler. maxFileSize caps the accepted
// upload size in bytes; zero disables the cap.
func NewImportHandler(service importService, maxFileSize int64) *ImportHandler {
	return &ImportHandler{service: service, maxFileSize: maxFileSize}
}

// Import godoc
// @Summary Import a vendor cancellation report
// @Tags Importacao
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "XLSX report"
// @Success 200 {object} response.Envelope
// @Router /importacao [post]
func (h *ImportHandler) Import(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "arquivo \"file\" é obrigatório"))
		return
	}
	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "arquivo excede o tamanho máximo permitido"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "falha ao ler o arquivo enviado"))
		return
	}
	defer file.Close()

	orders, err := service.ParseVendorReport(file)
	if err != nil {
		response.Error(c, err)
		return
	}

	summary, err := h.service.Import(c.Request.Context(), orders)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, map[string]interface{}{
		"processing_time_ms": summary.TempoProcessamentoMs,
	})
}
