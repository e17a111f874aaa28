package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bodedono/contestacoes-api/internal/dto"
	"github.com/bodedono/contestacoes-api/internal/models"
	appErrors "github.com/bodedono/contestacoes-api/pkg/errors"
	"github.com/bodedono/contestacoes-api/pkg/response"
)

type disputeService interface {
	List(ctx context.Context) ([]models.Dispute, error)
	Create(ctx context.Context, req dto.CreateDisputeRequest) (*models.Dispute, error)
	Update(ctx context.Context, req dto.UpdateDisputeRequest) error
	Delete(ctx context.Context, id string) error
	BatchUpdate(ctx context.Context, req dto.BatchUpdateRequest) (*dto.BatchUpdateResponse, error)
	BatchDelete(ctx context.Context, req dto.BatchDeleteRequest) (*dto.BatchDeleteResponse, error)
}

// DisputeHandler wires dispute CRUD endpoints.
type DisputeHandler struct {
	service disputeService
}

// NewDisputeHandler constructs the handler.
func NewDisputeHandler(service disputeService) *DisputeHandler {
	return &DisputeHandler{service: service}
}

// List godoc
// @Summary List disputes
// @Tags Contestacoes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /contestacoes [get]
func (h *DisputeHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	disputes, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, disputes, map[string]interface{}{"total": len(disputes)})
}

// Create godoc
// @Summary Open a dispute manually
// @Tags Contestacoes
// @Accept json
// @Produce json
// @Param payload body dto.CreateDisputeRequest true "Dispute payload"
// @Success 201 {object} response.Envelope
// @Router /contestacoes [post]
func (h *DisputeHandler) Create(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req dto.CreateDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "corpo da requisição inválido"))
		return
	}
	dispute, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dispute)
}

// Update godoc
// @Summary Update a dispute's resolution block
// @Tags Contestacoes
// @Accept json
// @Produce json
// @Param payload body dto.UpdateDisputeRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Router /contestacoes [put]
func (h *DisputeHandler) Update(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req dto.UpdateDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "corpo da requisição inválido"))
		return
	}
	if err := h.service.Update(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"id": req.ID, "atualizado": true})
}

// Delete godoc
// @Summary Remove a dispute
// @Tags Contestacoes
// @Produce json
// @Param id query string true "Dispute ID"
// @Success 200 {object} response.Envelope
// @Router /contestacoes [delete]
func (h *DisputeHandler) Delete(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "id é obrigatório"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"id": id, "removido": true})
}

// BatchUpdate godoc
// @Summary Apply the same changes to several disputes
// @Tags Contestacoes
// @Accept json
// @Produce json
// @Param payload body dto.BatchUpdateRequest true "Batch update payload"
// @Success 200 {object} response.Envelope
// @Router /contestacoes/batch-update [post]
func (h *DisputeHandler) BatchUpdate(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req dto.BatchUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "corpo da requisição inválido"))
		return
	}
	result, err := h.service.BatchUpdate(c.Request.Context(), req)
	if err != nil {
		if result != nil {
			appErr := appErrors.FromError(err)
			c.JSON(appErr.Status, response.Envelope{Data: result, Error: appErr})
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// BatchDelete godoc
// @Summary Remove several disputes
// @Tags Contestacoes
// @Accept json
// @Produce json
// @Param payload body dto.BatchDeleteRequest true "Batch delete payload"
// @Success 200 {object} response.Envelope
// @Router /contestacoes/batch-delete [post]
func (h *DisputeHandler) BatchDelete(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req dto.BatchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "corpo da requisição inválido"))
		return
	}
	result, err := h.service.BatchDelete(c.Request.Context(), req)
	if err != nil {
		if result != nil {
			appErr := appErrors.FromError(err)
			c.JSON(appErr.Status, response.Envelope{Data: result, Error: appErr})
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
