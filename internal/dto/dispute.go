package dto

import "github.com/bodedono/contestacoes-api/internal/models"

// CreateDisputeRequest is the payload for manually opening a dispute.
type CreateDisputeRequest struct {
	DataAbertura     string        `json:"dataAbertura"`
	NumeroPedido     string        `json:"numeroPedido" validate:"required"`
	Restaurante      string        `json:"restaurante" validate:"required"`
	Motivo           string        `json:"motivo"`
	Descricao        string        `json:"descricao"`
	Valor            float64       `json:"valor" validate:"gte=0"`
	Status           models.Status `json:"status" validate:"omitempty,status_contestacao"`
	Responsavel      string        `json:"responsavel"`
	MotivoEspecifico string        `json:"motivoEspecifico"`
	Observacoes      string        `json:"observacoes"`
	ValorRecuperado  float64       `json:"valorRecuperado"`
}

// UpdateDisputeRequest updates the resolution block of one dispute. RowIndex
// is an optional client hint; when absent the row is located by ID.
type UpdateDisputeRequest struct {
	ID              string        `json:"id" validate:"required"`
	RowIndex        *int          `json:"rowIndex"`
	Status          models.Status `json:"status" validate:"omitempty,status_contestacao"`
	DataResolucao   string        `json:"dataResolucao"`
	Resultado       string        `json:"resultado"`
	ValorRecuperado float64       `json:"valorRecuperado"`
	Observacoes     string        `json:"observacoes"`
}

// BatchDisputeChanges carries the fields a batch update may touch. Empty
// fields keep the stored value.
type BatchDisputeChanges struct {
	Status          models.Status `json:"status"`
	DataResolucao   string        `json:"dataResolucao"`
	Resultado       string        `json:"resultado"`
	ValorRecuperado *float64      `json:"valorRecuperado"`
	Observacoes     string        `json:"observacoes"`
}

// BatchUpdateRequest applies the same changes to several disputes.
type BatchUpdateRequest struct {
	IDs     []string            `json:"ids"`
	Updates BatchDisputeChanges `json:"updates"`
}

// BatchUpdateResponse reports how many rows changed and which IDs were
// missing from the store.
type BatchUpdateResponse struct {
	UpdatedCount int      `json:"updatedCount"`
	NotFound     []string `json:"notFound,omitempty"`
}

// BatchDeleteRequest removes several disputes by ID.
type BatchDeleteRequest struct {
	IDs []string `json:"ids"`
}

// BatchDeleteResponse reports deletion results.
type BatchDeleteResponse struct {
	DeletedCount int      `json:"deletedCount"`
	NotFound     []string `json:"notFound,omitempty"`
}
