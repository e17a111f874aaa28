package service

import (
	"strings"

	"github.com/bodedono/contestacoes-api/internal/models"
)

// The vendor report does not carry our workflow status, so it is derived
// from the refund description. The rules run in order; first hit wins.

var cancelKeywords = []string{
	"SUA LOJA CANCELOU",
	"FOI CANCELADO PELA SUA LOJA",
	"SUA LOJA ACEITOU",
}

var refundKeywords = []string{
	"REEMBOLSO",
	"REEMBOLSOU",
	"NÃO É CONTESTÁVEL",
	"NAO E CONTESTAVEL",
	"NÃO É CONTESTAVEL",
	"NAO É CONTESTÁVEL",
}

// DeriveStatus maps a refund description plus the net order value onto a
// workflow status.
func DeriveStatus(descricao string, valorLiquido float64) models.Status {
	trimmed := strings.TrimSpace(descricao)
	if trimmed == "" || strings.EqualFold(trimmed, "N/A") {
		return models.StatusFinalizado
	}

	upper := strings.ToUpper(trimmed)
	for _, kw := range cancelKeywords {
		if strings.Contains(upper, kw) {
			return models.StatusCancelado
		}
	}
	for _, kw := range refundKeywords {
		if strings.Contains(upper, kw) {
			return models.StatusFinalizado
		}
	}
	if valorLiquido > 0 {
		return models.StatusFinalizado
	}
	return models.StatusAguardando
}

// ShouldAdvanceStatus reports whether an existing dispute may move to the
// derived status. Status only moves forward: a finalized dispute never goes
// back to waiting because a stale report said so.
func ShouldAdvanceStatus(current, derived models.Status) bool {
	return models.StatusPriority(derived) > models.StatusPriority(current)
}

// ShouldUpdateAmount reports whether the stored amount should be replaced by
// the report's net value. Zero values are never written over an existing
// amount.
func ShouldUpdateAmount(currentFormatted string, valorLiquido float64) bool {
	if valorLiquido <= 0 {
		return false
	}
	return models.FormatBRL(valorLiquido) != strings.TrimSpace(currentFormatted)
}
