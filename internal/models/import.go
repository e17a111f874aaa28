package models

import "time"

// ImportedOrder is one row of the uploaded vendor report, raw. It only lives
// for the duration of a single import run.
type ImportedOrder struct {
	IDPedido             string
	NumeroPedido         string
	Restaurante          string
	DataHora             string
	StatusFinal          string
	ValorItens           float64
	TotalPago            float64
	ValorLiquido         float64
	MotivoCancelamento   string
	OrigemCancelamento   string
	DataCancelamento     string
	ValorItensCancelados float64
	Contestavel          string
	MotivoNaoContestar   string
}

// ImportSummary is the auditable result of one reconciliation run.
type ImportSummary struct {
	RunID                string        `json:"runId"`
	TotalLinhas          int           `json:"totalLinhas"`
	PedidosCancelados    int           `json:"pedidosCancelados"`
	PedidosImportados    int           `json:"pedidosImportados"`
	PedidosAtualizados   int           `json:"pedidosAtualizados"`
	PedidosDuplicados    int           `json:"pedidosDuplicados"`
	PedidosNaoCancelados int           `json:"pedidosNaoCancelados"`
	TempoProcessamento   time.Duration `json:"-"`
	TempoProcessamentoMs int64         `json:"tempoProcessamentoMs"`
	Detalhes             ImportDetails `json:"detalhes"`
}

// ImportDetails lists the order numbers behind each counter.
type ImportDetails struct {
	Importados    []string `json:"importados"`
	Atualizados   []string `json:"atualizados"`
	Duplicados    []string `json:"duplicados"`
	NaoCancelados []string `json:"naoCancelados"`
}
