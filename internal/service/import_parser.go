package service

import (
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/bodedono/contestacoes-api/internal/models"
	appErrors "github.com/bodedono/contestacoes-api/pkg/errors"
)

// Vendor report column headers, as exported by the marketplace portal.
const (
	headerIDPedido             = "ID COMPLETO DO PEDIDO"
	headerNumeroPedido         = "ID CURTO DO PEDIDO"
	headerRestaurante          = "NOME DA LOJA"
	headerDataHora             = "DATA E HORA DO PEDIDO"
	headerStatusFinal          = "STATUS FINAL DO PEDIDO"
	headerValorItens           = "VALOR DOS ITENS (R$)"
	headerTotalPago            = "TOTAL PAGO PELO CLIENTE (R$)"
	headerValorLiquido         = "VALOR LIQUIDO (R$)"
	headerMotivoCancelamento   = "MOTIVO DO CANCELAMENTO"
	headerOrigemCancelamento   = "ORIGEM DO CANCELAMENTO"
	headerDataCancelamento     = "DATA DO CANCELAMENTO"
	headerValorItensCancelados = "VALOR DOS ITENS CANCELADOS"
	headerContestavel          = "CANCELAMENTO É CONTESTAVEL"
	headerMotivoNaoContestar   = "MOTIVO DA IMPOSSIBILIDADE DE CONTESTAR"
)

// ParseVendorReport reads the first sheet of an XLSX cancellation report into
// orders. Columns are matched by header name, so column order in the report
// does not matter. Unreadable numbers parse as zero, matching the lenient
// treatment everywhere else.
func ParseVendorReport(r io.Reader) ([]models.ImportedOrder, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrEmptyFile.Code, appErrors.ErrEmptyFile.Status, "planilha vazia ou formato inválido")
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, appErrors.Clone(appErrors.ErrEmptyFile, "planilha vazia ou formato inválido")
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrEmptyFile.Code, appErrors.ErrEmptyFile.Status, "planilha vazia ou formato inválido")
	}
	if len(rows) < 2 {
		return nil, appErrors.Clone(appErrors.ErrEmptyFile, "planilha vazia ou formato inválido")
	}

	cols := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		cols[strings.ToUpper(strings.TrimSpace(h))] = i
	}

	cell := func(row []string, header string) string {
		i, ok := cols[header]
		if !ok {
			return ""
		}
		return strings.TrimSpace(models.Cell(row, i))
	}

	orders := make([]models.ImportedOrder, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if rowIsEmpty(row) {
			continue
		}
		orders = append(orders, models.ImportedOrder{
			IDPedido:             cell(row, headerIDPedido),
			NumeroPedido:         cell(row, headerNumeroPedido),
			Restaurante:          cell(row, headerRestaurante),
			DataHora:             cell(row, headerDataHora),
			StatusFinal:          cell(row, headerStatusFinal),
			ValorItens:           parseReportNumber(cell(row, headerValorItens)),
			TotalPago:            parseReportNumber(cell(row, headerTotalPago)),
			ValorLiquido:         parseReportNumber(cell(row, headerValorLiquido)),
			MotivoCancelamento:   cell(row, headerMotivoCancelamento),
			OrigemCancelamento:   cell(row, headerOrigemCancelamento),
			DataCancelamento:     cell(row, headerDataCancelamento),
			ValorItensCancelados: parseReportNumber(cell(row, headerValorItensCancelados)),
			Contestavel:          cell(row, headerContestavel),
			MotivoNaoContestar:   cell(row, headerMotivoNaoContestar),
		})
	}

	if len(orders) == 0 {
		return nil, appErrors.Clone(appErrors.ErrEmptyFile, "planilha vazia ou formato inválido")
	}
	return orders, nil
}

// parseReportNumber accepts plain decimals ("12.5"), pt-BR formatted amounts
// ("R$ 1.234,56") and empty cells.
func parseReportNumber(raw string) float64 {
	clean := strings.TrimSpace(strings.TrimPrefix(raw, "R$"))
	clean = strings.ReplaceAll(clean, " ", "")
	clean = strings.ReplaceAll(clean, " ", "")
	if clean == "" {
		return 0
	}
	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	}
	n, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0
	}
	return n
}

func rowIsEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
