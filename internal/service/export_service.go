package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bodedono/contestacoes-api/internal/dto"
	"github.com/bodedono/contestacoes-api/internal/models"
	appErrors "github.com/bodedono/contestacoes-api/pkg/errors"
	"github.com/bodedono/contestacoes-api/pkg/export"
)

// ExportFormat selects the rendered output type.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

var exportHeaders = []string{
	"ID", "Data Abertura", "Número Pedido", "Restaurante", "Motivo", "Descrição",
	"Valor", "Status", "Data Resolução", "Resultado", "Valor Recuperado",
	"Observações", "Anexos", "Responsável", "Motivo Específico",
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportService renders dispute listings as CSV or PDF downloads.
type ExportService struct {
	repo    dashboardRepository
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
	enabled bool
	now     func() time.Time
}

// NewExportService constructs the service.
func NewExportService(repo dashboardRepository, logger *zap.Logger, enabled bool) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		repo:    repo,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
		enabled: enabled,
		now:     time.Now,
	}
}

// Export renders every dispute inside the optional date window.
func (s *ExportService) Export(ctx context.Context, format ExportFormat, query dto.DashboardQuery) (*ExportFile, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrValidation, "exportação desabilitada")
	}

	inicio, err := parseISODate(query.DataInicio)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "dataInicio inválida, formato esperado YYYY-MM-DD")
	}
	fim, err := parseISODate(query.DataFim)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "dataFim inválida, formato esperado YYYY-MM-DD")
	}
	if fim != nil {
		v := endOfDay(*fim)
		fim = &v
	}

	disputes, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRowStore.Code, appErrors.ErrRowStore.Status, "falha ao ler dados da planilha")
	}

	dataset := export.Dataset{Headers: exportHeaders}
	for _, d := range disputes {
		if isBlankDispute(d) {
			continue
		}
		if inicio != nil || fim != nil {
			parsed := models.ParseFlexibleDate(d.DataAbertura)
			if parsed == nil {
				continue
			}
			if inicio != nil && parsed.Before(*inicio) {
				continue
			}
			if fim != nil && parsed.After(*fim) {
				continue
			}
		}
		dataset.Rows = append(dataset.Rows, []string{
			d.ID,
			d.DataAbertura,
			d.NumeroPedido,
			d.Restaurante,
			d.Motivo,
			d.Descricao,
			models.FormatBRL(d.Valor),
			string(d.Status),
			d.DataResolucao,
			d.Resultado,
			models.FormatBRL(d.ValorRecuperado),
			d.Observacoes,
			d.Anexos,
			d.Responsavel,
			d.MotivoEspecifico,
		})
	}

	stamp := s.now().Format("2006-01-02")
	switch format {
	case FormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "falha ao gerar CSV")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("contestacoes-%s.csv", stamp),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	case FormatPDF:
		content, err := s.pdf.Render(dataset, "Contestações iFood")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "falha ao gerar PDF")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("contestacoes-%s.pdf", stamp),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("formato inválido %q, use csv ou pdf", strings.TrimSpace(string(format))))
	}
}
