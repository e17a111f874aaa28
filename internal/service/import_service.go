package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bodedono/contestacoes-api/internal/models"
	appErrors "github.com/bodedono/contestacoes-api/pkg/errors"
)

// ImportService reconciles uploaded vendor reports against the dispute
// store. A run makes exactly four store calls regardless of report size: one
// snapshot read, one batched H:L update, one last-row probe and one bulk
// append.
//
// Re-running the same report is safe: every order it inserted the first time
// resolves as existing on the second pass, and an unchanged row counts as a
// duplicate rather than producing a second write.
type ImportService struct {
	repo    disputeRepository
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	mu      *sync.Mutex
	now     func() time.Time
}

// NewImportService constructs the service. The mutex must be the same
// instance the dispute and maintenance services hold while writing.
func NewImportService(repo disputeRepository, cache *CacheService, metrics *MetricsService, logger *zap.Logger, mu *sync.Mutex) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &ImportService{repo: repo, cache: cache, metrics: metrics, logger: logger, mu: mu, now: time.Now}
}

// Import runs one reconciliation pass over the parsed report rows.
func (s *ImportService) Import(ctx context.Context, orders []models.ImportedOrder) (*models.ImportSummary, error) {
	if len(orders) == 0 {
		return nil, appErrors.Clone(appErrors.ErrEmptyFile, "planilha vazia ou formato inválido")
	}

	if !s.mu.TryLock() {
		return nil, appErrors.Clone(appErrors.ErrImportLocked, "outra importação ou operação de escrita em andamento")
	}
	defer s.mu.Unlock()

	runID := uuid.NewString()
	start := s.now()
	log := s.logger.With(zap.String("runId", runID))
	log.Info("import run started", zap.Int("totalLinhas", len(orders)))

	summary, err := s.reconcile(ctx, log, orders)
	elapsed := s.now().Sub(start)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ObserveImportRun("failed", elapsed)
		}
		log.Error("import run failed", zap.Error(err))
		return nil, err
	}

	summary.RunID = runID
	summary.TempoProcessamento = elapsed
	summary.TempoProcessamentoMs = elapsed.Milliseconds()

	if s.metrics != nil {
		s.metrics.ObserveImportRun("completed", elapsed)
		s.metrics.CountImportRows("imported", summary.PedidosImportados)
		s.metrics.CountImportRows("updated", summary.PedidosAtualizados)
		s.metrics.CountImportRows("duplicated", summary.PedidosDuplicados)
		s.metrics.CountImportRows("ignored", summary.PedidosNaoCancelados)
	}

	if s.cache != nil {
		if cerr := s.cache.Invalidate(ctx, DashboardCachePattern); cerr != nil {
			log.Warn("dashboard cache invalidation failed", zap.Error(cerr))
		}
	}

	log.Info("import run completed",
		zap.Int("importados", summary.PedidosImportados),
		zap.Int("atualizados", summary.PedidosAtualizados),
		zap.Int("duplicados", summary.PedidosDuplicados),
		zap.Int("naoCancelados", summary.PedidosNaoCancelados),
		zap.Duration("elapsed", elapsed))

	return summary, nil
}

type existingRow struct {
	physicalRow int
	row         []string
}

func (s *ImportService) reconcile(ctx context.Context, log *zap.Logger, orders []models.ImportedOrder) (*models.ImportSummary, error) {
	summary := &models.ImportSummary{TotalLinhas: len(orders)}

	var cancelados, naoCancelados []models.ImportedOrder
	for _, o := range orders {
		if strings.EqualFold(strings.TrimSpace(o.StatusFinal), "CANCELADO") {
			cancelados = append(cancelados, o)
		} else {
			naoCancelados = append(naoCancelados, o)
		}
	}
	summary.PedidosCancelados = len(cancelados)
	summary.PedidosNaoCancelados = len(naoCancelados)
	for _, o := range naoCancelados {
		summary.Detalhes.NaoCancelados = append(summary.Detalhes.NaoCancelados, o.NumeroPedido)
	}

	// One snapshot read; every match below resolves against it.
	callStart := s.now()
	rows, err := s.repo.ListRows(ctx)
	if s.metrics != nil {
		s.metrics.ObserveStoreCall("import_snapshot", s.now().Sub(callStart))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRowStore.Code, appErrors.ErrRowStore.Status, "falha ao ler dados da planilha")
	}

	existing := make(map[string]existingRow, len(rows))
	for i, row := range rows {
		numeroPedido := models.Cell(row, models.ColNumeroPedido)
		restaurante := NormalizeRestaurantName(models.Cell(row, models.ColRestaurante))
		key := DisputeKey(numeroPedido, restaurante)
		// Last occurrence wins when the store holds duplicate keys, so an
		// advancing import targets the same physical row the legacy engine
		// would.
		existing[key] = existingRow{physicalRow: i + models.DataStartRow, row: row}
	}

	var novos []models.ImportedOrder
	var blocks []models.StatusBlock
	for _, o := range cancelados {
		restaurante := NormalizeRestaurantName(o.Restaurante)
		key := DisputeKey(o.NumeroPedido, restaurante)

		current, ok := existing[key]
		if !ok {
			novos = append(novos, o)
			continue
		}

		block, changed := buildStatusBlock(current, o)
		if changed {
			blocks = append(blocks, block)
			summary.PedidosAtualizados++
			summary.Detalhes.Atualizados = append(summary.Detalhes.Atualizados, o.NumeroPedido)
		} else {
			summary.PedidosDuplicados++
			summary.Detalhes.Duplicados = append(summary.Detalhes.Duplicados, o.NumeroPedido)
		}
	}

	if len(blocks) > 0 {
		callStart = s.now()
		if err := s.repo.UpdateStatusBlocks(ctx, blocks); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrRowStore.Code, appErrors.ErrRowStore.Status, "falha ao atualizar registros existentes")
		}
		if s.metrics != nil {
			s.metrics.ObserveStoreCall("import_batch_update", s.now().Sub(callStart))
		}
		log.Info("existing disputes updated", zap.Int("count", len(blocks)))
	}

	if len(novos) > 0 {
		callStart = s.now()
		lastRow, err := s.repo.LastRow(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrRowStore.Code, appErrors.ErrRowStore.Status, "falha ao obter última linha")
		}
		currentID := 1
		if lastRow > 2 {
			currentID = lastRow - 2
		}

		newRows := make([][]string, 0, len(novos))
		for _, o := range novos {
			currentID++
			newRows = append(newRows, buildNewRow(currentID, o))
			summary.Detalhes.Importados = append(summary.Detalhes.Importados, o.NumeroPedido)
		}

		if err := s.repo.Append(ctx, newRows); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrRowStore.Code, appErrors.ErrRowStore.Status, "falha ao inserir novos registros")
		}
		if s.metrics != nil {
			s.metrics.ObserveStoreCall("import_append", s.now().Sub(callStart))
		}
		summary.PedidosImportados = len(newRows)
		log.Info("new disputes appended", zap.Int("count", len(newRows)))
	}

	return summary, nil
}

// buildStatusBlock merges an imported order into an existing row's resolution
// block. It reports whether anything actually changed: the status only moves
// forward and the recovered amount only changes to a different positive
// value, so stale or repeated reports produce no writes.
func buildStatusBlock(current existingRow, o models.ImportedOrder) (models.StatusBlock, bool) {
	statusAtual := models.Status(strings.TrimSpace(models.Cell(current.row, models.ColStatus)))
	valorAtual := strings.TrimSpace(models.Cell(current.row, models.ColValorRecuperado))

	block := models.StatusBlock{
		PhysicalRow:     current.physicalRow,
		Status:          statusAtual,
		DataResolucao:   models.Cell(current.row, models.ColDataResolucao),
		Resultado:       models.Cell(current.row, models.ColResultado),
		ValorRecuperado: valorAtual,
		Observacoes:     fmt.Sprintf("Contestavel: %s. Atualizado via importacao.", o.Contestavel),
	}

	changed := false
	novoStatus := DeriveStatus(o.MotivoNaoContestar, o.ValorLiquido)
	if ShouldAdvanceStatus(statusAtual, novoStatus) {
		block.Status = novoStatus
		changed = true

		dataFormatada := models.FormatOrderDate(o.DataHora)
		switch novoStatus {
		case models.StatusFinalizado:
			block.DataResolucao = dataFormatada
			block.Resultado = "Reembolso automático iFood"
		case models.StatusCancelado:
			block.DataResolucao = dataFormatada
			block.Resultado = o.MotivoNaoContestar
			if block.Resultado == "" {
				block.Resultado = "Cancelado pela loja"
			}
		}
	}

	if ShouldUpdateAmount(valorAtual, o.ValorLiquido) {
		block.ValorRecuperado = models.FormatBRL(o.ValorLiquido)
		changed = true
	}

	return block, changed
}

// buildNewRow maps an imported order onto a full A:O dispute row.
func buildNewRow(id int, o models.ImportedOrder) []string {
	mapeamento := ClassifyReason(o.MotivoCancelamento, o.OrigemCancelamento)
	dataFormatada := models.FormatOrderDate(o.DataHora)
	status := DeriveStatus(o.MotivoNaoContestar, o.ValorLiquido)

	dataResolucao := ""
	resultado := ""
	switch status {
	case models.StatusFinalizado:
		dataResolucao = dataFormatada
		resultado = "Reembolso automático iFood"
	case models.StatusCancelado:
		dataResolucao = dataFormatada
		resultado = o.MotivoNaoContestar
		if resultado == "" {
			resultado = "Cancelado pela loja"
		}
	}

	motivo := o.MotivoCancelamento
	if motivo == "" {
		motivo = "Cancelamento"
	}

	return []string{
		fmt.Sprintf("%d", id),
		dataFormatada,
		o.NumeroPedido,
		NormalizeRestaurantName(o.Restaurante),
		motivo,
		strings.TrimSpace("Importado automaticamente. " + o.MotivoNaoContestar),
		models.FormatBRL(o.ValorItens),
		string(status),
		dataResolucao,
		resultado,
		models.FormatBRL(o.ValorLiquido),
		fmt.Sprintf("Contestavel: %s", o.Contestavel),
		"",
		string(mapeamento.Responsavel),
		mapeamento.MotivoEspecifico,
	}
}
