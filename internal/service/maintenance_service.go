package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bodedono/contestacoes-api/internal/dto"
	"github.com/bodedono/contestacoes-api/internal/models"
	appErrors "github.com/bodedono/contestacoes-api/pkg/errors"
)

type maintenanceRepository interface {
	ListRows(ctx context.Context) ([][]string, error)
	UpdateRestaurantCells(ctx context.Context, cells []models.RestaurantCell) error
	DeleteRows(ctx context.Context, physicalRows []int) error
}

// MaintenanceService runs the housekeeping sweeps: blank-row removal,
// duplicate detection and restaurant-name normalization. Each sweep has a
// dry-run (report) form and an applying form.
type MaintenanceService struct {
	repo    maintenanceRepository
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	mu      *sync.Mutex
}

// NewMaintenanceService constructs the service sharing the store write mutex.
func NewMaintenanceService(repo maintenanceRepository, cache *CacheService, metrics *MetricsService, logger *zap.Logger, mu *sync.Mutex) *MaintenanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &MaintenanceService{repo: repo, cache: cache, metrics: metrics, logger: logger, mu: mu}
}

// ReportEmptyRows lists blank rows without touching them.
func (s *MaintenanceService) ReportEmptyRows(ctx context.Context) (*dto.EmptyRowsReport, error) {
	rows, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	report := &dto.EmptyRowsReport{TotalLinhas: len(rows), Detalhes: []dto.EmptyRowDetail{}}
	for i, row := range rows {
		if !rowIsBlank(row) {
			continue
		}
		report.Detalhes = append(report.Detalhes, dto.EmptyRowDetail{
			Linha:    i + models.DataStartRow,
			Conteudo: rowPreview(row),
		})
	}
	report.LinhasVazias = len(report.Detalhes)
	return report, nil
}

// RemoveEmptyRows structurally deletes every blank row.
func (s *MaintenanceService) RemoveEmptyRows(ctx context.Context) (*dto.EmptyRowsCleanupResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var physicalRows []int
	for i, row := range rows {
		if rowIsBlank(row) {
			physicalRows = append(physicalRows, i+models.DataStartRow)
		}
	}

	if len(physicalRows) == 0 {
		return &dto.EmptyRowsCleanupResult{Removidas: 0}, nil
	}

	start := time.Now()
	if err := s.repo.DeleteRows(ctx, physicalRows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRowStore.Code, appErrors.ErrRowStore.Status, "falha ao remover linhas vazias")
	}
	if s.metrics != nil {
		s.metrics.ObserveStoreCall("maintenance_delete_rows", time.Since(start))
	}

	s.invalidateDashboard(ctx)
	s.logger.Info("empty rows removed", zap.Int("count", len(physicalRows)))
	return &dto.EmptyRowsCleanupResult{Removidas: len(physicalRows)}, nil
}

// ReportDuplicates groups rows by identity key and reports groups holding
// more than one row, largest group first.
func (s *MaintenanceService) ReportDuplicates(ctx context.Context) (*dto.DuplicatesReport, error) {
	rows, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*dto.DuplicateGroup)
	var order []string
	for i, row := range rows {
		numeroPedido := models.Cell(row, models.ColNumeroPedido)
		restauranteOriginal := models.Cell(row, models.ColRestaurante)
		canonical := NormalizeRestaurantName(restauranteOriginal)
		key := DisputeKey(numeroPedido, canonical)

		g, ok := groups[key]
		if !ok {
			g = &dto.DuplicateGroup{
				Chave:        key,
				NumeroPedido: NormalizeOrderNumber(numeroPedido),
				Restaurante:  canonical,
			}
			groups[key] = g
			order = append(order, key)
		}
		g.Registros = append(g.Registros, dto.DuplicateRecord{
			ID:                  models.Cell(row, models.ColID),
			Linha:               i + models.DataStartRow,
			RestauranteOriginal: restauranteOriginal,
			Data:                models.Cell(row, models.ColDataAbertura),
			Valor:               models.Cell(row, models.ColValor),
			ValorRecuperado:     models.Cell(row, models.ColValorRecuperado),
			Status:              models.Cell(row, models.ColStatus),
		})
	}

	report := &dto.DuplicatesReport{Duplicatas: []dto.DuplicateGroup{}}
	for _, key := range order {
		g := groups[key]
		if len(g.Registros) <= 1 {
			continue
		}
		report.Duplicatas = append(report.Duplicatas, *g)
		report.TotalDuplicatas += len(g.Registros) - 1
	}
	sort.SliceStable(report.Duplicatas, func(a, b int) bool {
		return len(report.Duplicatas[a].Registros) > len(report.Duplicatas[b].Registros)
	})
	report.TotalGrupos = len(report.Duplicatas)
	return report, nil
}

// RemoveDuplicates deletes the requested rows. Physical row numbers win over
// IDs when both are present; IDs are resolved against a fresh snapshot.
func (s *MaintenanceService) RemoveDuplicates(ctx context.Context, req dto.DuplicatesCleanupRequest) (*dto.DuplicatesCleanupResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	physicalRows := req.Linhas
	if len(physicalRows) == 0 {
		if len(req.IDs) == 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "nenhum ID ou linha fornecido para remoção")
		}

		rows, err := s.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		index := indexRowsByID(rows)
		for _, id := range req.IDs {
			if strings.TrimSpace(id) == "" {
				continue
			}
			if i, ok := index[strings.TrimSpace(id)]; ok {
				physicalRows = append(physicalRows, i+models.DataStartRow)
			}
		}
		if len(physicalRows) == 0 {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "nenhum registro encontrado com os IDs fornecidos")
		}
	}

	start := time.Now()
	if err := s.repo.DeleteRows(ctx, physicalRows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRowStore.Code, appErrors.ErrRowStore.Status, "falha ao remover duplicatas")
	}
	if s.metrics != nil {
		s.metrics.ObserveStoreCall("maintenance_delete_rows", time.Since(start))
	}

	s.invalidateDashboard(ctx)
	s.logger.Info("duplicate rows removed", zap.Int("count", len(physicalRows)))
	return &dto.DuplicatesCleanupResult{Removidos: len(physicalRows)}, nil
}

// ReportNormalization lists rows whose restaurant name differs from its
// canonical form.
func (s *MaintenanceService) ReportNormalization(ctx context.Context) (*dto.NormalizationReport, error) {
	rows, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	report := &dto.NormalizationReport{Total: len(rows), ANormalizar: []dto.NormalizationCandidate{}}
	for i, row := range rows {
		atual := models.Cell(row, models.ColRestaurante)
		normalizado := NormalizeRestaurantName(atual)
		if strings.TrimSpace(atual) == "" || atual == normalizado {
			report.JaCorretos++
			continue
		}
		report.ANormalizar = append(report.ANormalizar, dto.NormalizationCandidate{
			Linha:       i + models.DataStartRow,
			Atual:       atual,
			Normalizado: normalizado,
		})
	}
	return report, nil
}

// ApplyNormalization rewrites every divergent restaurant cell in one batch.
func (s *MaintenanceService) ApplyNormalization(ctx context.Context) (*dto.NormalizationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var cells []models.RestaurantCell
	result := &dto.NormalizationResult{Detalhes: []dto.NormalizationChange{}}
	for i, row := range rows {
		atual := models.Cell(row, models.ColRestaurante)
		normalizado := NormalizeRestaurantName(atual)
		if strings.TrimSpace(atual) == "" || atual == normalizado {
			continue
		}
		linha := i + models.DataStartRow
		cells = append(cells, models.RestaurantCell{PhysicalRow: linha, Value: normalizado})
		result.Detalhes = append(result.Detalhes, dto.NormalizationChange{Linha: linha, De: atual, Para: normalizado})
	}

	if len(cells) == 0 {
		return result, nil
	}

	start := time.Now()
	if err := s.repo.UpdateRestaurantCells(ctx, cells); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRowStore.Code, appErrors.ErrRowStore.Status, "falha ao normalizar registros")
	}
	if s.metrics != nil {
		s.metrics.ObserveStoreCall("maintenance_normalize", time.Since(start))
	}

	result.Alteracoes = len(cells)
	s.invalidateDashboard(ctx)
	s.logger.Info("restaurant names normalized", zap.Int("count", len(cells)))
	return result, nil
}

func (s *MaintenanceService) snapshot(ctx context.Context) ([][]string, error) {
	start := time.Now()
	rows, err := s.repo.ListRows(ctx)
	if s.metrics != nil {
		s.metrics.ObserveStoreCall("maintenance_snapshot", time.Since(start))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRowStore.Code, appErrors.ErrRowStore.Status, "falha ao ler dados da planilha")
	}
	return rows, nil
}

func (s *MaintenanceService) invalidateDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, DashboardCachePattern); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

// rowIsBlank mirrors the dispute listing rule: a row counts as blank when it
// has no ID, no order number and no restaurant.
func rowIsBlank(row []string) bool {
	return strings.TrimSpace(models.Cell(row, models.ColID)) == "" &&
		strings.TrimSpace(models.Cell(row, models.ColNumeroPedido)) == "" &&
		strings.TrimSpace(models.Cell(row, models.ColRestaurante)) == ""
}

func rowPreview(row []string) string {
	if len(row) == 0 {
		return "(vazio)"
	}
	preview := []rune(strings.Join(row, " | "))
	if len(preview) > 100 {
		preview = preview[:100]
	}
	return string(preview)
}
