package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bodedono/contestacoes-api/internal/dto"
	"github.com/bodedono/contestacoes-api/internal/models"
	appErrors "github.com/bodedono/contestacoes-api/pkg/errors"
)

// DashboardCachePattern matches every cached dashboard payload; any write to
// the store invalidates all of them.
const DashboardCachePattern = "dashboard:*"

type disputeRepository interface {
	List(ctx context.Context) ([]models.Dispute, error)
	ListRows(ctx context.Context) ([][]string, error)
	LastRow(ctx context.Context) (int, error)
	Append(ctx context.Context, rows [][]string) error
	UpdateStatusBlocks(ctx context.Context, blocks []models.StatusBlock) error
	ClearRow(ctx context.Context, physicalRow int) error
	DeleteRows(ctx context.Context, physicalRows []int) error
}

// DisputeService handles dispute CRUD and batch workflows on top of the row
// store. All writes share one mutex with the import and maintenance services:
// the store has no transactions, so row positions resolved from a snapshot
// are only trustworthy while nothing else is writing.
type DisputeService struct {
	repo      disputeRepository
	validator *validator.Validate
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
	mu        *sync.Mutex
}

// NewDisputeService constructs the service. The mutex must be the same
// instance handed to the import and maintenance services.
func NewDisputeService(repo disputeRepository, validate *validator.Validate, cache *CacheService, metrics *MetricsService, logger *zap.Logger, mu *sync.Mutex) *DisputeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if mu == nil {
		mu = &sync.Mutex{}
	}
	svc := &DisputeService{repo: repo, validator: validate, cache: cache, metrics: metrics, logger: logger, mu: mu}
	svc.validator.RegisterValidation("status_contestacao", func(fl validator.FieldLevel) bool {
		return models.StatusPriority(models.Status(strings.ToUpper(fl.Field().String()))) > 0
	})
	return svc
}

// List returns every populated dispute row.
func (s *DisputeService) List(ctx context.Context) ([]models.Dispute, error) {
	start := time.Now()
	disputes, err := s.repo.List(ctx)
	if s.metrics != nil {
		s.metrics.ObserveStoreCall("list_disputes", time.Since(start))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRowStore.Code, appErrors.ErrRowStore.Status, "falha ao listar contestações")
	}

	out := make([]models.Dispute, 0, len(disputes))
	for _, d := range disputes {
		if isBlankDispute(d) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// Create appends a new dispute row and returns it with its generated ID.
func (s *DisputeService) Create(ctx context.Context, req dto.CreateDisputeRequest) (*models.Dispute, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "payload inválido")
	}
	if strings.TrimSpace(req.NumeroPedido) == "" || strings.TrimSpace(req.Restaurante) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "numeroPedido e restaurante são obrigatórios")
	}

	status := req.Status
	if status == "" {
		status = models.StatusAguardando
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	lastRow, err := s.repo.LastRow(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRowStore.Code, appErrors.ErrRowStore.Status, "falha ao obter última linha")
	}
	id := 1
	if lastRow > 0 {
		id = lastRow - 1
	}

	dispute := models.Dispute{
		ID:               strconv.Itoa(id),
		RowIndex:         lastRow + 1 - models.DataStartRow,
		DataAbertura:     req.DataAbertura,
		NumeroPedido:     req.NumeroPedido,
		Restaurante:      req.Restaurante,
		Motivo:           req.Motivo,
		Descricao:        req.Descricao,
		Valor:            req.Valor,
		Status:           status,
		ValorRecuperado:  req.ValorRecuperado,
		Observacoes:      req.Observacoes,
		Responsavel:      req.Responsavel,
		MotivoEspecifico: req.MotivoEspecifico,
	}

	row := []string{
		dispute.ID,
		req.DataAbertura,
		req.NumeroPedido,
		req.Restaurante,
		req.Motivo,
		req.Descricao,
		models.FormatBRL(req.Valor),
		string(status),
		"",
		"",
		models.FormatBRL(req.ValorRecuperado),
		req.Observacoes,
		"",
		req.Responsavel,
		req.MotivoEspecifico,
	}

	if err := s.repo.Append(ctx, [][]string{row}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRowStore.Code, appErrors.ErrRowStore.Status, "falha ao inserir contestação")
	}
	if s.metrics != nil {
		s.metrics.ObserveStoreCall("create_dispute", time.Since(start))
	}

	s.invalidateDashboard(ctx)
	s.logger.Info("dispute created",
		zap.String("id", dispute.ID),
		zap.String("numeroPedido", req.NumeroPedido),
		zap.String("restaurante", req.Restaurante))

	return &dispute, nil
}

// Update rewrites the resolution block (status, resolution date, outcome,
// recovered amount, notes) of one dispute.
func (s *DisputeService) Update(ctx context.Context, req dto.UpdateDisputeRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "payload inválido")
	}
	if strings.TrimSpace(req.ID) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "id é obrigatório")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	physicalRow, err := s.locate(ctx, req.ID, req.RowIndex)
	if err != nil {
		return err
	}

	start := time.Now()
	block := models.StatusBlock{
		PhysicalRow:     physicalRow,
		Status:          req.Status,
		DataResolucao:   req.DataResolucao,
		Resultado:       req.Resultado,
		ValorRecuperado: models.FormatBRL(req.ValorRecuperado),
		Observacoes:     req.Observacoes,
	}
	if err := s.repo.UpdateStatusBlocks(ctx, []models.StatusBlock{block}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrRowStore.Code, appErrors.ErrRowStore.Status, "falha ao atualizar contestação")
	}
	if s.metrics != nil {
		s.metrics.ObserveStoreCall("update_dispute", time.Since(start))
	}

	s.invalidateDashboard(ctx)
	s.logger.Info("dispute updated", zap.String("id", req.ID), zap.Int("row", physicalRow))
	return nil
}

// Delete blanks one dispute row. The row itself stays in place so other
// positions remain valid; the empty-row sweep removes it later.
func (s *DisputeService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "id é obrigatório")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	physicalRow, err := s.locate(ctx, id, nil)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := s.repo.ClearRow(ctx, physicalRow); err != nil {
		return appErrors.Wrap(err, appErrors.ErrRowStore.Code, appErrors.ErrRowStore.Status, "falha ao limpar linha da contestação")
	}
	if s.metrics != nil {
		s.metrics.ObserveStoreCall("delete_dispute", time.Since(start))
	}

	s.invalidateDashboard(ctx)
	s.logger.Info("dispute deleted", zap.String("id", id), zap.Int("row", physicalRow))
	return nil
}

// BatchUpdate applies the same resolution-block changes to several disputes.
// Empty request fields keep each row's stored value.
func (s *DisputeService) BatchUpdate(ctx context.Context, req dto.BatchUpdateRequest) (*dto.BatchUpdateResponse, error) {
	if len(req.IDs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "nenhum ID fornecido para atualização")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	index := indexRowsByID(rows)

	blocks := make([]models.StatusBlock, 0, len(req.IDs))
	var notFound []string
	for _, id := range req.IDs {
		i, ok := index[strings.TrimSpace(id)]
		if !ok {
			notFound = append(notFound, id)
			continue
		}
		row := rows[i]

		block := models.StatusBlock{
			PhysicalRow:     i + models.DataStartRow,
			Status:          models.Status(models.Cell(row, models.ColStatus)),
			DataResolucao:   models.Cell(row, models.ColDataResolucao),
			Resultado:       models.Cell(row, models.ColResultado),
			ValorRecuperado: models.Cell(row, models.ColValorRecuperado),
			Observacoes:     models.Cell(row, models.ColObservacoes),
		}
		if req.Updates.Status != "" {
			block.Status = req.Updates.Status
		}
		if req.Updates.DataResolucao != "" {
			block.DataResolucao = req.Updates.DataResolucao
		}
		if req.Updates.Resultado != "" {
			block.Resultado = req.Updates.Resultado
		}
		if req.Updates.ValorRecuperado != nil {
			block.ValorRecuperado = models.FormatBRL(*req.Updates.ValorRecuperado)
		}
		if req.Updates.Observacoes != "" {
			block.Observacoes = req.Updates.Observacoes
		}
		blocks = append(blocks, block)
	}

	if len(blocks) == 0 {
		return &dto.BatchUpdateResponse{NotFound: notFound},
			appErrors.Clone(appErrors.ErrNotFound, "nenhuma contestação encontrada com os IDs fornecidos")
	}

	start := time.Now()
	if err := s.repo.UpdateStatusBlocks(ctx, blocks); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRowStore.Code, appErrors.ErrRowStore.Status, "falha ao atualizar contestações em lote")
	}
	if s.metrics != nil {
		s.metrics.ObserveStoreCall("batch_update_disputes", time.Since(start))
	}

	s.invalidateDashboard(ctx)
	s.logger.Info("disputes batch updated",
		zap.Int("updated", len(blocks)),
		zap.Int("notFound", len(notFound)))

	return &dto.BatchUpdateResponse{UpdatedCount: len(blocks), NotFound: notFound}, nil
}

// BatchDelete structurally removes several disputes by ID.
func (s *DisputeService) BatchDelete(ctx context.Context, req dto.BatchDeleteRequest) (*dto.BatchDeleteResponse, error) {
	if len(req.IDs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "nenhum ID fornecido para exclusão")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	index := indexRowsByID(rows)

	var physicalRows []int
	var notFound []string
	for _, id := range req.IDs {
		i, ok := index[strings.TrimSpace(id)]
		if !ok {
			notFound = append(notFound, id)
			continue
		}
		physicalRows = append(physicalRows, i+models.DataStartRow)
	}

	if len(physicalRows) == 0 {
		return &dto.BatchDeleteResponse{NotFound: notFound},
			appErrors.Clone(appErrors.ErrNotFound, "nenhuma contestação encontrada com os IDs fornecidos")
	}

	start := time.Now()
	if err := s.repo.DeleteRows(ctx, physicalRows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRowStore.Code, appErrors.ErrRowStore.Status, "falha ao remover contestações em lote")
	}
	if s.metrics != nil {
		s.metrics.ObserveStoreCall("batch_delete_disputes", time.Since(start))
	}

	s.invalidateDashboard(ctx)
	s.logger.Info("disputes batch deleted",
		zap.Int("deleted", len(physicalRows)),
		zap.Int("notFound", len(notFound)))

	return &dto.BatchDeleteResponse{DeletedCount: len(physicalRows), NotFound: notFound}, nil
}

// locate resolves a dispute's physical row from a fresh snapshot. A rowIndex
// hint is honored only when the ID at that position still matches, so stale
// hints from concurrent edits fall back to the ID search.
func (s *DisputeService) locate(ctx context.Context, id string, hint *int) (int, error) {
	rows, err := s.snapshot(ctx)
	if err != nil {
		return 0, err
	}

	if hint != nil && *hint >= 0 && *hint < len(rows) {
		if models.Cell(rows[*hint], models.ColID) == id {
			return *hint + models.DataStartRow, nil
		}
		s.logger.Warn("stale rowIndex hint, falling back to ID search",
			zap.String("id", id), zap.Int("rowIndex", *hint))
	}

	for i, row := range rows {
		if models.Cell(row, models.ColID) == id {
			return i + models.DataStartRow, nil
		}
	}
	return 0, appErrors.Clone(appErrors.ErrNotFound, "contestação não encontrada")
}

func (s *DisputeService) snapshot(ctx context.Context) ([][]string, error) {
	start := time.Now()
	rows, err := s.repo.ListRows(ctx)
	if s.metrics != nil {
		s.metrics.ObserveStoreCall("snapshot_disputes", time.Since(start))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRowStore.Code, appErrors.ErrRowStore.Status, "falha ao ler dados da planilha")
	}
	return rows, nil
}

func (s *DisputeService) invalidateDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, DashboardCachePattern); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

func indexRowsByID(rows [][]string) map[string]int {
	index := make(map[string]int, len(rows))
	for i, row := range rows {
		id := models.Cell(row, models.ColID)
		if id == "" {
			continue
		}
		if _, exists := index[id]; !exists {
			index[id] = i
		}
	}
	return index
}

func isBlankDispute(d models.Dispute) bool {
	return strings.TrimSpace(d.ID) == "" &&
		strings.TrimSpace(d.NumeroPedido) == "" &&
		strings.TrimSpace(d.Restaurante) == ""
}
