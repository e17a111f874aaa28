package repository

import (
	"context"
	"fmt"

	"github.com/bodedono/contestacoes-api/internal/models"
	"github.com/bodedono/contestacoes-api/pkg/sheets"
)

// RowStore is the slice of the spreadsheet client the repositories need.
type RowStore interface {
	Values(ctx context.Context, rangeSpec string) ([][]string, error)
	UpdateRange(ctx context.Context, rangeSpec string, values [][]string) error
	Append(ctx context.Context, sheetName string, values [][]string) error
	BatchUpdate(ctx context.Context, updates []sheets.ValueRange) error
	Clear(ctx context.Context, rangeSpec string) error
	LastRow(ctx context.Context, sheetName string) (int, error)
	DeleteRows(ctx context.Context, sheetName string, rowNumbers []int) error
}

// DisputeRepository persists disputes as rows of a single sheet.
type DisputeRepository struct {
	store     RowStore
	sheetName string
}

// NewDisputeRepository constructs a DisputeRepository.
func NewDisputeRepository(store RowStore, sheetName string) *DisputeRepository {
	return &DisputeRepository{store: store, sheetName: sheetName}
}

func (r *DisputeRepository) dataRange() string {
	return fmt.Sprintf("'%s'!A%d:O", r.sheetName, models.DataStartRow)
}

// ListRows returns the raw data snapshot. Blank rows are kept so index i
// still maps to physical row i + DataStartRow.
func (r *DisputeRepository) ListRows(ctx context.Context) ([][]string, error) {
	rows, err := r.store.Values(ctx, r.dataRange())
	if err != nil {
		return nil, fmt.Errorf("list dispute rows: %w", err)
	}
	return rows, nil
}

// List returns every snapshot row parsed into a Dispute, blanks included.
func (r *DisputeRepository) List(ctx context.Context) ([]models.Dispute, error) {
	rows, err := r.ListRows(ctx)
	if err != nil {
		return nil, err
	}

	disputes := make([]models.Dispute, 0, len(rows))
	for i, row := range rows {
		disputes = append(disputes, models.DisputeFromRow(row, i))
	}
	return disputes, nil
}

// LastRow reports the last populated 1-based row of the sheet.
func (r *DisputeRepository) LastRow(ctx context.Context) (int, error) {
	last, err := r.store.LastRow(ctx, r.sheetName)
	if err != nil {
		return 0, fmt.Errorf("last dispute row: %w", err)
	}
	return last, nil
}

// Append adds full A:O rows after the last populated row in one call.
func (r *DisputeRepository) Append(ctx context.Context, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	if err := r.store.Append(ctx, r.sheetName, rows); err != nil {
		return fmt.Errorf("append dispute rows: %w", err)
	}
	return nil
}

// UpdateRow overwrites one row's full A:O span.
func (r *DisputeRepository) UpdateRow(ctx context.Context, physicalRow int, row []string) error {
	rangeSpec := fmt.Sprintf("'%s'!A%d:O%d", r.sheetName, physicalRow, physicalRow)
	if err := r.store.UpdateRange(ctx, rangeSpec, [][]string{row}); err != nil {
		return fmt.Errorf("update dispute row %d: %w", physicalRow, err)
	}
	return nil
}

// UpdateStatusBlocks applies all H:L blocks in a single batch call.
func (r *DisputeRepository) UpdateStatusBlocks(ctx context.Context, blocks []models.StatusBlock) error {
	if len(blocks) == 0 {
		return nil
	}

	updates := make([]sheets.ValueRange, 0, len(blocks))
	for _, b := range blocks {
		updates = append(updates, sheets.ValueRange{
			Range: fmt.Sprintf("'%s'!H%d:L%d", r.sheetName, b.PhysicalRow, b.PhysicalRow),
			Values: [][]string{{
				string(b.Status),
				b.DataResolucao,
				b.Resultado,
				b.ValorRecuperado,
				b.Observacoes,
			}},
		})
	}

	if err := r.store.BatchUpdate(ctx, updates); err != nil {
		return fmt.Errorf("batch update status blocks: %w", err)
	}
	return nil
}

// UpdateRestaurantCells rewrites column D for the given rows in one batch.
func (r *DisputeRepository) UpdateRestaurantCells(ctx context.Context, cells []models.RestaurantCell) error {
	if len(cells) == 0 {
		return nil
	}

	updates := make([]sheets.ValueRange, 0, len(cells))
	for _, c := range cells {
		updates = append(updates, sheets.ValueRange{
			Range:  fmt.Sprintf("'%s'!D%d", r.sheetName, c.PhysicalRow),
			Values: [][]string{{c.Value}},
		})
	}

	if err := r.store.BatchUpdate(ctx, updates); err != nil {
		return fmt.Errorf("batch update restaurant cells: %w", err)
	}
	return nil
}

// ClearRow blanks a row's cells without shifting the rows below it. The
// empty-row sweep removes the leftover husk later.
func (r *DisputeRepository) ClearRow(ctx context.Context, physicalRow int) error {
	rangeSpec := fmt.Sprintf("'%s'!A%d:O%d", r.sheetName, physicalRow, physicalRow)
	if err := r.store.Clear(ctx, rangeSpec); err != nil {
		return fmt.Errorf("clear dispute row %d: %w", physicalRow, err)
	}
	return nil
}

// DeleteRows structurally removes rows, shifting everything below them up.
func (r *DisputeRepository) DeleteRows(ctx context.Context, physicalRows []int) error {
	if len(physicalRows) == 0 {
		return nil
	}
	if err := r.store.DeleteRows(ctx, r.sheetName, physicalRows); err != nil {
		return fmt.Errorf("delete dispute rows: %w", err)
	}
	return nil
}
