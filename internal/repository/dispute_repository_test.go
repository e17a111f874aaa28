package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodedono/contestacoes-api/internal/models"
	"github.com/bodedono/contestacoes-api/pkg/sheets"
)

type fakeRowStore struct {
	values       [][]string
	valuesRange  string
	updateRanges []string
	updateValues [][][]string
	appended     [][]string
	batch        []sheets.ValueRange
	cleared      []string
	deleted      []int
	lastRow      int
}

func (f *fakeRowStore) Values(_ context.Context, rangeSpec string) ([][]string, error) {
	f.valuesRange = rangeSpec
	return f.values, nil
}

func (f *fakeRowStore) UpdateRange(_ context.Context, rangeSpec string, values [][]string) error {
	f.updateRanges = append(f.updateRanges, rangeSpec)
	f.updateValues = append(f.updateValues, values)
	return nil
}

func (f *fakeRowStore) Append(_ context.Context, _ string, values [][]string) error {
	f.appended = append(f.appended, values...)
	return nil
}

func (f *fakeRowStore) BatchUpdate(_ context.Context, updates []sheets.ValueRange) error {
	f.batch = append(f.batch, updates...)
	return nil
}

func (f *fakeRowStore) Clear(_ context.Context, rangeSpec string) error {
	f.cleared = append(f.cleared, rangeSpec)
	return nil
}

func (f *fakeRowStore) LastRow(_ context.Context, _ string) (int, error) {
	return f.lastRow, nil
}

func (f *fakeRowStore) DeleteRows(_ context.Context, _ string, rowNumbers []int) error {
	f.deleted = append(f.deleted, rowNumbers...)
	return nil
}

func TestDisputeRepositoryList(t *testing.T) {
	store := &fakeRowStore{values: [][]string{
		{"1", "01/08/2026", "1234", "Bode do Nô Olinda", "Cliente cancelou", "", "R$ 45,90", "AGUARDANDO"},
		{},
		{"2", "02/08/2026", "987", "Burguer do Nô Rio Mar", "Atraso", "", "R$ 80,00", "FINALIZADO", "02/08/2026", "Reembolso automático iFood", "R$ 80,00"},
	}}
	repo := NewDisputeRepository(store, "Contestações iFood")

	disputes, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, disputes, 3)

	assert.Equal(t, "'Contestações iFood'!A3:O", store.valuesRange)

	assert.Equal(t, "1", disputes[0].ID)
	assert.Equal(t, 3, disputes[0].PhysicalRow())
	assert.Equal(t, 45.90, disputes[0].Valor)

	// Blank rows stay in place so positions keep lining up.
	assert.Equal(t, "", disputes[1].ID)
	assert.Equal(t, 4, disputes[1].PhysicalRow())

	assert.Equal(t, models.StatusFinalizado, disputes[2].Status)
	assert.Equal(t, 80.0, disputes[2].ValorRecuperado)
	assert.Equal(t, 5, disputes[2].PhysicalRow())
}

func TestDisputeRepositoryUpdateStatusBlocks(t *testing.T) {
	store := &fakeRowStore{}
	repo := NewDisputeRepository(store, "Contestações iFood")

	err := repo.UpdateStatusBlocks(context.Background(), []models.StatusBlock{
		{
			PhysicalRow:     7,
			Status:          models.StatusFinalizado,
			DataResolucao:   "15/08/2026",
			Resultado:       "Reembolso automático iFood",
			ValorRecuperado: "R$ 32,50",
			Observacoes:     "Contestavel: SIM. Atualizado via importacao.",
		},
	})
	require.NoError(t, err)

	require.Len(t, store.batch, 1)
	assert.Equal(t, "'Contestações iFood'!H7:L7", store.batch[0].Range)
	assert.Equal(t, [][]string{{
		"FINALIZADO", "15/08/2026", "Reembolso automático iFood", "R$ 32,50",
		"Contestavel: SIM. Atualizado via importacao.",
	}}, store.batch[0].Values)
}

func TestDisputeRepositoryUpdateStatusBlocksEmpty(t *testing.T) {
	store := &fakeRowStore{}
	repo := NewDisputeRepository(store, "Contestações iFood")

	require.NoError(t, repo.UpdateStatusBlocks(context.Background(), nil))
	assert.Empty(t, store.batch)
}

func TestDisputeRepositoryUpdateRestaurantCells(t *testing.T) {
	store := &fakeRowStore{}
	repo := NewDisputeRepository(store, "Contestações iFood")

	err := repo.UpdateRestaurantCells(context.Background(), []models.RestaurantCell{
		{PhysicalRow: 5, Value: "Bode do Nô Afogados"},
		{PhysicalRow: 12, Value: "Italianô Pizzas Olinda"},
	})
	require.NoError(t, err)

	require.Len(t, store.batch, 2)
	assert.Equal(t, "'Contestações iFood'!D5", store.batch[0].Range)
	assert.Equal(t, [][]string{{"Bode do Nô Afogados"}}, store.batch[0].Values)
	assert.Equal(t, "'Contestações iFood'!D12", store.batch[1].Range)
}

func TestDisputeRepositoryClearRow(t *testing.T) {
	store := &fakeRowStore{}
	repo := NewDisputeRepository(store, "Contestações iFood")

	require.NoError(t, repo.ClearRow(context.Background(), 9))
	assert.Equal(t, []string{"'Contestações iFood'!A9:O9"}, store.cleared)
}

func TestDisputeRepositoryUpdateRow(t *testing.T) {
	store := &fakeRowStore{}
	repo := NewDisputeRepository(store, "Contestações iFood")

	row := make([]string, models.ColumnCount)
	row[models.ColID] = "4"
	require.NoError(t, repo.UpdateRow(context.Background(), 6, row))

	require.Len(t, store.updateRanges, 1)
	assert.Equal(t, "'Contestações iFood'!A6:O6", store.updateRanges[0])
	assert.Equal(t, [][]string{row}, store.updateValues[0])
}

func TestDisputeRepositoryAppendEmpty(t *testing.T) {
	store := &fakeRowStore{}
	repo := NewDisputeRepository(store, "Contestações iFood")

	require.NoError(t, repo.Append(context.Background(), nil))
	assert.Empty(t, store.appended)
}
