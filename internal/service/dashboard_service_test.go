package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodedono/contestacoes-api/internal/dto"
	appErrors "github.com/bodedono/contestacoes-api/pkg/errors"
)

func dashboardRow(id, data, pedido, restaurante, motivo, valor, recuperado string) []string {
	return []string{id, data, pedido, restaurante, motivo, "", valor, "AGUARDANDO", "", "", recuperado, "", "", "", ""}
}

func newDashboardService(repo *disputeRepoStub, now time.Time) *DashboardService {
	svc := NewDashboardService(repo, nil, nil, nil, 0)
	svc.now = func() time.Time { return now }
	return svc
}

func TestDashboardBuildFilteredWindow(t *testing.T) {
	repo := &disputeRepoStub{
		rows: [][]string{
			dashboardRow("1", "02/08/2026", "100", "Bode do Nô Olinda", "Pedido errado", "R$ 100,00", "R$ 40,00"),
			dashboardRow("2", "05/08/2026", "101", "Bode do Nô Afogados", "Pedido errado", "R$ 50,00", "R$ 0,00"),
			// Previous period.
			dashboardRow("3", "25/07/2026", "102", "Bode do Nô Olinda", "Atraso", "R$ 100,00", "R$ 100,00"),
			// Outside both windows.
			dashboardRow("4", "01/06/2026", "103", "Bode do Nô Olinda", "Atraso", "R$ 999,00", "R$ 0,00"),
			// Unparseable date never counts anywhere.
			dashboardRow("5", "", "104", "Bode do Nô Olinda", "Atraso", "R$ 999,00", "R$ 0,00"),
		},
	}
	svc := newDashboardService(repo, time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC))

	resp, cacheHit, err := svc.Build(context.Background(), dto.DashboardQuery{DataInicio: "2026-08-01", DataFim: "2026-08-10"})
	require.NoError(t, err)
	assert.False(t, cacheHit)

	assert.Equal(t, 2, resp.Total)
	assert.InDelta(t, 150, resp.ValorTotal, 0.001)
	assert.InDelta(t, 40, resp.ValorRecuperado, 0.001)
	assert.InDelta(t, 110, resp.ValorPerdido, 0.001)
	assert.InDelta(t, 26.667, resp.RecoveryRate, 0.01)
	assert.InDelta(t, 75, resp.TicketMedio, 0.001)

	require.NotNil(t, resp.PeriodoAnterior)
	assert.Equal(t, 1, resp.PeriodoAnterior.Total)
	assert.InDelta(t, 100, resp.PeriodoAnterior.ValorTotal, 0.001)

	require.NotNil(t, resp.Variacoes.Total)
	assert.InDelta(t, 100, *resp.Variacoes.Total, 0.001)
	require.NotNil(t, resp.Variacoes.ValorTotal)
	assert.InDelta(t, 50, *resp.Variacoes.ValorTotal, 0.001)
	require.NotNil(t, resp.Variacoes.ValorRecuperado)
	assert.InDelta(t, -60, *resp.Variacoes.ValorRecuperado, 0.001)
	require.NotNil(t, resp.Variacoes.TicketMedio)
	assert.InDelta(t, -25, *resp.Variacoes.TicketMedio, 0.001)
}

func TestDashboardBuildUnfiltered(t *testing.T) {
	repo := &disputeRepoStub{
		rows: [][]string{
			// Inside the trailing comparison window.
			dashboardRow("1", "20/08/2026", "100", "Bode do Nô Olinda", "Pedido errado", "R$ 80,00", "R$ 0,00"),
			// Before the window: counts in the totals, feeds the previous period.
			dashboardRow("2", "10/07/2026", "101", "Bode do Nô Olinda", "Atraso", "R$ 20,00", "R$ 20,00"),
		},
	}
	svc := newDashboardService(repo, time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC))

	resp, cacheHit, err := svc.Build(context.Background(), dto.DashboardQuery{})
	require.NoError(t, err)
	assert.False(t, cacheHit)

	// Totals cover everything ever recorded.
	assert.Equal(t, 2, resp.Total)
	assert.InDelta(t, 100, resp.ValorTotal, 0.001)

	// Variation compares the trailing window against the thirty days before.
	require.NotNil(t, resp.PeriodoAnterior)
	assert.Equal(t, 1, resp.PeriodoAnterior.Total)
	require.NotNil(t, resp.Variacoes.Total)
	assert.InDelta(t, 0, *resp.Variacoes.Total, 0.001)
}

func TestDashboardBuildRollups(t *testing.T) {
	repo := &disputeRepoStub{
		rows: [][]string{
			dashboardRow("1", "02/08/2026", "100", "Bode do Nô Olinda", "Pedido errado", "R$ 10,00", "R$ 0,00"),
			dashboardRow("2", "03/08/2026", "101", "Bode do Nô Olinda", "Pedido errado", "R$ 20,00", "R$ 5,00"),
			dashboardRow("3", "04/08/2026", "102", "Italianô Pizzas Guararapes", "Atraso", "R$ 30,00", "R$ 0,00"),
			// "Outros" never makes the reason ranking.
			dashboardRow("4", "05/08/2026", "103", "Burguer do Nô Rio Mar", "Outros", "R$ 40,00", "R$ 0,00"),
		},
	}
	svc := newDashboardService(repo, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC))

	resp, cacheHit, err := svc.Build(context.Background(), dto.DashboardQuery{DataInicio: "2026-08-01", DataFim: "2026-08-10"})
	require.NoError(t, err)
	assert.False(t, cacheHit)

	require.Len(t, resp.Restaurantes, 3)
	// Sorted by brand, then branch name.
	assert.Equal(t, "Bode do Nô Olinda", resp.Restaurantes[0].Nome)
	assert.Equal(t, "Bode do Nô", resp.Restaurantes[0].Marca)
	assert.Equal(t, 2, resp.Restaurantes[0].Qtd)
	assert.InDelta(t, 30, resp.Restaurantes[0].Valor, 0.001)
	assert.InDelta(t, 5, resp.Restaurantes[0].Recuperado, 0.001)
	assert.Equal(t, "Burguer do Nô Rio Mar", resp.Restaurantes[1].Nome)
	assert.Equal(t, "Italianô Pizzas Guararapes", resp.Restaurantes[2].Nome)

	require.NotEmpty(t, resp.TopRestaurantes)
	assert.Equal(t, "Bode do Nô Olinda", resp.TopRestaurantes[0].Nome)
	assert.Equal(t, 2, resp.TopRestaurantes[0].Qtd)

	require.Len(t, resp.TopMotivos, 2)
	assert.Equal(t, "Pedido errado", resp.TopMotivos[0].Nome)
	assert.Equal(t, 2, resp.TopMotivos[0].Qtd)
	assert.Equal(t, "Atraso", resp.TopMotivos[1].Nome)
}

type cacheRepoStub struct {
	entries map[string][]byte
}

func (s *cacheRepoStub) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := s.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *cacheRepoStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if s.entries == nil {
		s.entries = map[string][]byte{}
	}
	s.entries[key] = raw
	return nil
}

func (s *cacheRepoStub) DeleteByPattern(ctx context.Context, pattern string) error {
	for key := range s.entries {
		delete(s.entries, key)
	}
	return nil
}

func TestDashboardBuildCacheRoundTrip(t *testing.T) {
	repo := &disputeRepoStub{
		rows: [][]string{
			dashboardRow("1", "02/08/2026", "100", "Bode do Nô Olinda", "Pedido errado", "R$ 10,00", "R$ 0,00"),
		},
	}
	cache := NewCacheService(&cacheRepoStub{}, nil, time.Minute, nil, true)
	svc := NewDashboardService(repo, cache, nil, nil, time.Minute)
	svc.now = func() time.Time { return time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC) }
	query := dto.DashboardQuery{DataInicio: "2026-08-01", DataFim: "2026-08-10"}

	first, cacheHit, err := svc.Build(context.Background(), query)
	require.NoError(t, err)
	assert.False(t, cacheHit)

	second, cacheHit, err := svc.Build(context.Background(), query)
	require.NoError(t, err)
	assert.True(t, cacheHit)
	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, 1, repo.listCalls, "second build served from cache")
}

func TestDashboardBuildInvalidDate(t *testing.T) {
	svc := newDashboardService(&disputeRepoStub{}, time.Now())

	_, _, err := svc.Build(context.Background(), dto.DashboardQuery{DataInicio: "15/08/2026"})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestDashboardBuildStoreError(t *testing.T) {
	repo := &disputeRepoStub{err: assert.AnError}
	svc := newDashboardService(repo, time.Now())

	_, _, err := svc.Build(context.Background(), dto.DashboardQuery{})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrRowStore.Code, appErr.Code)
}
