package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodedono/contestacoes-api/internal/models"
	appErrors "github.com/bodedono/contestacoes-api/pkg/errors"
)

func newImportService(repo *disputeRepoStub, mu *sync.Mutex) *ImportService {
	return NewImportService(repo, nil, nil, nil, mu)
}

func TestImportServiceReconcile(t *testing.T) {
	// Sheet holds rows 3..5: one dispute waiting for the refund, one already
	// finalized, one blank-ish row that matches nothing.
	repo := &disputeRepoStub{
		rows: [][]string{
			{"1", "10/08/2026", "00123", "Bode do Nô (AF)", "Cliente cancelou", "", "R$ 50,00", "AGUARDANDO", "", "", "R$ 0,00", ""},
			{"2", "11/08/2026", "456", "Burguer do Nô Rio Mar", "Atraso", "", "R$ 80,00", "FINALIZADO", "11/08/2026", "Reembolso automático iFood", "R$ 80,00", ""},
			{"", "", "", ""},
		},
		lastRow: 5,
	}
	svc := newImportService(repo, &sync.Mutex{})

	orders := []models.ImportedOrder{
		{
			// Same order as row 3: leading zeros and branch spelling differ.
			NumeroPedido:       "123",
			Restaurante:        "BODE DO NÔ AFOGADOS",
			DataHora:           "12/08/2026 20:15:00",
			StatusFinal:        "cancelado",
			ValorLiquido:       50,
			MotivoNaoContestar: "Reembolso emitido",
			Contestavel:        "NÃO",
		},
		{
			// Same order as row 4: already final, nothing changes.
			NumeroPedido:       "456",
			Restaurante:        "Burguer do Nô (RM)",
			DataHora:           "12/08/2026 21:00:00",
			StatusFinal:        "CANCELADO",
			ValorLiquido:       80,
			MotivoNaoContestar: "Reembolso emitido",
			Contestavel:        "NÃO",
		},
		{
			// Unknown order: becomes a new row.
			NumeroPedido:       "789",
			Restaurante:        "Italianô Pizzas (OL)",
			DataHora:           "13/08/2026 19:30:00",
			StatusFinal:        "CANCELADO",
			ValorItens:         35.5,
			ValorLiquido:       0,
			MotivoCancelamento: "Faltou um item do combo",
			OrigemCancelamento: "RESTAURANTE",
			DataCancelamento:   "13/08/2026",
			MotivoNaoContestar: "Aguardando retorno da plataforma",
			Contestavel:        "SIM",
		},
		{
			// Delivered order: ignored.
			NumeroPedido: "999",
			Restaurante:  "Bode do Nô Olinda",
			StatusFinal:  "CONCLUIDO",
		},
	}

	summary, err := svc.Import(context.Background(), orders)
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 4, summary.TotalLinhas)
	assert.Equal(t, 3, summary.PedidosCancelados)
	assert.Equal(t, 1, summary.PedidosImportados)
	assert.Equal(t, 1, summary.PedidosAtualizados)
	assert.Equal(t, 1, summary.PedidosDuplicados)
	assert.Equal(t, 1, summary.PedidosNaoCancelados)
	assert.Equal(t, []string{"789"}, summary.Detalhes.Importados)
	assert.Equal(t, []string{"123"}, summary.Detalhes.Atualizados)
	assert.Equal(t, []string{"456"}, summary.Detalhes.Duplicados)
	assert.Equal(t, []string{"999"}, summary.Detalhes.NaoCancelados)

	// Row 3 advanced to FINALIZADO via the refund keyword.
	require.Len(t, repo.blocks, 1)
	block := repo.blocks[0]
	assert.Equal(t, 3, block.PhysicalRow)
	assert.Equal(t, models.StatusFinalizado, block.Status)
	assert.Equal(t, "12/08/2026", block.DataResolucao)
	assert.Equal(t, "Reembolso automático iFood", block.Resultado)
	assert.Equal(t, "R$ 50,00", block.ValorRecuperado)
	assert.Equal(t, "Contestavel: NÃO. Atualizado via importacao.", block.Observacoes)

	// The new order landed as one appended row with a sequential ID
	// (lastRow 5 means 3 data rows, so the next ID is 4).
	require.Len(t, repo.appended, 1)
	row := repo.appended[0]
	require.Len(t, row, models.ColumnCount)
	assert.Equal(t, "4", row[models.ColID])
	assert.Equal(t, "13/08/2026", row[models.ColDataAbertura])
	assert.Equal(t, "789", row[models.ColNumeroPedido])
	assert.Equal(t, "Italianô Pizzas Olinda", row[models.ColRestaurante])
	assert.Equal(t, "Faltou um item do combo", row[models.ColMotivo])
	assert.Equal(t, "Importado automaticamente. Aguardando retorno da plataforma", row[models.ColDescricao])
	assert.Equal(t, "R$ 35,50", row[models.ColValor])
	assert.Equal(t, "AGUARDANDO", row[models.ColStatus])
	assert.Equal(t, "", row[models.ColDataResolucao])
	assert.Equal(t, "", row[models.ColResultado])
	assert.Equal(t, "R$ 0,00", row[models.ColValorRecuperado])
	assert.Equal(t, "Contestavel: SIM", row[models.ColObservacoes])
	assert.Equal(t, "Restaurante", row[models.ColResponsavel])
	assert.Equal(t, "Falta de produto", row[models.ColMotivoEspecifico])
}

func TestImportServiceNewOrderDerivedCancelled(t *testing.T) {
	repo := &disputeRepoStub{lastRow: 2}
	svc := newImportService(repo, &sync.Mutex{})

	summary, err := svc.Import(context.Background(), []models.ImportedOrder{{
		NumeroPedido:       "55",
		Restaurante:        "Bode do Nô (GUA)",
		DataHora:           "01/08/2026 12:00:00",
		StatusFinal:        "CANCELADO",
		MotivoNaoContestar: "Sua loja cancelou o pedido",
		Contestavel:        "NÃO",
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.PedidosImportados)

	require.Len(t, repo.appended, 1)
	row := repo.appended[0]
	// Empty sheet (only headers): first ID is 2 by the lastRow-2 rule floor.
	assert.Equal(t, "2", row[models.ColID])
	assert.Equal(t, "CANCELADO", row[models.ColStatus])
	assert.Equal(t, "01/08/2026", row[models.ColDataResolucao])
	assert.Equal(t, "Sua loja cancelou o pedido", row[models.ColResultado])
	// Fallback reason when the report gives none.
	assert.Equal(t, "Cancelamento", row[models.ColMotivo])
}

func TestImportServiceRerunIsIdempotent(t *testing.T) {
	repo := &disputeRepoStub{lastRow: 2}
	mu := &sync.Mutex{}
	svc := newImportService(repo, mu)

	orders := []models.ImportedOrder{{
		NumeroPedido:       "100",
		Restaurante:        "Bode do Nô Olinda",
		DataHora:           "05/08/2026 18:00:00",
		StatusFinal:        "CANCELADO",
		ValorLiquido:       25,
		MotivoNaoContestar: "Reembolso emitido",
		Contestavel:        "NÃO",
	}}

	first, err := svc.Import(context.Background(), orders)
	require.NoError(t, err)
	assert.Equal(t, 1, first.PedidosImportados)
	require.Len(t, repo.appended, 1)

	// Second run sees the row the first run inserted.
	repo.rows = append(repo.rows, repo.appended[0])
	repo.lastRow = 3
	repo.appended = nil

	second, err := svc.Import(context.Background(), orders)
	require.NoError(t, err)
	assert.Equal(t, 0, second.PedidosImportados)
	assert.Equal(t, 0, second.PedidosAtualizados)
	assert.Equal(t, 1, second.PedidosDuplicados)
	assert.Empty(t, repo.appended)
	assert.Empty(t, repo.blocks)
}

func TestImportServiceDuplicateKeyTargetsLastRow(t *testing.T) {
	// Rows 3 and 4 resolve to the same identity key (a duplicate the sweep
	// has not cleaned yet). The import must update the later occurrence.
	repo := &disputeRepoStub{
		rows: [][]string{
			{"1", "10/08/2026", "00123", "Bode do Nô (AF)", "Cliente cancelou", "", "R$ 50,00", "AGUARDANDO", "", "", "R$ 0,00", ""},
			{"2", "10/08/2026", "123", "Bode do Nô Afogados", "Cliente cancelou", "", "R$ 50,00", "AGUARDANDO", "", "", "R$ 0,00", ""},
		},
		lastRow: 4,
	}
	svc := newImportService(repo, &sync.Mutex{})

	summary, err := svc.Import(context.Background(), []models.ImportedOrder{{
		NumeroPedido:       "123",
		Restaurante:        "BODE DO NÔ AFOGADOS",
		DataHora:           "12/08/2026 20:15:00",
		StatusFinal:        "CANCELADO",
		ValorLiquido:       50,
		MotivoNaoContestar: "Reembolso emitido",
		Contestavel:        "NÃO",
	}})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.PedidosAtualizados)
	assert.Equal(t, 0, summary.PedidosImportados)
	require.Len(t, repo.blocks, 1)
	assert.Equal(t, 4, repo.blocks[0].PhysicalRow)
	assert.Empty(t, repo.appended)
}

func TestImportServiceLocked(t *testing.T) {
	mu := &sync.Mutex{}
	svc := newImportService(&disputeRepoStub{}, mu)

	mu.Lock()
	defer mu.Unlock()

	_, err := svc.Import(context.Background(), []models.ImportedOrder{{NumeroPedido: "1", StatusFinal: "CANCELADO"}})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrImportLocked.Code, appErr.Code)
}

func TestImportServiceEmptyReport(t *testing.T) {
	svc := newImportService(&disputeRepoStub{}, &sync.Mutex{})

	_, err := svc.Import(context.Background(), nil)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrEmptyFile.Code, appErr.Code)
}
