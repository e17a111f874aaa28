package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/bodedono/contestacoes-api/internal/models"
	appErrors "github.com/bodedono/contestacoes-api/pkg/errors"
)

type fakeImportSrv struct {
	summary    *models.ImportSummary
	err        error
	lastOrders []models.ImportedOrder
}

func (f *fakeImportSrv) Import(_ context.Context, orders []models.ImportedOrder) (*models.ImportSummary, error) {
	f.lastOrders = orders
	return f.summary, f.err
}

func reportUpload(t *testing.T, rows [][]interface{}) (*bytes.Buffer, string) {
	t.Helper()
	wb := excelize.NewFile()
	defer wb.Close()
	sheet := wb.GetSheetName(0)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow(sheet, cellRef, &row))
	}
	content, err := wb.WriteToBuffer()
	require.NoError(t, err)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "relatorio.xlsx")
	require.NoError(t, err)
	_, err = part.Write(content.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestImportHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeImportSrv{summary: &models.ImportSummary{TotalLinhas: 1, PedidosImportados: 1}}
	handler := NewImportHandler(srv, 0)

	body, contentType := reportUpload(t, [][]interface{}{
		{"ID CURTO DO PEDIDO", "NOME DA LOJA", "STATUS FINAL DO PEDIDO"},
		{"123", "Bode do Nô Olinda", "CANCELADO"},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/importacao", body)
	c.Request.Header.Set("Content-Type", contentType)

	handler.Import(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, srv.lastOrders, 1)
	assert.Equal(t, "123", srv.lastOrders[0].NumeroPedido)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	var summary models.ImportSummary
	require.NoError(t, json.Unmarshal(envelope.Data, &summary))
	assert.Equal(t, 1, summary.PedidosImportados)
}

func TestImportHandlerMissingFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewImportHandler(&fakeImportSrv{}, 0)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/importacao", nil)

	handler.Import(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportHandlerFileTooLarge(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeImportSrv{}
	handler := NewImportHandler(srv, 10)

	body, contentType := reportUpload(t, [][]interface{}{
		{"ID CURTO DO PEDIDO", "NOME DA LOJA", "STATUS FINAL DO PEDIDO"},
		{"123", "Bode do Nô Olinda", "CANCELADO"},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/importacao", body)
	c.Request.Header.Set("Content-Type", contentType)

	handler.Import(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, srv.lastOrders)
}

func TestImportHandlerNotASpreadsheet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewImportHandler(&fakeImportSrv{}, 0)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "relatorio.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("numeroPedido;restaurante\n1;Bode"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/importacao", body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())

	handler.Import(c)

	assert.Equal(t, appErrors.ErrEmptyFile.Status, rec.Code)
}

func TestImportHandlerLocked(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewImportHandler(&fakeImportSrv{
		err: appErrors.Clone(appErrors.ErrImportLocked, "outra importação ou operação de escrita em andamento"),
	}, 0)

	body, contentType := reportUpload(t, [][]interface{}{
		{"ID CURTO DO PEDIDO", "NOME DA LOJA", "STATUS FINAL DO PEDIDO"},
		{"123", "Bode do Nô Olinda", "CANCELADO"},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/importacao", body)
	c.Request.Header.Set("Content-Type", contentType)

	handler.Import(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
}
