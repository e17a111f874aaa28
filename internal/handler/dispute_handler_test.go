package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodedono/contestacoes-api/internal/dto"
	"github.com/bodedono/contestacoes-api/internal/models"
	appErrors "github.com/bodedono/contestacoes-api/pkg/errors"
)

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type fakeDisputeSrv struct {
	disputes    []models.Dispute
	created     *models.Dispute
	batchUpdate *dto.BatchUpdateResponse
	batchDelete *dto.BatchDeleteResponse
	err         error

	lastCreate  dto.CreateDisputeRequest
	lastUpdate  dto.UpdateDisputeRequest
	lastDelete  string
	lastBatchUp dto.BatchUpdateRequest
}

func (f *fakeDisputeSrv) List(context.Context) ([]models.Dispute, error) {
	return f.disputes, f.err
}

func (f *fakeDisputeSrv) Create(_ context.Context, req dto.CreateDisputeRequest) (*models.Dispute, error) {
	f.lastCreate = req
	return f.created, f.err
}

func (f *fakeDisputeSrv) Update(_ context.Context, req dto.UpdateDisputeRequest) error {
	f.lastUpdate = req
	return f.err
}

func (f *fakeDisputeSrv) Delete(_ context.Context, id string) error {
	f.lastDelete = id
	return f.err
}

func (f *fakeDisputeSrv) BatchUpdate(_ context.Context, req dto.BatchUpdateRequest) (*dto.BatchUpdateResponse, error) {
	f.lastBatchUp = req
	return f.batchUpdate, f.err
}

func (f *fakeDisputeSrv) BatchDelete(context.Context, dto.BatchDeleteRequest) (*dto.BatchDeleteResponse, error) {
	return f.batchDelete, f.err
}

func jsonRequest(method, target string, payload interface{}) *http.Request {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestDisputeHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDisputeHandler(&fakeDisputeSrv{disputes: []models.Dispute{
		{ID: "1", NumeroPedido: "123", Restaurante: "Bode do Nô Olinda"},
	}})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/contestacoes", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, float64(1), envelope.Meta["total"])

	var disputes []models.Dispute
	require.NoError(t, json.Unmarshal(envelope.Data, &disputes))
	require.Len(t, disputes, 1)
	assert.Equal(t, "123", disputes[0].NumeroPedido)
}

func TestDisputeHandlerListError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDisputeHandler(&fakeDisputeSrv{err: appErrors.ErrRowStore})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/contestacoes", nil)

	handler.List(c)

	assert.Equal(t, appErrors.ErrRowStore.Status, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrRowStore.Code, envelope.Error.Code)
}

func TestDisputeHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDisputeSrv{created: &models.Dispute{ID: "9", NumeroPedido: "123"}}
	handler := NewDisputeHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = jsonRequest(http.MethodPost, "/contestacoes", dto.CreateDisputeRequest{
		NumeroPedido: "123",
		Restaurante:  "Bode do Nô Olinda",
		Valor:        45.9,
	})

	handler.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "123", srv.lastCreate.NumeroPedido)
	assert.InDelta(t, 45.9, srv.lastCreate.Valor, 0.001)
}

func TestDisputeHandlerCreateBadBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDisputeHandler(&fakeDisputeSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/contestacoes", bytes.NewReader([]byte("{nope")))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDisputeHandlerUpdate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDisputeSrv{}
	handler := NewDisputeHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = jsonRequest(http.MethodPut, "/contestacoes", dto.UpdateDisputeRequest{
		ID:     "7",
		Status: models.StatusFinalizado,
	})

	handler.Update(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "7", srv.lastUpdate.ID)
	assert.Equal(t, models.StatusFinalizado, srv.lastUpdate.Status)
}

func TestDisputeHandlerDeleteRequiresID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDisputeHandler(&fakeDisputeSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/contestacoes", nil)

	handler.Delete(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDisputeHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDisputeSrv{}
	handler := NewDisputeHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/contestacoes?id=4", nil)

	handler.Delete(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "4", srv.lastDelete)
}

func TestDisputeHandlerBatchUpdatePartialNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDisputeSrv{batchUpdate: &dto.BatchUpdateResponse{UpdatedCount: 2, NotFound: []string{"42"}}}
	handler := NewDisputeHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = jsonRequest(http.MethodPost, "/contestacoes/batch-update", dto.BatchUpdateRequest{
		IDs:     []string{"1", "2", "42"},
		Updates: dto.BatchDisputeChanges{Status: models.StatusFinalizado},
	})

	handler.BatchUpdate(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	var result dto.BatchUpdateResponse
	require.NoError(t, json.Unmarshal(envelope.Data, &result))
	assert.Equal(t, 2, result.UpdatedCount)
	assert.Equal(t, []string{"42"}, result.NotFound)
}

func TestDisputeHandlerBatchUpdateAllMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDisputeSrv{
		batchUpdate: &dto.BatchUpdateResponse{NotFound: []string{"42"}},
		err:         appErrors.Clone(appErrors.ErrNotFound, "nenhuma contestação encontrada com os IDs fornecidos"),
	}
	handler := NewDisputeHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = jsonRequest(http.MethodPost, "/contestacoes/batch-update", dto.BatchUpdateRequest{IDs: []string{"42"}})

	handler.BatchUpdate(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)

	var result dto.BatchUpdateResponse
	require.NoError(t, json.Unmarshal(envelope.Data, &result))
	assert.Equal(t, []string{"42"}, result.NotFound)
}
