package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mercadito/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProductHandler_GetAll(t *testing.T) {
	catalog := new(MockCatalogService)
	h := NewProductHandler(catalog, zerolog.Nop())

	products := []model.Product{
		{ID: "p1", Name: "Camiseta azul", Price: model.MXN(100)},
		{ID: "p2", Name: "Pantalón negro", Price: model.MXN(200)},
	}
	catalog.On("GetAll", mock.Anything, 5, 10).Return(products, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/products?limit=5&offset=10", nil)
	w := httptest.NewRecorder()

	h.GetAll(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got []model.Product
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Len(t, got, 2)
	catalog.AssertExpectations(t)
}

func TestProductHandler_GetAll_MethodNotAllowed(t *testing.T) {
	catalog := new(MockCatalogService)
	h := NewProductHandler(catalog, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
	w := httptest.NewRecorder()

	h.GetAll(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestProductHandler_GetByID(t *testing.T) {
	catalog := new(MockCatalogService)
	h := NewProductHandler(catalog, zerolog.Nop())

	catalog.On("GetProduct", mock.Anything, "p1").
		Return(&model.ProductSummary{ID: "p1", Name: "Camiseta azul", Price: model.MXN(100), Stock: 5}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/products/p1", nil)
	w := httptest.NewRecorder()

	h.GetByID(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got model.ProductSummary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "p1", got.ID)
	assert.Equal(t, 5, got.Stock)
}

func TestProductHandler_GetByID_NotFound(t *testing.T) {
	catalog := new(MockCatalogService)
	h := NewProductHandler(catalog, zerolog.Nop())

	catalog.On("GetProduct", mock.Anything, "missing").
		Return(nil, model.NotFound("product missing not found"))

	req := httptest.NewRequest(http.MethodGet, "/api/products/missing", nil)
	w := httptest.NewRecorder()

	h.GetByID(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, model.ErrCodeNotFound, resp.Error)
}
