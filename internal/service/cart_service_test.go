package service

import (
	"context"
	"errors"
	"testing"

	"mercadito/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testSummary(id string, price float64, stock int) *model.ProductSummary {
	return &model.ProductSummary{
		ID:    id,
		Name:  "Camiseta azul",
		Price: model.MXN(price),
		Stock: stock,
		SKU:   "SKU-" + id,
	}
}

func activeCart(t *testing.T) *model.Cart {
	t.Helper()
	cart, err := model.NewCart(uuid.New(), "cust-1")
	require.NoError(t, err)
	return cart
}

func TestCartService_Create(t *testing.T) {
	cartRepo := new(MockCartRepository)
	catalog := new(MockCatalogService)
	svc := NewCartService(cartRepo, catalog, zerolog.Nop())

	cartRepo.On("Create", context.Background(), mock.AnythingOfType("*model.Cart")).Return(nil)

	cart, err := svc.Create(context.Background(), "cust-1")

	require.NoError(t, err)
	assert.Equal(t, "cust-1", cart.CustomerID)
	assert.Equal(t, model.CartStatusActive, cart.Status)
	assert.Empty(t, cart.Lines)
	cartRepo.AssertExpectations(t)
}

func TestCartService_Create_BlankCustomer(t *testing.T) {
	cartRepo := new(MockCartRepository)
	catalog := new(MockCatalogService)
	svc := NewCartService(cartRepo, catalog, zerolog.Nop())

	cart, err := svc.Create(context.Background(), "")

	require.Error(t, err)
	assert.Nil(t, cart)
	assert.True(t, model.IsInvalidArgument(err))
	cartRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCartService_AddProduct(t *testing.T) {
	cartRepo := new(MockCartRepository)
	catalog := new(MockCatalogService)
	svc := NewCartService(cartRepo, catalog, zerolog.Nop())

	cart := activeCart(t)
	cartRepo.On("GetByID", context.Background(), cart.ID).Return(cart, nil)
	catalog.On("GetProduct", context.Background(), "p1").Return(testSummary("p1", 250, 10), nil)
	catalog.On("CheckStock", context.Background(), "p1", 2).Return(nil)
	cartRepo.On("Save", context.Background(), cart).Return(nil)

	got, err := svc.AddProduct(context.Background(), cart.ID, "p1", 2)

	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "p1", got.Lines[0].ProductID)
	assert.Equal(t, 2, got.Lines[0].Quantity)
	assert.True(t, got.Lines[0].UnitPrice.Equal(model.MXN(250)))
	cartRepo.AssertExpectations(t)
	catalog.AssertExpectations(t)
}

func TestCartService_AddProduct_InsufficientStock(t *testing.T) {
	cartRepo := new(MockCartRepository)
	catalog := new(MockCatalogService)
	svc := NewCartService(cartRepo, catalog, zerolog.Nop())

	cart := activeCart(t)
	cartRepo.On("GetByID", context.Background(), cart.ID).Return(cart, nil)
	catalog.On("GetProduct", context.Background(), "p1").Return(testSummary("p1", 250, 1), nil)
	catalog.On("CheckStock", context.Background(), "p1", 5).
		Return(model.InsufficientStock("insufficient stock"))

	got, err := svc.AddProduct(context.Background(), cart.ID, "p1", 5)

	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, model.IsInsufficientStock(err))
	assert.Empty(t, cart.Lines)
	cartRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCartService_AddProduct_CartNotFound(t *testing.T) {
	cartRepo := new(MockCartRepository)
	catalog := new(MockCatalogService)
	svc := NewCartService(cartRepo, catalog, zerolog.Nop())

	id := uuid.New()
	cartRepo.On("GetByID", context.Background(), id).Return(nil, nil)

	got, err := svc.AddProduct(context.Background(), id, "p1", 1)

	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, model.IsNotFound(err))
	catalog.AssertNotCalled(t, "GetProduct", mock.Anything, mock.Anything)
}

func TestCartService_ChangeQuantity_AbsentProduct(t *testing.T) {
	cartRepo := new(MockCartRepository)
	catalog := new(MockCatalogService)
	svc := NewCartService(cartRepo, catalog, zerolog.Nop())

	cart := activeCart(t)
	cartRepo.On("GetByID", context.Background(), cart.ID).Return(cart, nil)

	got, err := svc.ChangeQuantity(context.Background(), cart.ID, "missing", 3)

	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, model.IsNotFound(err))
	cartRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCartService_RemoveProduct(t *testing.T) {
	cartRepo := new(MockCartRepository)
	catalog := new(MockCatalogService)
	svc := NewCartService(cartRepo, catalog, zerolog.Nop())

	cart := activeCart(t)
	ref := model.ProductRef{ProductID: "p1", UnitPrice: model.MXN(100)}
	require.NoError(t, cart.AddProduct(ref, 1))

	cartRepo.On("GetByID", context.Background(), cart.ID).Return(cart, nil)
	cartRepo.On("Save", context.Background(), cart).Return(nil)

	got, err := svc.RemoveProduct(context.Background(), cart.ID, "p1")

	require.NoError(t, err)
	assert.Empty(t, got.Lines)
}

func TestCartService_StartCheckout_EmptyCart(t *testing.T) {
	cartRepo := new(MockCartRepository)
	catalog := new(MockCatalogService)
	svc := NewCartService(cartRepo, catalog, zerolog.Nop())

	cart := activeCart(t)
	cartRepo.On("GetByID", context.Background(), cart.ID).Return(cart, nil)

	got, err := svc.StartCheckout(context.Background(), cart.ID)

	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, model.IsInvalidState(err))
	assert.Equal(t, model.CartStatusActive, cart.Status)
	cartRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCartService_StartCheckout(t *testing.T) {
	cartRepo := new(MockCartRepository)
	catalog := new(MockCatalogService)
	svc := NewCartService(cartRepo, catalog, zerolog.Nop())

	cart := activeCart(t)
	ref := model.ProductRef{ProductID: "p1", UnitPrice: model.MXN(100)}
	require.NoError(t, cart.AddProduct(ref, 2))

	cartRepo.On("GetByID", context.Background(), cart.ID).Return(cart, nil)
	cartRepo.On("Save", context.Background(), cart).Return(nil)

	got, err := svc.StartCheckout(context.Background(), cart.ID)

	require.NoError(t, err)
	assert.Equal(t, model.CartStatusInCheckout, got.Status)
}

func TestCartService_CompleteCheckout(t *testing.T) {
	cartRepo := new(MockCartRepository)
	catalog := new(MockCatalogService)
	svc := NewCartService(cartRepo, catalog, zerolog.Nop())

	cart := activeCart(t)
	ref := model.ProductRef{ProductID: "p1", UnitPrice: model.MXN(100)}
	require.NoError(t, cart.AddProduct(ref, 2))
	require.NoError(t, cart.StartCheckout())

	cartRepo.On("GetByID", context.Background(), cart.ID).Return(cart, nil)
	cartRepo.On("Save", context.Background(), cart).Return(nil)

	got, err := svc.CompleteCheckout(context.Background(), cart.ID)

	require.NoError(t, err)
	assert.Equal(t, model.CartStatusCompleted, got.Status)
}

func TestCartService_CompleteCheckout_RequiresCheckout(t *testing.T) {
	cartRepo := new(MockCartRepository)
	catalog := new(MockCatalogService)
	svc := NewCartService(cartRepo, catalog, zerolog.Nop())

	cart := activeCart(t)
	cartRepo.On("GetByID", context.Background(), cart.ID).Return(cart, nil)

	got, err := svc.CompleteCheckout(context.Background(), cart.ID)

	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, model.IsInvalidState(err))
	cartRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCartService_Abandon_RequiresCheckout(t *testing.T) {
	cartRepo := new(MockCartRepository)
	catalog := new(MockCatalogService)
	svc := NewCartService(cartRepo, catalog, zerolog.Nop())

	cart := activeCart(t)
	cartRepo.On("GetByID", context.Background(), cart.ID).Return(cart, nil)

	got, err := svc.Abandon(context.Background(), cart.ID)

	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, model.IsInvalidState(err))
}

func TestCartService_SaveFailure(t *testing.T) {
	cartRepo := new(MockCartRepository)
	catalog := new(MockCatalogService)
	svc := NewCartService(cartRepo, catalog, zerolog.Nop())

	cart := activeCart(t)
	ref := model.ProductRef{ProductID: "p1", UnitPrice: model.MXN(100)}
	require.NoError(t, cart.AddProduct(ref, 1))

	cartRepo.On("GetByID", context.Background(), cart.ID).Return(cart, nil)
	cartRepo.On("Save", context.Background(), cart).Return(errors.New("connection refused"))

	got, err := svc.Clear(context.Background(), cart.ID)

	require.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "failed to save cart")
}
