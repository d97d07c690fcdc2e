package services

import (
	"context"
	"testing"

	"github.com/TekNegr/Projet-Ecommerce/app/models"
	"github.com/TekNegr/Projet-Ecommerce/app/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCartItemRepo struct {
	getByCartAndProductFn func(ctx context.Context, cartID, productID string) (*models.CartItem, error)
	added                 []*models.CartItem
	updated               []*models.CartItem
	deleted               []string
}

func (f *fakeCartItemRepo) GetByCartAndProduct(ctx context.Context, cartID, productID string) (*models.CartItem, error) {
	if f.getByCartAndProductFn == nil {
		return nil, nil
	}
	return f.getByCartAndProductFn(ctx, cartID, productID)
}

func (f *fakeCartItemRepo) Add(ctx context.Context, item *models.CartItem) error {
	f.added = append(f.added, item)
	return nil
}

func (f *fakeCartItemRepo) Update(ctx context.Context, item *models.CartItem) error {
	f.updated = append(f.updated, item)
	return nil
}

func (f *fakeCartItemRepo) Delete(ctx context.Context, cartID, productID string) error {
	f.deleted = append(f.deleted, productID)
	return nil
}

type cartFixture struct {
	svc          *CartService
	cartRepo     *fakeCartRepo
	cartItemRepo *fakeCartItemRepo
	productRepo  *fakeProductRepo
}

func newCartFixture() *cartFixture {
	f := &cartFixture{
		cartRepo:     &fakeCartRepo{},
		cartItemRepo: &fakeCartItemRepo{},
		productRepo:  &fakeProductRepo{},
	}
	f.cartRepo.getCartWithItemsFn = func(ctx context.Context, cartID string) (*models.Cart, error) {
		return &models.Cart{ID: cartID}, nil
	}
	f.svc = NewCartService(f.cartRepo, f.cartItemRepo, f.productRepo)
	return f
}

func activeProduct(stock int) *models.Product {
	return &models.Product{
		ID:     "p1",
		UserID: "seller-1",
		Name:   "Paperback",
		Price:  dec("10"),
		Stock:  stock,
		Status: models.ProductStatusActive,
	}
}

func TestAddItemNewLine(t *testing.T) {
	f := newCartFixture()
	f.productRepo.getByIDFn = func(ctx context.Context, id string) (*models.Product, error) {
		return activeProduct(5), nil
	}

	_, err := f.svc.AddItem(context.Background(), "cart-1", "p1", 2)

	require.NoError(t, err)
	require.Len(t, f.cartItemRepo.added, 1)
	item := f.cartItemRepo.added[0]
	assert.Equal(t, 2, item.Qty)
	assert.True(t, dec("10").Equal(item.BasePrice))
	assert.True(t, dec("20").Equal(item.Subtotal))
}

func TestAddItemAccumulatesQty(t *testing.T) {
	f := newCartFixture()
	f.productRepo.getByIDFn = func(ctx context.Context, id string) (*models.Product, error) {
		return activeProduct(5), nil
	}
	f.cartItemRepo.getByCartAndProductFn = func(ctx context.Context, cartID, productID string) (*models.CartItem, error) {
		return &models.CartItem{CartID: cartID, ProductID: productID, Qty: 2, BasePrice: dec("10")}, nil
	}

	_, err := f.svc.AddItem(context.Background(), "cart-1", "p1", 3)

	require.NoError(t, err)
	require.Len(t, f.cartItemRepo.updated, 1)
	item := f.cartItemRepo.updated[0]
	assert.Equal(t, 5, item.Qty)
	assert.True(t, dec("50").Equal(item.Subtotal))
}

func TestAddItemStockCheckCountsExistingQty(t *testing.T) {
	f := newCartFixture()
	f.productRepo.getByIDFn = func(ctx context.Context, id string) (*models.Product, error) {
		return activeProduct(4), nil
	}
	f.cartItemRepo.getByCartAndProductFn = func(ctx context.Context, cartID, productID string) (*models.CartItem, error) {
		return &models.CartItem{CartID: cartID, ProductID: productID, Qty: 2}, nil
	}

	_, err := f.svc.AddItem(context.Background(), "cart-1", "p1", 3)

	assert.ErrorIs(t, err, repositories.ErrInsufficientStock)
	assert.Empty(t, f.cartItemRepo.updated)
}

func TestAddItemInactiveProduct(t *testing.T) {
	f := newCartFixture()
	f.productRepo.getByIDFn = func(ctx context.Context, id string) (*models.Product, error) {
		product := activeProduct(5)
		product.Status = models.ProductStatusInactive
		return product, nil
	}

	_, err := f.svc.AddItem(context.Background(), "cart-1", "p1", 1)
	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestAddItemUnknownProduct(t *testing.T) {
	f := newCartFixture()

	_, err := f.svc.AddItem(context.Background(), "cart-1", "ghost", 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestUpdateItemQtyZeroRemoves(t *testing.T) {
	f := newCartFixture()

	_, err := f.svc.UpdateItemQty(context.Background(), "cart-1", "p1", 0)

	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, f.cartItemRepo.deleted)
}

func TestUpdateItemQtyRepricesLine(t *testing.T) {
	f := newCartFixture()
	f.productRepo.getByIDFn = func(ctx context.Context, id string) (*models.Product, error) {
		return activeProduct(10), nil
	}
	f.cartItemRepo.getByCartAndProductFn = func(ctx context.Context, cartID, productID string) (*models.CartItem, error) {
		return &models.CartItem{CartID: cartID, ProductID: productID, Qty: 1, BasePrice: dec("9")}, nil
	}

	_, err := f.svc.UpdateItemQty(context.Background(), "cart-1", "p1", 4)

	require.NoError(t, err)
	require.Len(t, f.cartItemRepo.updated, 1)
	item := f.cartItemRepo.updated[0]
	assert.Equal(t, 4, item.Qty)
	assert.True(t, dec("10").Equal(item.BasePrice))
	assert.True(t, dec("40").Equal(item.Subtotal))
}

func TestUpdateItemQtyMissingLine(t *testing.T) {
	f := newCartFixture()

	_, err := f.svc.UpdateItemQty(context.Background(), "cart-1", "p1", 2)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}
