package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vendora/backend/internal/domain/cart"
	"github.com/vendora/backend/internal/domain/catalog"
	"github.com/vendora/backend/internal/domain/shared"
)

// MockCartRepository is a mock implementation of cart.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]cart.CartItem, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*cart.CartItem, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, item *cart.CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

var (
	_ cart.CartRepository       = (*MockCartRepository)(nil)
	_ catalog.ProductRepository = (*MockProductRepository)(nil)
)

func makeProduct(t *testing.T, price float64, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("Desk", "desk", "", decimal.NewFromFloat(price), stock)
	require.NoError(t, err)
	return p
}

func TestCartServiceGet(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("returns lines with product details and totals", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductRepository)
		svc := NewCartService(carts, products)

		product := makeProduct(t, 25.00, 10)
		line, err := cart.NewCartItem(userID, product.ID, 2)
		require.NoError(t, err)

		carts.On("FindByUser", mock.Anything, userID).Return([]cart.CartItem{*line}, nil)
		products.On("FindByID", mock.Anything, product.ID).Return(product, nil)

		resp, err := svc.Get(ctx, userID)
		require.NoError(t, err)

		require.Len(t, resp.Items, 1)
		assert.Equal(t, 2, resp.ItemCount)
		assert.Equal(t, "50.00", resp.Total.StringFixed(2))
		assert.Equal(t, "Desk", resp.Items[0].ProductName)
	})

	t.Run("skips lines whose product is gone or inactive", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductRepository)
		svc := NewCartService(carts, products)

		inactive := makeProduct(t, 10, 5)
		inactive.Deactivate()
		gone, err := cart.NewCartItem(userID, uuid.New(), 1)
		require.NoError(t, err)
		stale, err := cart.NewCartItem(userID, inactive.ID, 1)
		require.NoError(t, err)

		carts.On("FindByUser", mock.Anything, userID).Return([]cart.CartItem{*gone, *stale}, nil)
		products.On("FindByID", mock.Anything, gone.ProductID).Return(nil, shared.ErrNotFound)
		products.On("FindByID", mock.Anything, inactive.ID).Return(inactive, nil)

		resp, err := svc.Get(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, resp.Items)
		assert.Equal(t, "0.00", resp.Total.StringFixed(2))
	})
}

func TestCartServiceAddItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("adds a new line", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductRepository)
		svc := NewCartService(carts, products)

		product := makeProduct(t, 10, 5)
		products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		carts.On("FindByUserAndProduct", mock.Anything, userID, product.ID).Return(nil, shared.ErrNotFound)
		carts.On("Save", mock.Anything, mock.AnythingOfType("*cart.CartItem")).Return(nil)
		carts.On("FindByUser", mock.Anything, userID).Return([]cart.CartItem{}, nil)

		_, err := svc.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 2})
		require.NoError(t, err)
		carts.AssertExpectations(t)
	})

	t.Run("increments an existing line", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductRepository)
		svc := NewCartService(carts, products)

		product := makeProduct(t, 10, 5)
		existing, err := cart.NewCartItem(userID, product.ID, 2)
		require.NoError(t, err)

		products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		carts.On("FindByUserAndProduct", mock.Anything, userID, product.ID).Return(existing, nil)
		carts.On("Save", mock.Anything, existing).Return(nil)
		carts.On("FindByUser", mock.Anything, userID).Return([]cart.CartItem{}, nil)

		_, err = svc.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 3})
		require.NoError(t, err)
		assert.Equal(t, 5, existing.Quantity)
	})

	t.Run("rejects when combined quantity exceeds stock", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductRepository)
		svc := NewCartService(carts, products)

		product := makeProduct(t, 10, 4)
		existing, err := cart.NewCartItem(userID, product.ID, 3)
		require.NoError(t, err)

		products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		carts.On("FindByUserAndProduct", mock.Anything, userID, product.ID).Return(existing, nil)

		_, err = svc.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 2})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		carts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects an inactive product", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductRepository)
		svc := NewCartService(carts, products)

		product := makeProduct(t, 10, 5)
		product.Deactivate()
		products.On("FindByID", mock.Anything, product.ID).Return(product, nil)

		_, err := svc.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 1})
		assertCartErrCode(t, err, "INVALID_STATE")
	})

	t.Run("missing product is not found", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductRepository)
		svc := NewCartService(carts, products)

		productID := uuid.New()
		products.On("FindByID", mock.Anything, productID).Return(nil, shared.ErrNotFound)

		_, err := svc.AddItem(ctx, userID, AddItemRequest{ProductID: productID, Quantity: 1})
		assertCartErrCode(t, err, "NOT_FOUND")
	})
}

func TestCartServiceUpdateItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("replaces the quantity", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductRepository)
		svc := NewCartService(carts, products)

		product := makeProduct(t, 10, 10)
		line, err := cart.NewCartItem(userID, product.ID, 1)
		require.NoError(t, err)

		carts.On("FindByUser", mock.Anything, userID).Return([]cart.CartItem{*line}, nil)
		products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		carts.On("Save", mock.Anything, mock.AnythingOfType("*cart.CartItem")).Return(nil)

		_, err = svc.UpdateItem(ctx, userID, line.ID, UpdateItemRequest{Quantity: 7})
		require.NoError(t, err)
	})

	t.Run("another user's line is not found", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductRepository)
		svc := NewCartService(carts, products)

		carts.On("FindByUser", mock.Anything, userID).Return([]cart.CartItem{}, nil)

		_, err := svc.UpdateItem(ctx, userID, uuid.New(), UpdateItemRequest{Quantity: 1})
		assertCartErrCode(t, err, "NOT_FOUND")
	})

	t.Run("rejects quantity beyond stock", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductRepository)
		svc := NewCartService(carts, products)

		product := makeProduct(t, 10, 3)
		line, err := cart.NewCartItem(userID, product.ID, 1)
		require.NoError(t, err)

		carts.On("FindByUser", mock.Anything, userID).Return([]cart.CartItem{*line}, nil)
		products.On("FindByID", mock.Anything, product.ID).Return(product, nil)

		_, err = svc.UpdateItem(ctx, userID, line.ID, UpdateItemRequest{Quantity: 5})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})
}

func TestCartServiceRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("removes an owned line", func(t *testing.T) {
		carts := new(MockCartRepository)
		svc := NewCartService(carts, new(MockProductRepository))

		line, err := cart.NewCartItem(userID, uuid.New(), 1)
		require.NoError(t, err)
		carts.On("FindByUser", mock.Anything, userID).Return([]cart.CartItem{*line}, nil)
		carts.On("Delete", mock.Anything, line.ID).Return(nil)

		require.NoError(t, svc.RemoveItem(ctx, userID, line.ID))
		carts.AssertExpectations(t)
	})

	t.Run("removing an unknown line is not found", func(t *testing.T) {
		carts := new(MockCartRepository)
		svc := NewCartService(carts, new(MockProductRepository))

		carts.On("FindByUser", mock.Anything, userID).Return([]cart.CartItem{}, nil)

		err := svc.RemoveItem(ctx, userID, uuid.New())
		assertCartErrCode(t, err, "NOT_FOUND")
		carts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("clear empties the cart", func(t *testing.T) {
		carts := new(MockCartRepository)
		svc := NewCartService(carts, new(MockProductRepository))

		carts.On("DeleteByUser", mock.Anything, userID).Return(nil)
		require.NoError(t, svc.Clear(ctx, userID))
	})
}

func TestCartItemQuantityBounds(t *testing.T) {
	userID, productID := uuid.New(), uuid.New()

	_, err := cart.NewCartItem(userID, productID, 0)
	assertCartErrCode(t, err, "INVALID_QUANTITY")

	_, err = cart.NewCartItem(userID, productID, 100)
	assertCartErrCode(t, err, "INVALID_QUANTITY")

	line, err := cart.NewCartItem(userID, productID, 99)
	require.NoError(t, err)
	err = line.IncrementQuantity(1)
	assertCartErrCode(t, err, "INVALID_QUANTITY")
}

func assertCartErrCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, code, de.Code)
}
