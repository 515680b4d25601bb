package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendora/backend/internal/domain/cart"
	"github.com/vendora/backend/internal/domain/catalog"
	"github.com/vendora/backend/internal/domain/shared"
)

// CartService handles shopping cart operations
type CartService struct {
	cartRepo    cart.CartRepository
	productRepo catalog.ProductRepository
}

// NewCartService creates a new CartService
func NewCartService(cartRepo cart.CartRepository, productRepo catalog.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Get returns the user's cart with product details and totals.
// Lines whose product has been removed or deactivated are skipped.
func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	items, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := &CartResponse{
		Items: make([]CartItemResponse, 0, len(items)),
		Total: decimal.Zero,
	}
	for i := range items {
		product, err := s.productRepo.FindByID(ctx, items[i].ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if !product.IsActive() {
			continue
		}
		line := ToCartItemResponse(&items[i], product)
		response.Items = append(response.Items, line)
		response.ItemCount += line.Quantity
		response.Total = response.Total.Add(line.Subtotal)
	}
	return response, nil
}

// AddItem puts a product in the cart. Adding a product already in the
// cart increments the existing line's quantity.
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
		}
		return nil, err
	}
	if !product.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Product is not available")
	}

	existing, err := s.cartRepo.FindByUserAndProduct(ctx, userID, req.ProductID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	var line *cart.CartItem
	if existing != nil {
		if err := existing.IncrementQuantity(req.Quantity); err != nil {
			return nil, err
		}
		line = existing
	} else {
		line, err = cart.NewCartItem(userID, req.ProductID, req.Quantity)
		if err != nil {
			return nil, err
		}
	}

	if !product.HasStock(line.Quantity) {
		return nil, shared.ErrInsufficientStock
	}

	if err := s.cartRepo.Save(ctx, line); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// UpdateItem replaces the quantity of one of the caller's cart lines
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req UpdateItemRequest) (*CartResponse, error) {
	items, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var line *cart.CartItem
	for i := range items {
		if items[i].ID == itemID {
			line = &items[i]
			break
		}
	}
	if line == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Cart item not found")
	}

	product, err := s.productRepo.FindByID(ctx, line.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.HasStock(req.Quantity) {
		return nil, shared.ErrInsufficientStock
	}

	if err := line.SetQuantity(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, line); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// RemoveItem deletes one of the caller's cart lines
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	items, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == itemID {
			return s.cartRepo.Delete(ctx, itemID)
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Cart item not found")
}

// Clear empties the caller's cart
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.cartRepo.DeleteByUser(ctx, userID)
}
