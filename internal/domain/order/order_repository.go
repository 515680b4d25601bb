package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/vendora/backend/internal/domain/shared"
)

// Filter keys understood by the order repository
const (
	FilterUserID = "user_id"
	FilterStatus = "status"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindAll finds orders matching the filter, items included
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order and its items
	Save(ctx context.Context, order *Order) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// HasCompletedOrderWithProduct reports whether the user has a
	// completed order containing the product. Backs the
	// verified-purchase flag on reviews.
	HasCompletedOrderWithProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error)

	// ProductReferenced reports whether any order line references the
	// product. Referenced products cannot be deleted from the catalog.
	ProductReferenced(ctx context.Context, productID uuid.UUID) (bool, error)
}
