package cart

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// FindByUser returns all cart lines for a user, oldest first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]CartItem, error)

	// FindByUserAndProduct returns the user's line for a product, if any
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*CartItem, error)

	// Save creates or updates a cart line
	Save(ctx context.Context, item *CartItem) error

	// Delete removes a cart line
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByUser empties a user's cart
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
