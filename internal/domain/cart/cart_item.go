package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/vendora/backend/internal/domain/shared"
)

const maxQuantityPerItem = 99

// CartItem is one product line in a user's cart.
// A user holds at most one line per product; adding the same product
// again increments the existing line's quantity.
type CartItem struct {
	shared.BaseEntity
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product,priority:2"`
	Quantity  int       `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// NewCartItem creates a cart line for a product
func NewCartItem(userID, productID uuid.UUID, quantity int) (*CartItem, error) {
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}
	return &CartItem{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		ProductID:  productID,
		Quantity:   quantity,
	}, nil
}

// IncrementQuantity adds to the line quantity
func (i *CartItem) IncrementQuantity(by int) error {
	return i.SetQuantity(i.Quantity + by)
}

// SetQuantity replaces the line quantity
func (i *CartItem) SetQuantity(quantity int) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	i.Quantity = quantity
	i.UpdatedAt = time.Now()
	return nil
}

func validateQuantity(quantity int) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if quantity > maxQuantityPerItem {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot exceed 99 per item")
	}
	return nil
}
