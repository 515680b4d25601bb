package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendora/backend/internal/domain/cart"
	"github.com/vendora/backend/internal/domain/catalog"
)

// AddItemRequest adds a product to the cart or increments its line
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=99"`
}

// UpdateItemRequest replaces a cart line's quantity
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=99"`
}

// CartItemResponse is one cart line joined with its product
type CartItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// CartResponse is the user's full cart with totals
type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	ItemCount int                `json:"item_count"`
	Total     decimal.Decimal    `json:"total"`
}

// ToCartItemResponse joins a cart line with its product
func ToCartItemResponse(item *cart.CartItem, product *catalog.Product) CartItemResponse {
	subtotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
	return CartItemResponse{
		ID:          item.ID,
		ProductID:   item.ProductID,
		ProductName: product.Name,
		UnitPrice:   product.Price,
		Quantity:    item.Quantity,
		Subtotal:    subtotal,
	}
}
