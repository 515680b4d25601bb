package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendora/backend/internal/domain/shared"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid reports whether the status is recognized
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// nextStatus maps each status to its single allowed forward transition
var nextStatus = map[OrderStatus]OrderStatus{
	OrderStatusPending: OrderStatusPaid,
	OrderStatusPaid:    OrderStatusShipped,
	OrderStatusShipped: OrderStatusCompleted,
}

// OrderItem is a purchased product line with the price snapshotted
// at purchase time
type OrderItem struct {
	shared.BaseEntity
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity    int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// Subtotal returns the line total
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a purchase placed from a cart
type Order struct {
	shared.BaseAggregateRoot
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ShippingAddress string          `gorm:"type:varchar(500);not null"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a pending order from purchase lines
func NewOrder(userID uuid.UUID, shippingAddress string, items []OrderItem) (*Order, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}
	if shippingAddress == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Shipping address cannot be empty")
	}
	if len(shippingAddress) > 500 {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Shipping address cannot exceed 500 characters")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Status:            OrderStatusPending,
		ShippingAddress:   shippingAddress,
	}

	total := decimal.Zero
	for _, item := range items {
		item.OrderID = order.ID
		total = total.Add(item.Subtotal())
		order.Items = append(order.Items, item)
	}
	order.Total = total

	return order, nil
}

// NewOrderItem creates a purchase line snapshotting the product price
func NewOrderItem(productID uuid.UUID, productName string, unitPrice decimal.Decimal, quantity int) (OrderItem, error) {
	if quantity < 1 {
		return OrderItem{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	return OrderItem{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		ProductName: productName,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
	}, nil
}

// Advance moves the order to the next status in the
// pending → paid → shipped → completed chain
func (o *Order) Advance(to OrderStatus) error {
	if !to.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}
	if to == OrderStatusCancelled {
		return o.Cancel()
	}
	if nextStatus[o.Status] != to {
		return shared.NewDomainError("INVALID_STATE",
			"Order cannot transition from "+string(o.Status)+" to "+string(to))
	}

	o.Status = to
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// Cancel aborts the order. Completed orders cannot be cancelled.
func (o *Order) Cancel() error {
	if o.Status == OrderStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Completed orders cannot be cancelled")
	}
	if o.Status == OrderStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Order is already cancelled")
	}

	o.Status = OrderStatusCancelled
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// IsCompleted reports whether the order reached the completed state
func (o *Order) IsCompleted() bool {
	return o.Status == OrderStatusCompleted
}

// BelongsTo reports whether the order was placed by the given user
func (o *Order) BelongsTo(userID uuid.UUID) bool {
	return o.UserID == userID
}
