package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/vendora/backend/internal/domain/order"
	"github.com/vendora/backend/internal/domain/shared"
)

// Default page size for order listings
const defaultOrderPageSize = 15

// OrderService handles order placement and lifecycle
type OrderService struct {
	orderRepo order.OrderRepository
	txScope   TransactionScope
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo order.OrderRepository, txScope TransactionScope) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		txScope:   txScope,
	}
}

// Create places an order from the caller's cart: stock is decremented,
// prices are snapshotted, and the cart is cleared, all in one transaction.
func (s *OrderService) Create(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	var response OrderResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		lines, err := repos.Carts().FindByUser(ctx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return shared.NewDomainError("EMPTY_CART", "Cart is empty")
		}

		items := make([]order.OrderItem, 0, len(lines))
		for i := range lines {
			product, err := repos.Products().FindByID(ctx, lines[i].ProductID)
			if err != nil {
				return err
			}
			if !product.IsActive() {
				return shared.NewDomainError("INVALID_STATE", "Product "+product.Name+" is no longer available")
			}
			if err := product.AdjustStock(-lines[i].Quantity); err != nil {
				return err
			}
			if err := repos.Products().Save(ctx, product); err != nil {
				return err
			}

			item, err := order.NewOrderItem(product.ID, product.Name, product.Price, lines[i].Quantity)
			if err != nil {
				return err
			}
			items = append(items, item)
		}

		placed, err := order.NewOrder(userID, req.ShippingAddress, items)
		if err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, placed); err != nil {
			return err
		}
		if err := repos.Carts().DeleteByUser(ctx, userID); err != nil {
			return err
		}

		response = ToOrderResponse(placed)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Get returns one order. Customers may only fetch their own orders;
// the isAdmin capability flag lifts that restriction.
func (s *OrderService) Get(ctx context.Context, callerID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*OrderResponse, error) {
	placed, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !placed.BelongsTo(callerID) {
		return nil, shared.NewDomainError("FORBIDDEN", "You can only view your own orders")
	}
	response := ToOrderResponse(placed)
	return &response, nil
}

// ListForUser returns the caller's own orders
func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID, query ListOrdersQuery) (*shared.Paginated[OrderResponse], error) {
	filter := s.buildFilter(query)
	filter.Filters[order.FilterUserID] = userID
	return s.list(ctx, filter)
}

// ListAll returns orders across users (admin)
func (s *OrderService) ListAll(ctx context.Context, query ListOrdersQuery) (*shared.Paginated[OrderResponse], error) {
	return s.list(ctx, s.buildFilter(query))
}

// UpdateStatus advances an order along pending → paid → shipped →
// completed, or cancels it. Cancellation restores the stock the order
// had claimed, in the same transaction.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	target := order.OrderStatus(req.Status)
	if !target.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}

	var response OrderResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		placed, err := repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := placed.Advance(target); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, placed); err != nil {
			return err
		}

		if placed.Status == order.OrderStatusCancelled {
			for i := range placed.Items {
				product, err := repos.Products().FindByID(ctx, placed.Items[i].ProductID)
				if err != nil {
					return err
				}
				if err := product.AdjustStock(placed.Items[i].Quantity); err != nil {
					return err
				}
				if err := repos.Products().Save(ctx, product); err != nil {
					return err
				}
			}
		}

		response = ToOrderResponse(placed)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (s *OrderService) buildFilter(query ListOrdersQuery) shared.Filter {
	filter := shared.DefaultFilter()
	filter.Page = query.Page
	filter.PageSize = query.PerPage
	filter.NormalizePagination(defaultOrderPageSize)
	if query.Status != "" {
		filter.Filters[order.FilterStatus] = query.Status
	}
	return filter
}

func (s *OrderService) list(ctx context.Context, filter shared.Filter) (*shared.Paginated[OrderResponse], error) {
	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	paginated := shared.NewPaginated(ToOrderResponses(orders), total, filter.Page, filter.PageSize)
	return &paginated, nil
}
