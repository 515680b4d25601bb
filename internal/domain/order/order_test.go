package order

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendora/backend/internal/domain/shared"
)

func makeItem(t *testing.T, price float64, quantity int) OrderItem {
	t.Helper()
	item, err := NewOrderItem(uuid.New(), "Test Product", decimal.NewFromFloat(price), quantity)
	require.NoError(t, err)
	return item
}

func TestNewOrder(t *testing.T) {
	userID := uuid.New()

	t.Run("creates pending order and sums line totals", func(t *testing.T) {
		items := []OrderItem{
			makeItem(t, 19.99, 2),
			makeItem(t, 5.00, 3),
		}
		o, err := NewOrder(userID, "1 Main St", items)
		require.NoError(t, err)

		assert.Equal(t, OrderStatusPending, o.Status)
		assert.Equal(t, "54.98", o.Total.StringFixed(2))
		assert.Len(t, o.Items, 2)
		for _, item := range o.Items {
			assert.Equal(t, o.ID, item.OrderID)
		}
	})

	t.Run("rejects empty item list", func(t *testing.T) {
		_, err := NewOrder(userID, "1 Main St", nil)
		assertOrderErrCode(t, err, "EMPTY_ORDER")
	})

	t.Run("rejects empty shipping address", func(t *testing.T) {
		_, err := NewOrder(userID, "", []OrderItem{makeItem(t, 1, 1)})
		assertOrderErrCode(t, err, "INVALID_ADDRESS")
	})

	t.Run("rejects overlong shipping address", func(t *testing.T) {
		_, err := NewOrder(userID, strings.Repeat("a", 501), []OrderItem{makeItem(t, 1, 1)})
		assertOrderErrCode(t, err, "INVALID_ADDRESS")
	})
}

func TestNewOrderItem(t *testing.T) {
	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := NewOrderItem(uuid.New(), "x", decimal.NewFromInt(1), 0)
		assertOrderErrCode(t, err, "INVALID_QUANTITY")
	})

	t.Run("subtotal multiplies price by quantity", func(t *testing.T) {
		item := makeItem(t, 2.50, 4)
		assert.Equal(t, "10.00", item.Subtotal().StringFixed(2))
	})
}

func TestOrderAdvance(t *testing.T) {
	newOrder := func(t *testing.T) *Order {
		t.Helper()
		o, err := NewOrder(uuid.New(), "1 Main St", []OrderItem{makeItem(t, 10, 1)})
		require.NoError(t, err)
		return o
	}

	t.Run("walks the full lifecycle in order", func(t *testing.T) {
		o := newOrder(t)
		for _, status := range []OrderStatus{OrderStatusPaid, OrderStatusShipped, OrderStatusCompleted} {
			require.NoError(t, o.Advance(status))
			assert.Equal(t, status, o.Status)
		}
		assert.True(t, o.IsCompleted())
	})

	t.Run("rejects skipping a stage", func(t *testing.T) {
		o := newOrder(t)
		err := o.Advance(OrderStatusShipped)
		assertOrderErrCode(t, err, "INVALID_STATE")
		assert.Equal(t, OrderStatusPending, o.Status)
	})

	t.Run("rejects going backwards", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.Advance(OrderStatusPaid))
		err := o.Advance(OrderStatusPending)
		assertOrderErrCode(t, err, "INVALID_STATE")
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		o := newOrder(t)
		err := o.Advance(OrderStatus("refunded"))
		assertOrderErrCode(t, err, "INVALID_STATUS")
	})

	t.Run("advance to cancelled delegates to Cancel", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.Advance(OrderStatusCancelled))
		assert.Equal(t, OrderStatusCancelled, o.Status)
	})
}

func TestOrderCancel(t *testing.T) {
	newOrder := func(t *testing.T) *Order {
		t.Helper()
		o, err := NewOrder(uuid.New(), "1 Main St", []OrderItem{makeItem(t, 10, 1)})
		require.NoError(t, err)
		return o
	}

	t.Run("cancels pending and shipped orders", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.Cancel())
		assert.Equal(t, OrderStatusCancelled, o.Status)

		o = newOrder(t)
		require.NoError(t, o.Advance(OrderStatusPaid))
		require.NoError(t, o.Advance(OrderStatusShipped))
		require.NoError(t, o.Cancel())
	})

	t.Run("cannot cancel a completed order", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.Advance(OrderStatusPaid))
		require.NoError(t, o.Advance(OrderStatusShipped))
		require.NoError(t, o.Advance(OrderStatusCompleted))

		err := o.Cancel()
		assertOrderErrCode(t, err, "INVALID_STATE")
	})

	t.Run("cannot cancel twice", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.Cancel())
		err := o.Cancel()
		assertOrderErrCode(t, err, "INVALID_STATE")
	})
}

func TestOrderBelongsTo(t *testing.T) {
	userID := uuid.New()
	o, err := NewOrder(userID, "1 Main St", []OrderItem{makeItem(t, 10, 1)})
	require.NoError(t, err)

	assert.True(t, o.BelongsTo(userID))
	assert.False(t, o.BelongsTo(uuid.New()))
}

func assertOrderErrCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, code, de.Code)
}
