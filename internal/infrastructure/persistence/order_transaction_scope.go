package persistence

import (
	"context"

	apporder "github.com/vendora/backend/internal/application/order"
	"github.com/vendora/backend/internal/domain/cart"
	"github.com/vendora/backend/internal/domain/catalog"
	"github.com/vendora/backend/internal/domain/order"
	"gorm.io/gorm"
)

// GormOrderTransactionScope implements the order TransactionScope using
// GORM transactions so checkout touches stock, order rows, and the cart
// atomically.
type GormOrderTransactionScope struct {
	db *gorm.DB
}

// NewGormOrderTransactionScope creates a new GormOrderTransactionScope.
func NewGormOrderTransactionScope(db *gorm.DB) *GormOrderTransactionScope {
	return &GormOrderTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
func (s *GormOrderTransactionScope) Execute(ctx context.Context, fn func(repos apporder.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormOrderRepositories{tx: tx}
		return fn(repos)
	})
}

// gormOrderRepositories provides repositories bound to one transaction
type gormOrderRepositories struct {
	tx *gorm.DB
}

func (r *gormOrderRepositories) Orders() order.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormOrderRepositories) Carts() cart.CartRepository {
	return NewGormCartRepository(r.tx)
}

func (r *gormOrderRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

var _ apporder.TransactionScope = (*GormOrderTransactionScope)(nil)
var _ apporder.TransactionalRepositories = (*gormOrderRepositories)(nil)
