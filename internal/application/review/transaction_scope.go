package review

import (
	"context"

	"github.com/vendora/backend/internal/domain/catalog"
	"github.com/vendora/backend/internal/domain/review"
)

// TransactionScope runs a function against repositories bound to a single
// transaction. A review mutation and the product aggregate recompute it
// triggers commit or roll back together.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories participating in a
// review transaction.
type TransactionalRepositories interface {
	Reviews() review.ReviewRepository
	Products() catalog.ProductRepository
}

// NoOpTransactionScope executes the function without an actual transaction.
// Useful for tests with mocked repositories.
type NoOpTransactionScope struct {
	repos TransactionalRepositories
}

// NewNoOpTransactionScope creates a no-op transaction scope
func NewNoOpTransactionScope(repos TransactionalRepositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs the function directly against the configured repositories
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.repos)
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
