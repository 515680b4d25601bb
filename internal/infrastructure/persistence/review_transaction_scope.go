package persistence

import (
	"context"

	appreview "github.com/vendora/backend/internal/application/review"
	"github.com/vendora/backend/internal/domain/catalog"
	"github.com/vendora/backend/internal/domain/review"
	"gorm.io/gorm"
)

// GormReviewTransactionScope implements the review TransactionScope
// using GORM transactions, tying a review mutation and its product
// aggregate recompute to one commit.
type GormReviewTransactionScope struct {
	db *gorm.DB
}

// NewGormReviewTransactionScope creates a new GormReviewTransactionScope.
func NewGormReviewTransactionScope(db *gorm.DB) *GormReviewTransactionScope {
	return &GormReviewTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormReviewTransactionScope) Execute(ctx context.Context, fn func(repos appreview.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormReviewRepositories{tx: tx}
		return fn(repos)
	})
}

// gormReviewRepositories provides repositories bound to one transaction
type gormReviewRepositories struct {
	tx *gorm.DB
}

// Reviews returns the review repository scoped to the current transaction.
func (r *gormReviewRepositories) Reviews() review.ReviewRepository {
	return NewGormReviewRepository(r.tx)
}

// Products returns the product repository scoped to the current transaction.
func (r *gormReviewRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

var _ appreview.TransactionScope = (*GormReviewTransactionScope)(nil)
var _ appreview.TransactionalRepositories = (*gormReviewRepositories)(nil)
