package review

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendora/backend/internal/domain/shared"
)

// SortKey identifies a review list ordering
type SortKey string

const (
	SortRecent     SortKey = "recent"
	SortOldest     SortKey = "oldest"
	SortRatingHigh SortKey = "rating_high"
	SortRatingLow  SortKey = "rating_low"
	SortHelpful    SortKey = "helpful"
)

// IsValid reports whether the sort key is recognized
func (k SortKey) IsValid() bool {
	switch k {
	case SortRecent, SortOldest, SortRatingHigh, SortRatingLow, SortHelpful:
		return true
	}
	return false
}

// Filter keys understood by the review repository
const (
	FilterProductID    = "product_id"
	FilterUserID       = "user_id"
	FilterRating       = "rating"
	FilterVerifiedOnly = "verified_only"
	FilterApprovedOnly = "approved_only"
)

// Default page sizes for review listings
const (
	DefaultProductPageSize = 10
	DefaultAdminPageSize   = 15
)

// RatingAggregate is the recomputed summary for one product
type RatingAggregate struct {
	AverageRating decimal.Decimal
	ReviewCount   int64
}

// Statistics summarizes a product's approved reviews
type Statistics struct {
	TotalReviews    int64           `json:"total_reviews"`
	AverageRating   decimal.Decimal `json:"average_rating"`
	RatingBreakdown map[int]int64   `json:"rating_breakdown"`
	VerifiedReviews int64           `json:"verified_reviews"`
	RecentReviews   int64           `json:"recent_reviews"`
}

// ReviewRepository defines the interface for review persistence
type ReviewRepository interface {
	// FindByID finds a review by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)

	// FindByIDForUpdate finds a review and locks its row for the duration
	// of the surrounding transaction, serializing concurrent vote toggles
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Review, error)

	// FindByProductAndUser finds the review a user wrote for a product
	FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*Review, error)

	// FindAll finds all reviews matching the filter, ordered by sort
	FindAll(ctx context.Context, filter shared.Filter, sort SortKey) ([]Review, error)

	// Count counts reviews matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a review. Inserting a second review for the
	// same (product, user) pair fails with shared.ErrAlreadyExists via the
	// store-level unique constraint
	Save(ctx context.Context, review *Review) error

	// Delete permanently removes a review
	Delete(ctx context.Context, id uuid.UUID) error

	// AggregateForProduct computes the mean rating and count over the
	// product's reviews, restricted to approved ones when approvedOnly is set
	AggregateForProduct(ctx context.Context, productID uuid.UUID, approvedOnly bool) (*RatingAggregate, error)

	// StatisticsForProduct computes the approved-review statistics breakdown
	StatisticsForProduct(ctx context.Context, productID uuid.UUID) (*Statistics, error)
}
