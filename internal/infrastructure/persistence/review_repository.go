package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendora/backend/internal/domain/review"
	"github.com/vendora/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReviewRepository implements ReviewRepository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// FindByID finds a review by its ID
func (r *GormReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	var rev review.Review
	if err := r.db.WithContext(ctx).First(&rev, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rev, nil
}

// FindByIDForUpdate finds a review and takes a row lock, serializing
// concurrent helpful-vote toggles on the same review. Must run inside
// a transaction.
func (r *GormReviewRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	var rev review.Review
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&rev, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rev, nil
}

// FindByProductAndUser finds the review a user wrote for a product
func (r *GormReviewRepository) FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*review.Review, error) {
	var rev review.Review
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		First(&rev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rev, nil
}

// FindAll finds all reviews matching the filter, ordered by sort
func (r *GormReviewRepository) FindAll(ctx context.Context, filter shared.Filter, sort review.SortKey) ([]review.Review, error) {
	var reviews []review.Review
	query := r.applyFilter(r.db.WithContext(ctx).Model(&review.Review{}), filter)
	query = query.Order(orderClause(sort))

	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// Count counts reviews matching the filter
func (r *GormReviewRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&review.Review{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a review. The (product_id, user_id) unique
// index rejects duplicate inserts at commit time; the violation is
// surfaced as shared.ErrAlreadyExists.
func (r *GormReviewRepository) Save(ctx context.Context, rev *review.Review) error {
	return translateError(r.db.WithContext(ctx).Save(rev).Error)
}

// Delete permanently removes a review
func (r *GormReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&review.Review{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ratingAggregateRow receives the aggregate query result
type ratingAggregateRow struct {
	Average decimal.Decimal
	Total   int64
}

// AggregateForProduct computes the mean rating and review count for a
// product. COALESCE keeps the average at zero when no rows match.
func (r *GormReviewRepository) AggregateForProduct(ctx context.Context, productID uuid.UUID, approvedOnly bool) (*review.RatingAggregate, error) {
	query := r.db.WithContext(ctx).Model(&review.Review{}).
		Where("product_id = ?", productID)
	if approvedOnly {
		query = query.Where("is_approved = ?", true)
	}

	var row ratingAggregateRow
	if err := query.
		Select("COALESCE(AVG(rating), 0) as average, COUNT(*) as total").
		Scan(&row).Error; err != nil {
		return nil, err
	}

	return &review.RatingAggregate{
		AverageRating: row.Average,
		ReviewCount:   row.Total,
	}, nil
}

// starCountRow receives one bucket of the rating breakdown
type starCountRow struct {
	Star  int
	Total int64
}

// StatisticsForProduct computes the approved-review statistics breakdown.
// Ratings carry one decimal place; each is attributed to its nearest
// whole star (half away from zero) for the per-star counts.
func (r *GormReviewRepository) StatisticsForProduct(ctx context.Context, productID uuid.UUID) (*review.Statistics, error) {
	approved := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&review.Review{}).
			Where("product_id = ? AND is_approved = ?", productID, true)
	}

	var agg ratingAggregateRow
	if err := approved().
		Select("COALESCE(AVG(rating), 0) as average, COUNT(*) as total").
		Scan(&agg).Error; err != nil {
		return nil, err
	}

	breakdown := map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	var rows []starCountRow
	if err := approved().
		Select("CAST(ROUND(rating) AS INTEGER) as star, COUNT(*) as total").
		Group("star").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row.Star >= 1 && row.Star <= 5 {
			breakdown[row.Star] = row.Total
		}
	}

	var verified int64
	if err := approved().Where("is_verified = ?", true).Count(&verified).Error; err != nil {
		return nil, err
	}

	var recent int64
	cutoff := time.Now().AddDate(0, 0, -30)
	if err := approved().Where("created_at >= ?", cutoff).Count(&recent).Error; err != nil {
		return nil, err
	}

	return &review.Statistics{
		TotalReviews:    agg.Total,
		AverageRating:   agg.Average.Round(2),
		RatingBreakdown: breakdown,
		VerifiedReviews: verified,
		RecentReviews:   recent,
	}, nil
}

// applyFilter applies filter options including pagination
func (r *GormReviewRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormReviewRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case review.FilterProductID:
			query = query.Where("product_id = ?", value)
		case review.FilterUserID:
			query = query.Where("user_id = ?", value)
		case review.FilterRating:
			query = query.Where("rating = ?", value)
		case review.FilterVerifiedOnly:
			if value == true {
				query = query.Where("is_verified = ?", true)
			}
		case review.FilterApprovedOnly:
			if value == true {
				query = query.Where("is_approved = ?", true)
			}
		}
	}

	return query
}

// orderClause maps a sort key to its SQL ordering
func orderClause(sort review.SortKey) string {
	switch sort {
	case review.SortOldest:
		return "created_at ASC"
	case review.SortRatingHigh:
		return "rating DESC, created_at DESC"
	case review.SortRatingLow:
		return "rating ASC, created_at DESC"
	case review.SortHelpful:
		return "helpful_count DESC, created_at DESC"
	default:
		return "created_at DESC"
	}
}

// Ensure GormReviewRepository implements ReviewRepository
var _ review.ReviewRepository = (*GormReviewRepository)(nil)
