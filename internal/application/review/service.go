package review

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vendora/backend/internal/domain/catalog"
	"github.com/vendora/backend/internal/domain/order"
	"github.com/vendora/backend/internal/domain/review"
	"github.com/vendora/backend/internal/domain/shared"
)

// ReviewService handles review operations and keeps the product rating
// aggregate consistent with the review set.
type ReviewService struct {
	reviewRepo  review.ReviewRepository
	productRepo catalog.ProductRepository
	orderRepo   order.OrderRepository
	txScope     TransactionScope
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	reviewRepo review.ReviewRepository,
	productRepo catalog.ProductRepository,
	orderRepo order.OrderRepository,
	txScope TransactionScope,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		txScope:     txScope,
	}
}

// Create submits a review for a product. A user may review each product
// once; the store-level unique constraint backstops concurrent submissions.
// Verified-purchase status is derived from the user's completed orders.
func (s *ReviewService) Create(ctx context.Context, userID uuid.UUID, productID uuid.UUID, req CreateReviewRequest) (*ReviewResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
		}
		return nil, err
	}

	// Friendly pre-check; the unique index catches races
	if _, err := s.reviewRepo.FindByProductAndUser(ctx, productID, userID); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "You have already reviewed this product")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	rev, err := review.NewReview(productID, userID, req.Rating, req.Title, req.Comment)
	if err != nil {
		return nil, err
	}

	verified, err := s.orderRepo.HasCompletedOrderWithProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if verified {
		rev.MarkVerified()
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Reviews().Save(ctx, rev); err != nil {
			if errors.Is(err, shared.ErrAlreadyExists) {
				return shared.NewDomainError("ALREADY_EXISTS", "You have already reviewed this product")
			}
			return err
		}
		return s.recomputeProductRating(ctx, repos, productID)
	})
	if err != nil {
		return nil, err
	}

	response := ToReviewResponse(rev)
	return &response, nil
}

// Get returns a single review. Unapproved reviews are hidden from this
// public lookup the same way they are hidden from listings.
func (s *ReviewService) Get(ctx context.Context, reviewID uuid.UUID) (*ReviewResponse, error) {
	rev, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if !rev.IsApproved {
		return nil, shared.ErrNotFound
	}
	response := ToReviewResponse(rev)
	return &response, nil
}

// Update edits a review's rating, title, or comment. Only the author may
// edit; the product aggregate is recomputed in the same transaction.
func (s *ReviewService) Update(ctx context.Context, callerID uuid.UUID, reviewID uuid.UUID, req UpdateReviewRequest) (*ReviewResponse, error) {
	var response ReviewResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		rev, err := repos.Reviews().FindByID(ctx, reviewID)
		if err != nil {
			return err
		}
		if !rev.IsOwnedBy(callerID) {
			return shared.NewDomainError("FORBIDDEN", "Only the author can edit this review")
		}

		if err := rev.Update(req.Rating, req.Title, req.Comment); err != nil {
			return err
		}
		if err := repos.Reviews().Save(ctx, rev); err != nil {
			return err
		}
		if err := s.recomputeProductRating(ctx, repos, rev.ProductID); err != nil {
			return err
		}

		response = ToReviewResponse(rev)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Delete removes a review. The author or an admin may delete; the product
// aggregate is recomputed in the same transaction.
func (s *ReviewService) Delete(ctx context.Context, callerID uuid.UUID, isAdmin bool, reviewID uuid.UUID) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		rev, err := repos.Reviews().FindByID(ctx, reviewID)
		if err != nil {
			return err
		}
		if !rev.CanBeDeletedBy(callerID, isAdmin) {
			return shared.NewDomainError("FORBIDDEN", "Only the author or an administrator can delete this review")
		}

		if err := repos.Reviews().Delete(ctx, rev.ID); err != nil {
			return err
		}
		return s.recomputeProductRating(ctx, repos, rev.ProductID)
	})
}

// SetApproval applies a moderation decision. Approval changes move the
// review in or out of the aggregate, so the product is recomputed in the
// same transaction.
func (s *ReviewService) SetApproval(ctx context.Context, reviewID uuid.UUID, approved bool) (*ReviewResponse, error) {
	var response ReviewResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		rev, err := repos.Reviews().FindByID(ctx, reviewID)
		if err != nil {
			return err
		}

		rev.SetApproved(approved)
		if err := repos.Reviews().Save(ctx, rev); err != nil {
			return err
		}
		if err := s.recomputeProductRating(ctx, repos, rev.ProductID); err != nil {
			return err
		}

		response = ToReviewResponse(rev)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// MarkHelpful records a helpful vote. The review row is locked for the
// transaction so concurrent toggles on the same review serialize.
func (s *ReviewService) MarkHelpful(ctx context.Context, voterID uuid.UUID, reviewID uuid.UUID) (*HelpfulVoteResponse, error) {
	var response HelpfulVoteResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		rev, err := repos.Reviews().FindByIDForUpdate(ctx, reviewID)
		if err != nil {
			return err
		}

		outcome, err := rev.MarkHelpful(voterID)
		if err != nil {
			return err
		}
		if outcome == review.VoteMarked {
			if err := repos.Reviews().Save(ctx, rev); err != nil {
				return err
			}
		}

		response = HelpfulVoteResponse{
			Status:       string(outcome),
			HelpfulCount: rev.HelpfulCount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// UnmarkHelpful withdraws a helpful vote
func (s *ReviewService) UnmarkHelpful(ctx context.Context, voterID uuid.UUID, reviewID uuid.UUID) (*HelpfulVoteResponse, error) {
	var response HelpfulVoteResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		rev, err := repos.Reviews().FindByIDForUpdate(ctx, reviewID)
		if err != nil {
			return err
		}

		outcome := rev.UnmarkHelpful(voterID)
		if outcome == review.VoteUnmarked {
			if err := repos.Reviews().Save(ctx, rev); err != nil {
				return err
			}
		}

		response = HelpfulVoteResponse{
			Status:       string(outcome),
			HelpfulCount: rev.HelpfulCount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// ListForProduct returns a product's approved reviews with its rating
// summary
func (s *ReviewService) ListForProduct(ctx context.Context, productID uuid.UUID, query ListReviewsQuery) (*ReviewListResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
		}
		return nil, err
	}

	filter := shared.DefaultFilter()
	filter.Page = query.Page
	filter.PageSize = query.PerPage
	filter.NormalizePagination(review.DefaultProductPageSize)
	filter.Filters[review.FilterProductID] = productID
	filter.Filters[review.FilterApprovedOnly] = true
	if query.Rating != nil {
		filter.Filters[review.FilterRating] = *query.Rating
	}
	if query.VerifiedOnly {
		filter.Filters[review.FilterVerifiedOnly] = true
	}

	reviews, err := s.reviewRepo.FindAll(ctx, filter, normalizeSort(query.Sort))
	if err != nil {
		return nil, err
	}
	total, err := s.reviewRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ReviewListResponse{
		Reviews: shared.NewPaginated(ToReviewResponses(reviews), total, filter.Page, filter.PageSize),
		Summary: &ProductRatingSummary{
			ProductID:     product.ID,
			AverageRating: product.Rating,
			ReviewCount:   product.ReviewCount,
		},
	}, nil
}

// ListAll returns reviews across products, including unapproved ones.
// Intended for moderation.
func (s *ReviewService) ListAll(ctx context.Context, query ListReviewsQuery) (*shared.Paginated[ReviewResponse], error) {
	filter := shared.DefaultFilter()
	filter.Page = query.Page
	filter.PageSize = query.PerPage
	filter.NormalizePagination(review.DefaultAdminPageSize)
	if query.ProductID != nil {
		filter.Filters[review.FilterProductID] = *query.ProductID
	}
	if query.UserID != nil {
		filter.Filters[review.FilterUserID] = *query.UserID
	}
	if query.Rating != nil {
		filter.Filters[review.FilterRating] = *query.Rating
	}
	if query.VerifiedOnly {
		filter.Filters[review.FilterVerifiedOnly] = true
	}

	reviews, err := s.reviewRepo.FindAll(ctx, filter, normalizeSort(query.Sort))
	if err != nil {
		return nil, err
	}
	total, err := s.reviewRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	paginated := shared.NewPaginated(ToReviewResponses(reviews), total, filter.Page, filter.PageSize)
	return &paginated, nil
}

// UserReview returns the review the user wrote for a product
func (s *ReviewService) UserReview(ctx context.Context, productID, userID uuid.UUID) (*ReviewResponse, error) {
	rev, err := s.reviewRepo.FindByProductAndUser(ctx, productID, userID)
	if err != nil {
		return nil, err
	}
	response := ToReviewResponse(rev)
	return &response, nil
}

// Statistics returns the approved-review statistics for a product
func (s *ReviewService) Statistics(ctx context.Context, productID uuid.UUID) (*StatisticsResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
		}
		return nil, err
	}

	stats, err := s.reviewRepo.StatisticsForProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	return &StatisticsResponse{
		ProductID:       productID,
		TotalReviews:    stats.TotalReviews,
		AverageRating:   stats.AverageRating,
		RatingBreakdown: stats.RatingBreakdown,
		VerifiedReviews: stats.VerifiedReviews,
		RecentReviews:   stats.RecentReviews,
	}, nil
}

// recomputeProductRating recalculates the product's denormalized rating
// from its approved reviews. Must run inside the same transaction as the
// review mutation that triggered it.
func (s *ReviewService) recomputeProductRating(ctx context.Context, repos TransactionalRepositories, productID uuid.UUID) error {
	product, err := repos.Products().FindByID(ctx, productID)
	if err != nil {
		return err
	}

	aggregate, err := repos.Reviews().AggregateForProduct(ctx, productID, review.ApprovedOnly)
	if err != nil {
		return err
	}

	product.ApplyRatingAggregate(aggregate.AverageRating, aggregate.ReviewCount)
	return repos.Products().Save(ctx, product)
}

// normalizeSort maps unknown sort keys to the default ordering
func normalizeSort(sort string) review.SortKey {
	key := review.SortKey(sort)
	if !key.IsValid() {
		return review.SortRecent
	}
	return key
}
