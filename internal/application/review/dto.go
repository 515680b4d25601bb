package review

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendora/backend/internal/domain/review"
	"github.com/vendora/backend/internal/domain/shared"
)

// CreateReviewRequest represents a request to review a product
type CreateReviewRequest struct {
	Rating  decimal.Decimal `json:"rating" binding:"required"`
	Title   string          `json:"title" binding:"max=255"`
	Comment string          `json:"comment" binding:"max=1000"`
}

// UpdateReviewRequest represents a partial update to a review.
// Nil fields are left unchanged.
type UpdateReviewRequest struct {
	Rating  *decimal.Decimal `json:"rating"`
	Title   *string          `json:"title" binding:"omitempty,max=255"`
	Comment *string          `json:"comment" binding:"omitempty,max=1000"`
}

// ListReviewsQuery represents review listing parameters
type ListReviewsQuery struct {
	ProductID    *uuid.UUID       `form:"product_id"`
	UserID       *uuid.UUID       `form:"user_id"`
	Rating       *decimal.Decimal `form:"rating"`
	VerifiedOnly bool             `form:"verified_only"`
	Sort         string           `form:"sort"`
	Page         int              `form:"page"`
	PerPage      int              `form:"per_page"`
}

// ReviewResponse represents a review in API responses
type ReviewResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	UserID       uuid.UUID       `json:"user_id"`
	Rating       decimal.Decimal `json:"rating"`
	Title        string          `json:"title"`
	Comment      string          `json:"comment"`
	IsVerified   bool            `json:"is_verified_purchase"`
	IsApproved   bool            `json:"is_approved"`
	HelpfulCount int             `json:"helpful_count"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductRatingSummary carries the product's denormalized rating alongside
// a review listing
type ProductRatingSummary struct {
	ProductID     uuid.UUID       `json:"product_id"`
	AverageRating decimal.Decimal `json:"average_rating"`
	ReviewCount   int             `json:"review_count"`
}

// ReviewListResponse is a page of reviews with an optional product summary
type ReviewListResponse struct {
	Reviews shared.Paginated[ReviewResponse] `json:"reviews"`
	Summary *ProductRatingSummary            `json:"summary,omitempty"`
}

// StatisticsResponse represents the per-product review statistics
type StatisticsResponse struct {
	ProductID       uuid.UUID       `json:"product_id"`
	TotalReviews    int64           `json:"total_reviews"`
	AverageRating   decimal.Decimal `json:"average_rating"`
	RatingBreakdown map[int]int64   `json:"rating_breakdown"`
	VerifiedReviews int64           `json:"verified_reviews"`
	RecentReviews   int64           `json:"recent_reviews"`
}

// HelpfulVoteResponse reports the outcome of a helpful-vote toggle
type HelpfulVoteResponse struct {
	Status       string `json:"status"`
	HelpfulCount int    `json:"helpful_count"`
}

// SetApprovalRequest represents a moderation decision
type SetApprovalRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// ToReviewResponse converts a domain review to its API representation
func ToReviewResponse(r *review.Review) ReviewResponse {
	return ReviewResponse{
		ID:           r.ID,
		ProductID:    r.ProductID,
		UserID:       r.UserID,
		Rating:       r.Rating,
		Title:        r.Title,
		Comment:      r.Comment,
		IsVerified:   r.IsVerified,
		IsApproved:   r.IsApproved,
		HelpfulCount: r.HelpfulCount,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// ToReviewResponses converts a slice of domain reviews
func ToReviewResponses(reviews []review.Review) []ReviewResponse {
	responses := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		responses[i] = ToReviewResponse(&reviews[i])
	}
	return responses
}
