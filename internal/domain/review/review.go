package review

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendora/backend/internal/domain/shared"
)

// ApprovedOnly controls which reviews count toward a product's denormalized
// rating and review_count. Public listings filter by approval, so the
// aggregate applies the same filter to keep the displayed numbers consistent.
const ApprovedOnly = true

// Rating bounds. Ratings carry one decimal place.
var (
	MinRating = decimal.NewFromInt(1)
	MaxRating = decimal.NewFromInt(5)
)

const (
	maxTitleLength   = 255
	maxCommentLength = 1000
)

// VoteOutcome describes the result of a helpful-vote toggle.
type VoteOutcome string

const (
	VoteMarked        VoteOutcome = "marked"
	VoteAlreadyMarked VoteOutcome = "already marked"
	VoteUnmarked      VoteOutcome = "unmarked"
	VoteNotMarked     VoteOutcome = "was not marked"
)

// VoterSet is a deduplicated set of user IDs stored as a JSON array.
type VoterSet map[uuid.UUID]struct{}

// NewVoterSet creates an empty voter set
func NewVoterSet() VoterSet {
	return make(VoterSet)
}

// Contains reports whether the user is in the set
func (s VoterSet) Contains(userID uuid.UUID) bool {
	_, ok := s[userID]
	return ok
}

// Add inserts the user; returns false if already present
func (s VoterSet) Add(userID uuid.UUID) bool {
	if s.Contains(userID) {
		return false
	}
	s[userID] = struct{}{}
	return true
}

// Remove deletes the user; returns false if absent
func (s VoterSet) Remove(userID uuid.UUID) bool {
	if !s.Contains(userID) {
		return false
	}
	delete(s, userID)
	return true
}

// Len returns the set cardinality
func (s VoterSet) Len() int {
	return len(s)
}

// Members returns the voter IDs in stable order
func (s VoterSet) Members() []uuid.UUID {
	members := make([]uuid.UUID, 0, len(s))
	for id := range s {
		members = append(members, id)
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].String() < members[j].String()
	})
	return members
}

// Value implements driver.Valuer, serializing the set as a JSON array
func (s VoterSet) Value() (driver.Value, error) {
	data, err := json.Marshal(s.Members())
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner, deduplicating any stored list
func (s *VoterSet) Scan(value interface{}) error {
	if value == nil {
		*s = NewVoterSet()
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported voter set source type %T", value)
	}

	if len(data) == 0 {
		*s = NewVoterSet()
		return nil
	}

	var ids []uuid.UUID
	if err := json.Unmarshal(data, &ids); err != nil {
		return fmt.Errorf("failed to decode voter set: %w", err)
	}

	set := NewVoterSet()
	for _, id := range ids {
		set.Add(id)
	}
	*s = set
	return nil
}

// GormDataType returns the column type for GORM
func (VoterSet) GormDataType() string {
	return "jsonb"
}

// Review represents one user's opinion of one product
// It is the aggregate root for review operations
type Review struct {
	shared.BaseAggregateRoot
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_product_user,priority:1;index:idx_reviews_product_approved,priority:1"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_product_user,priority:2;index"`
	Rating        decimal.Decimal `gorm:"type:decimal(2,1);not null;index"`
	Title         string          `gorm:"type:varchar(255)"`
	Comment       string          `gorm:"type:varchar(1000)"`
	IsVerified    bool            `gorm:"not null;default:false"`
	IsApproved    bool            `gorm:"not null;default:true;index:idx_reviews_product_approved,priority:2"`
	HelpfulVoters VoterSet        `gorm:"type:jsonb"`
	HelpfulCount  int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Review) TableName() string {
	return "reviews"
}

// NewReview creates a new review for a product
func NewReview(productID, userID uuid.UUID, rating decimal.Decimal, title, comment string) (*Review, error) {
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateComment(comment); err != nil {
		return nil, err
	}

	return &Review{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		UserID:            userID,
		Rating:            rating,
		Title:             title,
		Comment:           comment,
		IsApproved:        true,
		HelpfulVoters:     NewVoterSet(),
	}, nil
}

// IsOwnedBy reports whether the given user wrote this review
func (r *Review) IsOwnedBy(userID uuid.UUID) bool {
	return r.UserID == userID
}

// CanBeDeletedBy reports whether the caller may delete this review.
// The isAdmin capability flag comes from the request layer.
func (r *Review) CanBeDeletedBy(userID uuid.UUID, isAdmin bool) bool {
	return isAdmin || r.IsOwnedBy(userID)
}

// Update applies a partial update to the review content.
// Nil fields are left unchanged.
func (r *Review) Update(rating *decimal.Decimal, title, comment *string) error {
	if rating != nil {
		if err := validateRating(*rating); err != nil {
			return err
		}
	}
	if title != nil {
		if err := validateTitle(*title); err != nil {
			return err
		}
	}
	if comment != nil {
		if err := validateComment(*comment); err != nil {
			return err
		}
	}

	if rating != nil {
		r.Rating = *rating
	}
	if title != nil {
		r.Title = *title
	}
	if comment != nil {
		r.Comment = *comment
	}
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// MarkVerified flags the review as a verified purchase
func (r *Review) MarkVerified() {
	r.IsVerified = true
	r.UpdatedAt = time.Now()
}

// SetApproved sets the moderation flag
func (r *Review) SetApproved(approved bool) {
	if r.IsApproved == approved {
		return
	}
	r.IsApproved = approved
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// MarkHelpful records a helpful vote from the given user.
// Voting on one's own review is forbidden. Repeated votes are no-ops.
// HelpfulCount is always derived from set cardinality, never set directly.
func (r *Review) MarkHelpful(voterID uuid.UUID) (VoteOutcome, error) {
	if r.IsOwnedBy(voterID) {
		return "", shared.NewDomainError("FORBIDDEN", "Cannot mark your own review as helpful")
	}
	if r.HelpfulVoters == nil {
		r.HelpfulVoters = NewVoterSet()
	}
	if !r.HelpfulVoters.Add(voterID) {
		return VoteAlreadyMarked, nil
	}

	r.HelpfulCount = r.HelpfulVoters.Len()
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return VoteMarked, nil
}

// UnmarkHelpful withdraws a helpful vote. Unmarking without a prior
// vote is a no-op.
func (r *Review) UnmarkHelpful(voterID uuid.UUID) VoteOutcome {
	if r.HelpfulVoters == nil || !r.HelpfulVoters.Remove(voterID) {
		return VoteNotMarked
	}

	r.HelpfulCount = r.HelpfulVoters.Len()
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return VoteUnmarked
}

func validateRating(rating decimal.Decimal) error {
	if rating.LessThan(MinRating) || rating.GreaterThan(MaxRating) {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	if !rating.Equal(rating.Round(1)) {
		return shared.NewDomainError("INVALID_RATING", "Rating precision is limited to one decimal place")
	}
	return nil
}

func validateTitle(title string) error {
	if len(title) > maxTitleLength {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 255 characters")
	}
	return nil
}

func validateComment(comment string) error {
	if len(comment) > maxCommentLength {
		return shared.NewDomainError("INVALID_COMMENT", "Comment cannot exceed 1000 characters")
	}
	return nil
}
