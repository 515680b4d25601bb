package handler

import (
	reviewapp "github.com/vendora/backend/internal/application/review"
	"github.com/vendora/backend/internal/interfaces/http/router"

	"github.com/gin-gonic/gin"
)

// ReviewHandler handles product review endpoints
type ReviewHandler struct {
	BaseHandler
	reviewService *reviewapp.ReviewService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService *reviewapp.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// RegisterRoutes registers review routes
func (h *ReviewHandler) RegisterRoutes(g router.Groups) {
	g.Public.GET("/products/:id/reviews", h.ListForProduct)
	g.Public.GET("/products/:id/reviews/statistics", h.Statistics)
	g.Public.GET("/reviews/:id", h.Get)

	g.Authenticated.POST("/products/:id/reviews", h.Create)
	g.Authenticated.GET("/products/:id/reviews/me", h.UserReview)
	g.Authenticated.PUT("/reviews/:id", h.Update)
	g.Authenticated.DELETE("/reviews/:id", h.Delete)
	g.Authenticated.POST("/reviews/:id/helpful", h.MarkHelpful)
	g.Authenticated.DELETE("/reviews/:id/helpful", h.UnmarkHelpful)

	g.Admin.GET("/reviews", h.ListAll)
	g.Admin.PATCH("/reviews/:id/approval", h.SetApproval)
}

// ListForProduct returns a product's approved reviews with its rating summary
func (h *ReviewHandler) ListForProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var query reviewapp.ListReviewsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.reviewService.ListForProduct(c.Request.Context(), productID, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Get returns a single approved review
func (h *ReviewHandler) Get(c *gin.Context) {
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid review ID format")
		return
	}

	result, err := h.reviewService.Get(c.Request.Context(), reviewID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Statistics returns the approved-review statistics for a product
func (h *ReviewHandler) Statistics(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	stats, err := h.reviewService.Statistics(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// Create submits a review for a product
func (h *ReviewHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req reviewapp.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.reviewService.Create(c.Request.Context(), userID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// UserReview returns the authenticated user's review for a product
func (h *ReviewHandler) UserReview(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	result, err := h.reviewService.UserReview(c.Request.Context(), productID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Update edits the authenticated user's review
func (h *ReviewHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid review ID format")
		return
	}

	var req reviewapp.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.reviewService.Update(c.Request.Context(), userID, reviewID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete removes a review. Authors delete their own; admins delete any.
func (h *ReviewHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid review ID format")
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), userID, isAdmin(c), reviewID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// MarkHelpful records a helpful vote on a review
func (h *ReviewHandler) MarkHelpful(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid review ID format")
		return
	}

	result, err := h.reviewService.MarkHelpful(c.Request.Context(), userID, reviewID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UnmarkHelpful withdraws a helpful vote from a review
func (h *ReviewHandler) UnmarkHelpful(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid review ID format")
		return
	}

	result, err := h.reviewService.UnmarkHelpful(c.Request.Context(), userID, reviewID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListAll returns reviews across products for moderation
func (h *ReviewHandler) ListAll(c *gin.Context) {
	var query reviewapp.ListReviewsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.reviewService.ListAll(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// SetApproval applies a moderation decision to a review
func (h *ReviewHandler) SetApproval(c *gin.Context) {
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid review ID format")
		return
	}

	var req reviewapp.SetApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.reviewService.SetApproval(c.Request.Context(), reviewID, *req.Approved)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
