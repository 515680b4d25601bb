package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vendora/backend/internal/domain/catalog"
	"github.com/vendora/backend/internal/domain/shared"
)

// Default page sizes for catalog listings
const (
	defaultProductPageSize  = 20
	defaultCategoryPageSize = 5
)

// CategoryService handles category operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository, productRepo catalog.ProductRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	exists, err := s.categoryRepo.ExistsBySlug(ctx, req.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this slug already exists")
	}

	category, err := catalog.NewCategory(req.Name, req.Slug, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this slug already exists")
		}
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// Update applies a partial update to a category
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := category.Name
	if req.Name != nil {
		name = *req.Name
	}
	description := category.Description
	if req.Description != nil {
		description = *req.Description
	}
	if err := category.Update(name, description); err != nil {
		return nil, err
	}
	if req.Active != nil {
		if *req.Active {
			category.Activate()
		} else {
			category.Deactivate()
		}
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// Delete removes an empty category. Categories still holding products
// cannot be deleted.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	filter := shared.DefaultFilter()
	filter.Filters[catalog.FilterCategoryID] = category.ID
	productCount, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return err
	}
	if productCount > 0 {
		return shared.NewDomainError("ALREADY_EXISTS", "Category still contains products")
	}

	return s.categoryRepo.Delete(ctx, category.ID)
}

// GetByID returns a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCategoryResponse(category)
	return &response, nil
}

// List returns categories matching the query
func (s *CategoryService) List(ctx context.Context, query ListCategoriesQuery, includeInactive bool) (*shared.Paginated[CategoryResponse], error) {
	filter := shared.DefaultFilter()
	filter.Page = query.Page
	filter.PageSize = query.PerPage
	filter.NormalizePagination(defaultCategoryPageSize)
	filter.Search = query.Search
	if query.Sort != "" {
		filter.OrderBy = query.Sort
	}
	if query.Order != "" {
		filter.OrderDir = query.Order
	}
	if !includeInactive {
		filter.Filters["is_active"] = true
	}

	categories, err := s.categoryRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.categoryRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	paginated := shared.NewPaginated(ToCategoryResponses(categories), total, filter.Page, filter.PageSize)
	return &paginated, nil
}
