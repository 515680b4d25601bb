package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vendora/backend/internal/domain/catalog"
	"github.com/vendora/backend/internal/domain/order"
	"github.com/vendora/backend/internal/domain/review"
	"github.com/vendora/backend/internal/domain/shared"
)

// ProductService handles product catalog operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	reviewRepo   review.ReviewRepository
	orderRepo    order.OrderRepository
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	reviewRepo review.ReviewRepository,
	orderRepo order.OrderRepository,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		reviewRepo:   reviewRepo,
		orderRepo:    orderRepo,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsBySlug(ctx, req.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this slug already exists")
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, err
		}
	}

	product, err := catalog.NewProduct(req.Name, req.Slug, req.Description, req.Price, req.Stock)
	if err != nil {
		return nil, err
	}
	if req.ImageURL != "" {
		if err := product.SetImageURL(req.ImageURL); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		product.SetCategory(req.CategoryID)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this slug already exists")
		}
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Update applies a partial update to a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := product.Name
	if req.Name != nil {
		name = *req.Name
	}
	description := product.Description
	if req.Description != nil {
		description = *req.Description
	}
	price := product.Price
	if req.Price != nil {
		price = *req.Price
	}
	if err := product.Update(name, description, price); err != nil {
		return nil, err
	}

	if req.Stock != nil {
		if err := product.AdjustStock(*req.Stock - product.Stock); err != nil {
			return nil, err
		}
	}
	if req.ImageURL != nil {
		if err := product.SetImageURL(*req.ImageURL); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, err
		}
		product.SetCategory(req.CategoryID)
	}
	if req.Active != nil {
		if *req.Active {
			product.Activate()
		} else {
			product.Deactivate()
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product. Products referenced by reviews or orders
// cannot be deleted; deactivate them instead.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	reviewFilter := shared.DefaultFilter()
	reviewFilter.Filters[review.FilterProductID] = product.ID
	reviewCount, err := s.reviewRepo.Count(ctx, reviewFilter)
	if err != nil {
		return err
	}
	if reviewCount > 0 {
		return shared.NewDomainError("ALREADY_EXISTS", "Product has reviews; deactivate it instead of deleting")
	}

	referenced, err := s.orderRepo.ProductReferenced(ctx, product.ID)
	if err != nil {
		return err
	}
	if referenced {
		return shared.NewDomainError("ALREADY_EXISTS", "Product appears in orders; deactivate it instead of deleting")
	}

	return s.productRepo.Delete(ctx, product.ID)
}

// GetByID returns a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetBySlug returns a product by its URL slug
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List returns products matching the query. Storefront callers see
// active products only; admins see everything.
func (s *ProductService) List(ctx context.Context, query ListProductsQuery, includeInactive bool) (*shared.Paginated[ProductResponse], error) {
	filter := shared.DefaultFilter()
	filter.Page = query.Page
	filter.PageSize = query.PerPage
	filter.NormalizePagination(defaultProductPageSize)
	filter.Search = query.Search
	if query.Sort != "" {
		filter.OrderBy = query.Sort
	}
	if query.Order != "" {
		filter.OrderDir = query.Order
	}
	if query.CategoryID != nil {
		filter.Filters[catalog.FilterCategoryID] = *query.CategoryID
	}
	if query.MinPrice != nil {
		filter.Filters[catalog.FilterMinPrice] = *query.MinPrice
	}
	if query.MaxPrice != nil {
		filter.Filters[catalog.FilterMaxPrice] = *query.MaxPrice
	}
	if !includeInactive {
		filter.Filters[catalog.FilterStatus] = string(catalog.ProductStatusActive)
	}

	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	paginated := shared.NewPaginated(ToProductResponses(products), total, filter.Page, filter.PageSize)
	return &paginated, nil
}
