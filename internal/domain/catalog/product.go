package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendora/backend/internal/domain/shared"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product represents a sellable item in the catalog
// It is the aggregate root for product-related operations.
// Rating and ReviewCount are denormalized summaries owned by the
// review aggregation engine; nothing else may write them.
type Product struct {
	shared.BaseAggregateRoot
	Name        string          `gorm:"type:varchar(200);not null"`
	Slug        string          `gorm:"type:varchar(220);not null;uniqueIndex"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Stock       int             `gorm:"not null;default:0"`
	ImageURL    string          `gorm:"type:varchar(500)"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	Status      ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
	Rating      decimal.Decimal `gorm:"type:decimal(3,2);not null;default:0"`
	ReviewCount int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product
func NewProduct(name, slug, description string, price decimal.Decimal, stock int) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateSlug(slug); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              strings.ToLower(slug),
		Description:       description,
		Price:             price,
		Stock:             stock,
		Status:            ProductStatusActive,
		Rating:            decimal.Zero,
	}, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string, price decimal.Decimal) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	p.Name = name
	p.Description = description
	p.Price = price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetCategory sets the product category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetImageURL sets the product image location
func (p *Product) SetImageURL(url string) error {
	if len(url) > 500 {
		return shared.NewDomainError("INVALID_IMAGE_URL", "Image URL cannot exceed 500 characters")
	}
	p.ImageURL = url
	p.UpdatedAt = time.Now()
	return nil
}

// AdjustStock changes the stock level by delta
func (p *Product) AdjustStock(delta int) error {
	if p.Stock+delta < 0 {
		return shared.ErrInsufficientStock
	}
	p.Stock += delta
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// ApplyRatingAggregate overwrites the denormalized rating summary.
// The average is rounded to two decimal places, half away from zero.
// An empty review set yields 0.00 and a zero count.
func (p *Product) ApplyRatingAggregate(average decimal.Decimal, count int64) {
	if count == 0 {
		p.Rating = decimal.Zero.Round(2)
	} else {
		p.Rating = average.Round(2)
	}
	p.ReviewCount = int(count)
	p.UpdatedAt = time.Now()
}

// Activate makes the product visible and purchasable
func (p *Product) Activate() {
	if p.Status == ProductStatusActive {
		return
	}
	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Deactivate hides the product from the storefront
func (p *Product) Deactivate() {
	if p.Status == ProductStatusInactive {
		return
	}
	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// HasStock reports whether the requested quantity is available
func (p *Product) HasStock(quantity int) bool {
	return p.Stock >= quantity
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validateSlug(slug string) error {
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot be empty")
	}
	if len(slug) > 220 {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot exceed 220 characters")
	}
	for _, r := range slug {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-') {
			return shared.NewDomainError("INVALID_SLUG", "Slug can only contain letters, numbers, and hyphens")
		}
	}
	return nil
}
