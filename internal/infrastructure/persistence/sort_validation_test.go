package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"asc", "ASC"},
		{"ASC", "ASC"},
		{" asc ", "ASC"},
		{"desc", "DESC"},
		{"", "DESC"},
		{"sideways", "DESC"},
		{"ASC; DROP TABLE reviews", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		allowed  map[string]bool
		expected string
	}{
		{"whitelisted field passes", "price", ProductSortFields, "price"},
		{"rating passes for products", "rating", ProductSortFields, "rating"},
		{"empty falls back", "", ProductSortFields, "created_at"},
		{"unknown falls back", "secret_column", ProductSortFields, "created_at"},
		{"injection attempt falls back", "price; DELETE FROM products", ProductSortFields, "created_at"},
		{"category whitelist excludes price", "price", CategorySortFields, "created_at"},
		{"order total passes", "total", OrderSortFields, "total"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, tt.allowed, "created_at"))
		})
	}
}
