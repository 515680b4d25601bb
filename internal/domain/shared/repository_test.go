package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePagination(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		defaultSize  int
		wantPage     int
		wantPageSize int
	}{
		{"defaults applied when unset", 0, 0, 10, 1, 10},
		{"negative page clamped to 1", -5, 20, 10, 1, 20},
		{"zero page clamped to 1", 0, 20, 10, 1, 20},
		{"page size above max clamped", 1, 500, 10, 1, MaxPageSize},
		{"page size at max unchanged", 1, MaxPageSize, 10, 1, MaxPageSize},
		{"negative page size falls back to default", 1, -1, 15, 1, 15},
		{"valid values pass through", 3, 25, 10, 3, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Filter{Page: tt.page, PageSize: tt.pageSize}
			f.NormalizePagination(tt.defaultSize)
			assert.Equal(t, tt.wantPage, f.Page)
			assert.Equal(t, tt.wantPageSize, f.PageSize)
		})
	}
}

func TestNewPaginated(t *testing.T) {
	t.Run("computes total pages with remainder", func(t *testing.T) {
		p := NewPaginated([]int{1, 2, 3}, 25, 1, 10)
		assert.Equal(t, 3, p.TotalPages)
		assert.Equal(t, int64(25), p.Total)
	})

	t.Run("exact division", func(t *testing.T) {
		p := NewPaginated([]int{}, 30, 2, 10)
		assert.Equal(t, 3, p.TotalPages)
	})

	t.Run("empty result has zero pages", func(t *testing.T) {
		p := NewPaginated([]int{}, 0, 1, 10)
		assert.Equal(t, 0, p.TotalPages)
	})
}

func TestDomainError(t *testing.T) {
	err := NewDomainError("NOT_FOUND", "Resource not found")
	assert.Equal(t, "Resource not found", err.Error())
	assert.Equal(t, "NOT_FOUND", err.Code)
}
