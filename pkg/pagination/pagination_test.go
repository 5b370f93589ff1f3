package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromQuery(t *testing.T) {
	tests := []struct {
		name        string
		page        string
		perPage     string
		wantPage    int
		wantPerPage int
	}{
		{"defaults", "", "", 1, DefaultPerPage},
		{"explicit", "3", "20", 3, 20},
		{"garbage", "abc", "-4", 1, DefaultPerPage},
		{"clamped", "2", "1000", 2, MaxPerPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := FromQuery(tt.page, tt.perPage)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPerPage, p.PerPage)
		})
	}
}

func TestNewPaginatedResult(t *testing.T) {
	params := &PaginationParams{Page: 2, PerPage: 10}
	result := NewPaginatedResult[string](nil, params, 25)

	assert.NotNil(t, result.Items)
	assert.Equal(t, 3, result.Pagination.TotalPages)
	assert.True(t, result.Pagination.HasNext)
	assert.True(t, result.Pagination.HasPrev)
	assert.Equal(t, 10, params.Offset())
}

func TestEnsure(t *testing.T) {
	assert.Equal(t, DefaultPagination(), Ensure(nil))

	p := Ensure(&PaginationParams{Page: 0, PerPage: 500})
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxPerPage, p.PerPage)
}
