package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		page      int
		perPage   int
		wantPages int
	}{
		{"empty result still has one page", 0, 1, 20, 1},
		{"exact multiple", 40, 2, 20, 2},
		{"partial last page", 41, 3, 20, 3},
		{"single item", 1, 1, 100, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.total, tt.page, tt.perPage)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.page, p.CurrentPage)
			assert.Equal(t, tt.perPage, p.PerPage)
			assert.Equal(t, tt.total, p.TotalCount)
		})
	}
}
