package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	tests := []struct {
		name     string
		in       PageRequest
		wantPage int
		wantSize int
	}{
		{"zero values", PageRequest{}, 1, 20},
		{"explicit", PageRequest{Page: 3, PageSize: 10}, 3, 10},
		{"oversized", PageRequest{Page: 1, PageSize: 500}, 1, 100},
		{"negative", PageRequest{Page: -2, PageSize: -1}, 1, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.in
			req.Defaults()
			assert.Equal(t, tt.wantPage, req.Page)
			assert.Equal(t, tt.wantSize, req.PageSize)
		})
	}
}

func TestOffset(t *testing.T) {
	req := PageRequest{Page: 3, PageSize: 25}
	assert.Equal(t, 50, req.Offset())
}

func TestNewPageResponse(t *testing.T) {
	resp := NewPageResponse([]string{"a", "b"}, 1, 2, 5)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Len(t, resp.Data, 2)

	empty := NewPageResponse[string](nil, 1, 20, 0)
	assert.NotNil(t, empty.Data)
	assert.Equal(t, 0, empty.TotalPages)
}
