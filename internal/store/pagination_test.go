package store

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageParams_Validate(t *testing.T) {
	tests := []struct {
		name string
		in   PageParams
		def  int
		want PageParams
	}{
		{"zero values take defaults", PageParams{}, 10, PageParams{Page: 1, Size: 10}},
		{"negative page", PageParams{Page: -3, Size: 5}, 10, PageParams{Page: 1, Size: 5}},
		{"oversized page", PageParams{Page: 2, Size: 5000}, 10, PageParams{Page: 2, Size: MaxPageSize}},
		{"no default falls back", PageParams{}, 0, PageParams{Page: 1, Size: DefaultPageSize}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.Validate(tt.def)
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestPageParams_Offset(t *testing.T) {
	assert.Equal(t, 0, PageParams{Page: 1, Size: 10}.Offset())
	assert.Equal(t, 20, PageParams{Page: 3, Size: 10}.Offset())
}

func TestNewPage(t *testing.T) {
	p := NewPage([]int{1, 2}, PageParams{Page: 1, Size: 2}, 5)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasMore)

	last := NewPage([]int{5}, PageParams{Page: 3, Size: 2}, 5)
	assert.False(t, last.HasMore)

	empty := NewPage[int](nil, PageParams{Page: 1, Size: 2}, 0)
	assert.NotNil(t, empty.Items)
	assert.Equal(t, 0, empty.TotalPages)
}

func TestMapPage(t *testing.T) {
	p := NewPage([]int{1, 2}, PageParams{Page: 1, Size: 2}, 3)
	mapped := MapPage(p, strconv.Itoa)

	assert.Equal(t, []string{"1", "2"}, mapped.Items)
	assert.Equal(t, p.Total, mapped.Total)
	assert.Equal(t, p.HasMore, mapped.HasMore)
}
