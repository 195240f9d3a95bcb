package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Pagination
		want Pagination
	}{
		{name: "defaults", in: Pagination{}, want: Pagination{Page: 1, Limit: 10}},
		{name: "negative", in: Pagination{Page: -3, Limit: -1}, want: Pagination{Page: 1, Limit: 10}},
		{name: "capped", in: Pagination{Page: 2, Limit: 500}, want: Pagination{Page: 2, Limit: 100}},
		{name: "kept", in: Pagination{Page: 4, Limit: 25}, want: Pagination{Page: 4, Limit: 25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Pagination{}.Offset())
	assert.Equal(t, 20, Pagination{Page: 3, Limit: 10}.Offset())
}

func TestTrim(t *testing.T) {
	rows, info := Trim([]int{1, 2, 3}, Pagination{Page: 1, Limit: 2})
	assert.Equal(t, []int{1, 2}, rows)
	assert.True(t, info.HasMore)

	rows, info = Trim([]int{1}, Pagination{Page: 2, Limit: 2})
	assert.Equal(t, []int{1}, rows)
	assert.False(t, info.HasMore)
	assert.Equal(t, 2, info.Page)
}
