package aggregate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginate_ConcatenationReconstructsInput(t *testing.T) {
	for _, total := range []int{0, 1, 4, 5, 6, 13} {
		for size := 1; size <= 7; size++ {
			items := seq(total)
			first := Paginate(items, size, 1)

			var got []int
			for p := 1; p <= first.TotalPages; p++ {
				got = append(got, Paginate(items, size, p).Items...)
			}
			if total == 0 {
				assert.Empty(t, got)
				continue
			}
			assert.Equal(t, items, got, "total=%d size=%d", total, size)
		}
	}
}

func TestPaginate_Bounds(t *testing.T) {
	p := Paginate(seq(13), 5, 3)
	assert.Equal(t, []int{11, 12, 13}, p.Items)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 10, p.Start)
	assert.Equal(t, 13, p.End)
	assert.True(t, p.HasPrev())
	assert.False(t, p.HasNext())
}

func TestPaginate_Clamping(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		size     int
		page     int
		wantPage int
		wantSize int
		want     []int
	}{
		{"default size", 7, 0, 1, 1, DefaultPageSize, []int{1, 2, 3, 4, 5}},
		{"negative size", 7, -3, 2, 2, DefaultPageSize, []int{6, 7}},
		{"page below one", 7, 5, 0, 1, 5, []int{1, 2, 3, 4, 5}},
		{"page past end", 7, 5, 99, 2, 5, []int{6, 7}},
		{"empty input", 0, 5, 3, 1, 5, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(seq(tt.total), tt.size, tt.page)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantSize, p.Size)
			assert.Equal(t, tt.want, p.Items)
		})
	}
}

func TestPaginate_EmptyHasNoPages(t *testing.T) {
	p := Paginate[string](nil, 5, 1)
	assert.Equal(t, 0, p.TotalPages)
	assert.NotNil(t, p.Items)
	assert.False(t, p.HasNext())
}

func TestPaginate_HugeSize(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	p := Paginate(items, math.MaxInt, 1)
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, items, p.Items)
	assert.Equal(t, 5, p.End)
}

func TestPageWindow(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 4, 5}, PageWindow(1, 10, 5))
	assert.Equal(t, []int{3, 4, 5, 6, 7}, PageWindow(5, 10, 5))
	assert.Equal(t, []int{8, 9, 10}, PageWindow(10, 10, 5))
	assert.Equal(t, []int{1, 2, 3}, PageWindow(2, 3, 0))
	assert.Nil(t, PageWindow(1, 1, 5))
}
