package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate_middlePage(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	page := Paginate(items, 2, 10)

	assert.Len(t, page, 10)
	assert.Equal(t, 10, page[0])
	assert.Equal(t, 19, page[9])
	assert.Equal(t, 3, TotalPages(len(items), 10))
}

func TestPaginate_lastPartialPage(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	page := Paginate(items, 2, 3)

	assert.Equal(t, []string{"d", "e"}, page)
}

func TestPaginate_pastEnd(t *testing.T) {
	items := []string{"a", "b"}

	assert.Empty(t, Paginate(items, 5, 10))
	assert.Nil(t, Paginate(items, 0, 10))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
}
