package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 45)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, 45, p.TotalRecords)
	assert.Equal(t, 5, p.TotalPages)
}

func TestNewPaginationClampsPage(t *testing.T) {
	assert.Equal(t, 1, NewPagination(0, 3).Page)
	assert.Equal(t, 1, NewPagination(-4, 3).Page)
}

func TestNewPaginationEmpty(t *testing.T) {
	p := NewPagination(1, 0)
	assert.Equal(t, 0, p.TotalPages)
	assert.Equal(t, 0, p.TotalRecords)
}

func TestNewPaginationExactMultiple(t *testing.T) {
	assert.Equal(t, 4, NewPagination(1, 40).TotalPages)
}
