package helpers

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1 // Default page is 1-based
	// MaxPage bounds page numbers so offsets stay within PostgreSQL bigint.
	MaxPage         = math.MaxInt32
)

// Page is a parsed page/size pair. A zero Page means "no pagination requested".
type Page struct {
	Number int
	Size   int
}

// IsZero reports whether no pagination was requested.
func (p Page) IsZero() bool {
	return p.Number == 0 && p.Size == 0
}

// CalculateOffsetLimit calculates the offset and limit for SQL queries based on 1-based page index.
func CalculateOffsetLimit(page, size int) (offset uint64, limit int) {
	if size <= 0 || size > MaxPageSize {
		limit = DefaultPageSize
	} else {
		limit = size
	}

	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}

	offset = uint64(page-1) * uint64(limit)
	return offset, limit
}

// ParsePaginationParams extracts page and size from the query string. When
// neither is present the zero Page is returned and the full list is served.
func ParsePaginationParams(c *gin.Context) Page {
	pageStr, hasPage := c.GetQuery("page")
	sizeStr, hasSize := c.GetQuery("size")
	if !hasPage && !hasSize {
		return Page{}
	}

	page, err := strconv.Atoi(pageStr)
	switch {
	case errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(pageStr, "-"):
		page = MaxPage
	case err != nil || page < 1:
		page = DefaultPage
	case page > MaxPage:
		page = MaxPage
	}

	size, err := strconv.Atoi(sizeStr)
	if err != nil || size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}

	return Page{Number: page, Size: size}
}

// CalculateSliceIndices calculates the start and end indices for slicing an array for pagination
func CalculateSliceIndices(page, size, totalItems int) (start, end int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}

	start = (page - 1) * size
	if start < 0 || start > totalItems {
		start = totalItems
	}
	end = start + size

	if start >= totalItems {
		start = totalItems
		end = totalItems
	}
	if end > totalItems {
		end = totalItems
	}

	return start, end
}
