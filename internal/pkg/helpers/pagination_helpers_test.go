package helpers

import (
	"math"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCalculateOffsetLimit(t *testing.T) {
	tests := []struct {
		page, size int
		offset     uint64
		limit      int
	}{
		{page: 1, size: 10, offset: 0, limit: 10},
		{page: 3, size: 20, offset: 40, limit: 20},
		{page: 0, size: 5, offset: 0, limit: 5},
		{page: 2, size: 0, offset: 10, limit: DefaultPageSize},
		{page: 1, size: MaxPageSize + 1, offset: 0, limit: DefaultPageSize},
		{page: MaxPage, size: MaxPageSize, offset: uint64(MaxPage-1) * MaxPageSize, limit: MaxPageSize},
		{page: math.MaxInt, size: 16, offset: uint64(MaxPage-1) * 16, limit: 16},
		{page: math.MaxInt / 100, size: MaxPageSize, offset: uint64(MaxPage-1) * MaxPageSize, limit: MaxPageSize},
	}

	for _, tt := range tests {
		offset, limit := CalculateOffsetLimit(tt.page, tt.size)
		assert.Equal(t, tt.offset, offset, "page=%d size=%d", tt.page, tt.size)
		assert.Equal(t, tt.limit, limit, "page=%d size=%d", tt.page, tt.size)
	}
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	parse := func(query string) Page {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/items"+query, nil)
		return ParsePaginationParams(c)
	}

	assert.True(t, parse("").IsZero())
	assert.Equal(t, Page{Number: 2, Size: 5}, parse("?page=2&size=5"))
	assert.Equal(t, Page{Number: 3, Size: DefaultPageSize}, parse("?page=3"))
	assert.Equal(t, Page{Number: DefaultPage, Size: 7}, parse("?size=7"))
	assert.Equal(t, Page{Number: DefaultPage, Size: DefaultPageSize}, parse("?page=-1&size=abc"))
	assert.Equal(t, Page{Number: MaxPage, Size: 16}, parse("?page=1152921504606846977&size=16"))
	assert.Equal(t, Page{Number: MaxPage, Size: 16}, parse("?page=99999999999999999999999&size=16"))
	assert.Equal(t, Page{Number: DefaultPage, Size: 16}, parse("?page=-99999999999999999999999&size=16"))
}

func TestCalculateSliceIndices(t *testing.T) {
	start, end := CalculateSliceIndices(2, 3, 7)
	assert.Equal(t, 3, start)
	assert.Equal(t, 6, end)

	start, end = CalculateSliceIndices(3, 3, 7)
	assert.Equal(t, 6, start)
	assert.Equal(t, 7, end)

	start, end = CalculateSliceIndices(5, 3, 7)
	assert.Equal(t, 7, start)
	assert.Equal(t, 7, end)

	start, end = CalculateSliceIndices(math.MaxInt, MaxPageSize, 7)
	assert.Equal(t, 7, start)
	assert.Equal(t, 7, end)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 90*time.Second, ParseDuration("1m30s", time.Hour))
	assert.Equal(t, time.Hour, ParseDuration("soon", time.Hour))
	assert.Equal(t, time.Hour, ParseDuration("", time.Hour))
	assert.Equal(t, time.Hour, ParseDuration("-5m", time.Hour))
}

func TestRemaining(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 2*time.Hour, Remaining(now.Add(2*time.Hour), now))
	assert.Zero(t, Remaining(now.Add(-time.Minute), now))
}
