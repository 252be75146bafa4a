package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestResolvePage(t *testing.T) {
	cases := []struct {
		name      string
		total     int64
		requested *int
		size      int
		want      PageWindow
	}{
		{"missing page", 45, nil, 20, PageWindow{Number: 1, Pages: 3, Size: 20, HasNext: true}},
		{"middle", 45, intPtr(2), 20, PageWindow{Number: 2, Pages: 3, Size: 20, HasNext: true, HasPrev: true}},
		{"beyond last", 45, intPtr(9), 20, PageWindow{Number: 3, Pages: 3, Size: 20, HasPrev: true}},
		{"zero", 45, intPtr(0), 20, PageWindow{Number: 3, Pages: 3, Size: 20, HasPrev: true}},
		{"negative", 45, intPtr(-4), 20, PageWindow{Number: 3, Pages: 3, Size: 20, HasPrev: true}},
		{"empty result", 0, intPtr(5), 20, PageWindow{Number: 1, Pages: 1, Size: 20}},
		{"default size", 21, intPtr(2), 0, PageWindow{Number: 2, Pages: 2, Size: DefaultPageSize, HasPrev: true}},
		{"exact fit", 40, intPtr(2), 20, PageWindow{Number: 2, Pages: 2, Size: 20, HasPrev: true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolvePage(tc.total, tc.requested, tc.size))
		})
	}
}

func TestPageWindowOffset(t *testing.T) {
	assert.Equal(t, 0, ResolvePage(100, nil, 10).Offset())
	assert.Equal(t, 30, ResolvePage(100, intPtr(4), 10).Offset())
}

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/v1/admin/reports?page=-1&limit=1000", nil)

	params := GetPaginationParams(c)
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, DefaultPageSize, params.Limit)
	assert.Equal(t, 0, params.Offset())
}
