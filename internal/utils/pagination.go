// internal/utils/pagination.go
package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PaginationParams struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

type PaginationResult struct {
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	Total      int64       `json:"total"`
	TotalPages int         `json:"total_pages"`
	Data       interface{} `json:"data"`
}

// GetPaginationParams reads page/limit query parameters for REST listings.
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize)))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > MaxPageSize {
		limit = DefaultPageSize
	}

	return PaginationParams{Page: page, Limit: limit}
}

func CreatePaginationResult(data interface{}, total int64, params PaginationParams) PaginationResult {
	totalPages := int(math.Ceil(float64(total) / float64(params.Limit)))

	return PaginationResult{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
		Data:       data,
	}
}

func SetPaginationHeaders(c *gin.Context, result PaginationResult) {
	c.Header("X-Total-Count", strconv.FormatInt(result.Total, 10))
	c.Header("X-Page", strconv.Itoa(result.Page))
	c.Header("X-Per-Page", strconv.Itoa(result.Limit))
	c.Header("X-Total-Pages", strconv.Itoa(result.TotalPages))
}

// PageWindow is a resolved page over a result set of known size.
type PageWindow struct {
	Number  int
	Pages   int
	Size    int
	HasNext bool
	HasPrev bool
}

func (w PageWindow) Offset() int {
	return (w.Number - 1) * w.Size
}

// ResolvePage never fails. A missing page means the first page, a page
// outside 1..pages means the last one, and an empty result still has a
// single (empty) page.
func ResolvePage(total int64, requested *int, pageSize int) PageWindow {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	pages := int(math.Ceil(float64(total) / float64(pageSize)))
	if pages < 1 {
		pages = 1
	}

	number := 1
	if requested != nil {
		number = *requested
		if number < 1 || number > pages {
			number = pages
		}
	}

	return PageWindow{
		Number:  number,
		Pages:   pages,
		Size:    pageSize,
		HasNext: number < pages,
		HasPrev: number > 1,
	}
}
