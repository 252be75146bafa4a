// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/campus-marketplace/internal/i18n"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

type APIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorCode is the machine readable code of a failed REST call. Each code
// has a fixed HTTP status and a localized fallback message.
type ErrorCode string

const (
	CodeBadRequest   ErrorCode = "BAD_REQUEST"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeRateLimited  ErrorCode = "RATE_LIMITED"
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
)

var codeStatus = map[ErrorCode]int{
	CodeBadRequest:   http.StatusBadRequest,
	CodeValidation:   http.StatusBadRequest,
	CodeUnauthorized: http.StatusUnauthorized,
	CodeForbidden:    http.StatusForbidden,
	CodeNotFound:     http.StatusNotFound,
	CodeConflict:     http.StatusConflict,
	CodeRateLimited:  http.StatusTooManyRequests,
	CodeInternal:     http.StatusInternalServerError,
}

// Status returns the HTTP status written for code.
func (code ErrorCode) Status() int {
	if status, ok := codeStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func (code ErrorCode) defaultMessage(lang string) string {
	switch code {
	case CodeBadRequest:
		return i18n.T(lang, i18n.KeyValidationInvalid, "request")
	case CodeValidation:
		return i18n.T(lang, i18n.KeyValidationInvalid, "input")
	case CodeUnauthorized:
		return i18n.T(lang, i18n.KeyAuthRequired)
	case CodeForbidden:
		return i18n.T(lang, i18n.KeyPermissionDenied)
	case CodeNotFound:
		return i18n.T(lang, i18n.KeyNotFound)
	case CodeRateLimited:
		return i18n.T(lang, i18n.KeyRateLimited)
	default:
		return i18n.T(lang, i18n.KeyInternalError)
	}
}

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// Fail writes the error envelope for code. An empty message is replaced
// by the code's localized fallback.
func Fail(c *gin.Context, code ErrorCode, message string, details interface{}) {
	if message == "" {
		message = code.defaultMessage(GetLangFromContext(c))
	}
	c.JSON(code.Status(), APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func PaginatedResponse(c *gin.Context, result PaginationResult) {
	SetPaginationHeaders(c, result)
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    result.Data,
		Meta: gin.H{
			"pagination": gin.H{
				"page":        result.Page,
				"limit":       result.Limit,
				"total":       result.Total,
				"total_pages": result.TotalPages,
			},
		},
	})
}

func GetLangFromContext(c *gin.Context) string {
	if lang, exists := c.Get("lang"); exists {
		if langStr, ok := lang.(string); ok {
			return langStr
		}
	}
	return "en"
}
