package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/campus-marketplace/internal/i18n"
)

func TestFailUsesCodeStatusAndFallbackMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	require.NoError(t, i18n.Initialize("en"))

	tests := []struct {
		code    ErrorCode
		message string
		status  int
		want    string
	}{
		{CodeBadRequest, "", http.StatusBadRequest, "Invalid request"},
		{CodeValidation, "", http.StatusBadRequest, "Invalid input"},
		{CodeUnauthorized, "", http.StatusUnauthorized, "Authentication required"},
		{CodeForbidden, "", http.StatusForbidden, "You do not have permission to perform this action"},
		{CodeNotFound, "", http.StatusNotFound, "Resource not found"},
		{CodeConflict, "You cannot create multiple offers", http.StatusConflict, "You cannot create multiple offers"},
		{CodeRateLimited, "", http.StatusTooManyRequests, "Rate limit exceeded"},
		{CodeInternal, "", http.StatusInternalServerError, "Internal server error"},
		{ErrorCode("TEAPOT"), "", http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Fail(c, tt.code, tt.message, nil)

			assert.Equal(t, tt.status, w.Code)
			var body APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.want, body.Error.Message)
		})
	}
}

func TestPaginatedResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	PaginatedResponse(c, CreatePaginationResult([]string{"a", "b"}, 12, PaginationParams{Page: 2, Limit: 5}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "12", w.Header().Get("X-Total-Count"))
	assert.JSONEq(t, `{
		"success": true,
		"data": ["a", "b"],
		"meta": {"pagination": {"page": 2, "limit": 5, "total": 12, "total_pages": 3}}
	}`, w.Body.String())
}
