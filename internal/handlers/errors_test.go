package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/campus-marketplace/internal/i18n"
	"github.com/javajoker/campus-marketplace/internal/services"
	"github.com/javajoker/campus-marketplace/internal/utils"
)

func TestRespondErrorMapsKindsToCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	require.NoError(t, i18n.Initialize("en"))

	tests := []struct {
		name    string
		err     error
		status  int
		code    utils.ErrorCode
		message string
	}{
		{"permission denied", services.ErrPermissionDenied, http.StatusForbidden, utils.CodeForbidden, "You do not have permission to perform this action"},
		{"forbidden", &services.Error{Kind: services.KindForbidden, Message: services.MsgForbidden}, http.StatusForbidden, utils.CodeForbidden, services.MsgForbidden},
		{"not found", &services.Error{Kind: services.KindNotFound, Message: "Profile not found"}, http.StatusNotFound, utils.CodeNotFound, "Profile not found"},
		{"conflict", &services.Error{Kind: services.KindConflict, Message: "You cannot create multiple offers"}, http.StatusConflict, utils.CodeConflict, "You cannot create multiple offers"},
		{"invalid identity", &services.Error{Kind: services.KindInvalidIdentity, Message: "Please use your campus email"}, http.StatusUnauthorized, utils.CodeUnauthorized, "Please use your campus email"},
		{"wrapped", fmt.Errorf("load: %w", &services.Error{Kind: services.KindNotFound, Message: "Product not found"}), http.StatusNotFound, utils.CodeNotFound, "Product not found"},
		{"internal", errors.New("connection reset by peer"), http.StatusInternalServerError, utils.CodeInternal, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body utils.APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.message, body.Error.Message)
			assert.Nil(t, body.Error.Details)
		})
	}
}

func TestRespondErrorListsValidationDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, &services.Error{
		Kind:    services.KindInvalidArgument,
		Message: "Name is required; Price must be at least 0",
		Details: []string{"Name is required", "Price must be at least 0"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{
		"success": false,
		"error": {
			"code": "BAD_REQUEST",
			"message": "Name is required; Price must be at least 0",
			"details": ["Name is required", "Price must be at least 0"]
		}
	}`, w.Body.String())
}
