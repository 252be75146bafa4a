// internal/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/campus-marketplace/internal/i18n"
	"github.com/javajoker/campus-marketplace/internal/services"
	"github.com/javajoker/campus-marketplace/internal/utils"
)

type AuthHandler struct {
	identityService *services.IdentityService
}

func NewAuthHandler(identityService *services.IdentityService) *AuthHandler {
	return &AuthHandler{
		identityService: identityService,
	}
}

// POST /auth/login
// Exchanges an identity provider token for a session token, creating the
// account on first use.
func (h *AuthHandler) Login(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.CodeBadRequest, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.Fail(c, utils.CodeValidation, "", validationErrors)
		return
	}

	result, err := h.identityService.Authenticate(c.Request.Context(), req.IDToken)
	if err != nil {
		if services.KindOf(err) == services.KindPermissionDenied {
			utils.Fail(c, utils.CodeUnauthorized, i18n.T(lang, i18n.KeyAuthInvalidIdentity), nil)
			return
		}
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyAuthLoginSuccess),
		"token":    result.Token,
		"username": result.User.Username,
		"email":    result.User.Email,
		"isNew":    result.IsNew,
	})
}

// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, profile, err := h.identityService.Me(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"username":         user.Username,
		"email":            user.Email,
		"last_login_at":    user.LastLoginAt,
		"profile_id":       profile.ID,
		"permission_level": profile.PermissionLevel.String(),
		"is_complete":      profile.IsComplete,
	})
}
