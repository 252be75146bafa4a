// internal/middleware/auth.go
package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/campus-marketplace/internal/models"
	"github.com/javajoker/campus-marketplace/internal/services"
	"github.com/javajoker/campus-marketplace/internal/utils"
)

// ViewerResolver loads the profile behind a session token's account id.
type ViewerResolver interface {
	ResolveViewer(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

const profileKey = "profile"

// OptionalAuth attaches the caller's profile to the request when a valid
// bearer token is present. Requests without one continue anonymously.
func OptionalAuth(viewers ViewerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := utils.ValidateJWT(token)
		if err != nil {
			logrus.WithError(err).Debug("Ignoring invalid session token")
			c.Next()
			return
		}

		userID, err := claims.ParseUserID()
		if err != nil {
			c.Next()
			return
		}

		profile, err := viewers.ResolveViewer(c.Request.Context(), userID)
		if err != nil {
			if !services.IsGateError(err) {
				logrus.WithError(err).WithField("user_id", userID).Error("Failed to resolve session")
			}
			c.Next()
			return
		}

		// Set user info in context
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set(profileKey, profile)
		c.Request = c.Request.WithContext(services.WithViewer(c.Request.Context(), profile))
		c.Next()
	}
}

// AuthRequired rejects requests that OptionalAuth left anonymous.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := ProfileFromContext(c); !ok {
			utils.Fail(c, utils.CodeUnauthorized, "", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireLevel rejects callers below min. It must run after AuthRequired.
func RequireLevel(min models.PermissionLevel) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := ProfileFromContext(c)
		if !ok || !profile.PermissionLevel.AtLeast(min) {
			utils.Fail(c, utils.CodeForbidden, "", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func ProfileFromContext(c *gin.Context) (*models.Profile, bool) {
	value, exists := c.Get(profileKey)
	if !exists {
		return nil, false
	}
	profile, ok := value.(*models.Profile)
	return profile, ok && profile != nil
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
