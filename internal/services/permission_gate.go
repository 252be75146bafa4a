// internal/services/permission_gate.go
package services

import (
	"context"

	"github.com/javajoker/campus-marketplace/internal/models"
)

type viewerKey struct{}

// WithViewer attaches the authenticated caller's profile to ctx.
func WithViewer(ctx context.Context, profile *models.Profile) context.Context {
	if profile == nil {
		return ctx
	}
	return context.WithValue(ctx, viewerKey{}, profile)
}

func ViewerFromContext(ctx context.Context) (*models.Profile, bool) {
	profile, ok := ctx.Value(viewerKey{}).(*models.Profile)
	return profile, ok && profile != nil
}

// Authenticated returns the caller's profile or ErrPermissionDenied for
// anonymous requests.
func Authenticated(ctx context.Context) (*models.Profile, error) {
	profile, ok := ViewerFromContext(ctx)
	if !ok {
		return nil, ErrPermissionDenied
	}
	return profile, nil
}

// RequireLevel authenticates the caller and checks its tier.
func RequireLevel(ctx context.Context, min models.PermissionLevel) (*models.Profile, error) {
	profile, err := Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	if !profile.PermissionLevel.AtLeast(min) {
		return nil, ErrPermissionDenied
	}
	return profile, nil
}

// RequireOwner fails with Forbidden unless profile sold the product.
func RequireOwner(product *models.Product, profile *models.Profile) error {
	if product == nil || profile == nil || !product.OwnedBy(profile.ID) {
		return newError(KindForbidden, MsgForbidden)
	}
	return nil
}

// IsGateError reports whether err came from the permission gate rather than
// the operation itself.
func IsGateError(err error) bool {
	return KindOf(err) == KindPermissionDenied
}
