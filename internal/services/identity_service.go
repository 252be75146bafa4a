// internal/services/identity_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/campus-marketplace/internal/config"
	"github.com/javajoker/campus-marketplace/internal/metrics"
	"github.com/javajoker/campus-marketplace/internal/models"
	"github.com/javajoker/campus-marketplace/internal/repository"
	"github.com/javajoker/campus-marketplace/internal/utils"
)

const (
	maxUsernameAttempts = 5
	// maxUsernameBase leaves room for the "_xxxx" suffix in the
	// 150 character username column.
	maxUsernameBase = 140
)

// Identity is what the identity provider asserts about a token's holder.
type Identity struct {
	Email        string
	Issuer       string
	Verified     bool
	HostedDomain string
}

// IdentityVerifier checks an identity provider token.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

type IdentityService struct {
	store    repository.Store
	verifier IdentityVerifier
	identity config.IdentityConfig
	jwt      config.JWTConfig
	now      func() time.Time
}

type LoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type LoginResult struct {
	Token   string          `json:"token"`
	User    *models.User    `json:"-"`
	Profile *models.Profile `json:"-"`
	IsNew   bool            `json:"isNew"`
}

func NewIdentityService(store repository.Store, verifier IdentityVerifier, cfg *config.Config) *IdentityService {
	return &IdentityService{
		store:    store,
		verifier: verifier,
		identity: cfg.Identity,
		jwt:      cfg.JWT,
		now:      time.Now,
	}
}

// Authenticate verifies an identity provider token and finds or creates the
// matching account. Repeat logins re-issue a session token.
func (s *IdentityService) Authenticate(ctx context.Context, idToken string) (*LoginResult, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, newError(KindInvalidArgument, "id_token is required")
	}

	identity, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		logrus.WithError(err).Debug("Identity token rejected")
		return nil, newError(KindInvalidIdentity, "Identity token could not be verified")
	}
	if err := s.checkIdentity(identity); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(identity.Email))

	isNew := false
	user, err := s.store.FindUserByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		user, err = s.register(ctx, email)
		if err != nil {
			return nil, err
		}
		isNew = true
	case err != nil:
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	profile := user.Profile
	if profile == nil {
		profile, err = s.store.GetProfileByUserID(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
	}

	token, err := utils.GenerateJWT(user.ID, user.Username, s.jwt.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if err := s.store.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("Failed to record last login")
	}

	metrics.RecordLogin(isNew)
	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
		"new":      isNew,
	}).Info("User logged in")

	return &LoginResult{
		Token:   token,
		User:    user,
		Profile: profile,
		IsNew:   isNew,
	}, nil
}

func (s *IdentityService) checkIdentity(identity *Identity) error {
	if identity == nil || !identity.Verified || identity.Email == "" {
		return ErrPermissionDenied
	}
	if !s.trustedIssuer(identity.Issuer) {
		return ErrPermissionDenied
	}
	if s.identity.RestrictDomain && !strings.EqualFold(models.EmailDomain(identity.Email), s.identity.TrustedDomain) {
		return newError(KindInvalidIdentity, "Email domain %s is not allowed to sign in", models.EmailDomain(identity.Email))
	}
	return nil
}

func (s *IdentityService) trustedIssuer(issuer string) bool {
	if len(s.identity.TrustedIssuers) == 0 {
		return true
	}
	for _, trusted := range s.identity.TrustedIssuers {
		if issuer == trusted {
			return true
		}
	}
	return false
}

func (s *IdentityService) register(ctx context.Context, email string) (*models.User, error) {
	username, err := s.availableUsername(ctx, models.EmailLocalPart(email))
	if err != nil {
		return nil, err
	}

	secret, err := utils.GenerateAccountSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate account secret: %w", err)
	}

	user := &models.User{Username: username, Email: email}
	if err := user.SetPassword(secret); err != nil {
		return nil, fmt.Errorf("failed to hash account secret: %w", err)
	}

	profile := &models.Profile{}
	profile.AssignEmail(email, s.identity.TrustedDomain)

	if err := s.store.CreateAccount(ctx, user, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// A concurrent login for the same email won the insert.
			existing, findErr := s.store.FindUserByEmail(ctx, email)
			if findErr == nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	user.Profile = profile

	logrus.WithFields(logrus.Fields{
		"user_id":          user.ID,
		"username":         user.Username,
		"permission_level": profile.PermissionLevel.String(),
	}).Info("Account created")

	return user, nil
}

func (s *IdentityService) availableUsername(ctx context.Context, base string) (string, error) {
	if base == "" {
		base = "user"
	}
	if runes := []rune(base); len(runes) > maxUsernameBase {
		base = string(runes[:maxUsernameBase])
	}

	candidate := base
	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		taken, err := s.store.UsernameTaken(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check username: %w", err)
		}
		if !taken {
			return candidate, nil
		}

		suffix, err := utils.GenerateUsernameSuffix()
		if err != nil {
			return "", fmt.Errorf("failed to generate username: %w", err)
		}
		candidate = base + "_" + suffix
	}

	return "", newError(KindConflict, "Could not derive a free username for %s", base)
}

// ResolveViewer loads the profile behind a session token's user id.
func (s *IdentityService) ResolveViewer(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile, err := s.store.GetProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPermissionDenied
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

// Me returns the caller's account and profile.
func (s *IdentityService) Me(ctx context.Context) (*models.User, *models.Profile, error) {
	profile, err := Authenticated(ctx)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.store.FindUserByID(ctx, profile.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load account: %w", err)
	}
	return user, profile, nil
}
