// internal/services/profile_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/campus-marketplace/internal/models"
	"github.com/javajoker/campus-marketplace/internal/repository"
	"github.com/javajoker/campus-marketplace/internal/utils"
)

const MsgProfileNotOwner = "Users are allowed to update only their respective profile."

type ProfileService struct {
	store repository.Store
}

// UpdateProfileInput holds the user editable profile fields; nil means
// unchanged.
type UpdateProfileInput struct {
	Name      *string `json:"name" validate:"omitempty,max=100"`
	Hostel    *string `json:"hostel" validate:"omitempty,hostel"`
	ContactNo *string `json:"contact_no" validate:"omitempty,e164"`
}

func NewProfileService(store repository.Store) *ProfileService {
	return &ProfileService{store: store}
}

// UpdateProfile applies the present fields of input to the caller's own
// profile and recomputes is_complete.
func (s *ProfileService) UpdateProfile(ctx context.Context, username string, input *UpdateProfileInput) (*models.Profile, error) {
	caller, err := Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	if input == nil {
		return nil, newError(KindInvalidArgument, MsgMissingInput)
	}

	profile, err := s.store.GetProfileByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindNotFound, "Profile with username %s does not exist", username)
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile.ID != caller.ID {
		return nil, newError(KindForbidden, MsgProfileNotOwner)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return nil, validationError(err)
	}

	if input.Name != nil {
		profile.Name = strings.TrimSpace(*input.Name)
	}
	if input.Hostel != nil {
		profile.Hostel = models.Hostel(*input.Hostel)
	}
	if input.ContactNo != nil {
		if contact := strings.TrimSpace(*input.ContactNo); contact != "" {
			profile.ContactNo = &contact
		} else {
			profile.ContactNo = nil
		}
	}
	profile.RefreshCompleteness()

	if err := s.store.SaveProfile(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(KindConflict, "Contact number %s is already in use", *profile.ContactNo)
		}
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"profile_id":  profile.ID,
		"is_complete": profile.IsComplete,
	}).Debug("Profile updated")

	return profile, nil
}

// Profile lookups return nil without error when nothing matches.

func (s *ProfileService) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	return nilIfNotFound(s.store.GetProfile(ctx, id))
}

func (s *ProfileService) GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return nilIfNotFound(s.store.GetProfileByUsername(ctx, username))
}

func (s *ProfileService) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return nilIfNotFound(s.store.GetProfileByEmail(ctx, email))
}

func (s *ProfileService) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	return s.store.ListProfiles(ctx)
}

// Username resolves the account name behind a profile.
func (s *ProfileService) Username(ctx context.Context, profile *models.Profile) (string, error) {
	if profile.User != nil {
		return profile.User.Username, nil
	}
	user, err := s.store.FindUserByID(ctx, profile.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to load account: %w", err)
	}
	return user.Username, nil
}

func nilIfNotFound(profile *models.Profile, err error) (*models.Profile, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return profile, err
}
