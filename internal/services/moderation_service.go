// internal/services/moderation_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/campus-marketplace/internal/metrics"
	"github.com/javajoker/campus-marketplace/internal/models"
	"github.com/javajoker/campus-marketplace/internal/repository"
	"github.com/javajoker/campus-marketplace/internal/utils"
)

// DefaultReportThreshold is the report count a target may reach before it
// is demoted. Demotion happens once the count exceeds it.
const DefaultReportThreshold = 5

const (
	notificationProfileBanned = "profile_banned"
	notificationProductHidden = "product_hidden"
)

type ModerationService struct {
	store     repository.Store
	notifier  ModeratorNotifier
	threshold int
}

type ReportInput struct {
	Category int    `json:"category" validate:"gte=0"`
	Message  string `json:"message" validate:"max=400"`
}

func NewModerationService(store repository.Store, notifier ModeratorNotifier, threshold int) *ModerationService {
	if threshold <= 0 {
		threshold = DefaultReportThreshold
	}
	return &ModerationService{
		store:     store,
		notifier:  notifier,
		threshold: threshold,
	}
}

// RateProfile appends a rating and folds it into the ratee's average. Any
// integer value is accepted and callers may rate themselves.
func (s *ModerationService) RateProfile(ctx context.Context, rateeID uuid.UUID, value int) (*models.Profile, error) {
	rater, err := Authenticated(ctx)
	if err != nil {
		return nil, err
	}

	rating := &models.Rating{
		RaterID: rater.ID,
		RateeID: rateeID,
		Value:   value,
	}

	ratee, err := s.store.RecordRating(ctx, rating)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindNotFound, "Profile with primary key %s does not exist", rateeID)
		}
		return nil, fmt.Errorf("failed to record rating: %w", err)
	}

	metrics.RecordRating()
	logrus.WithFields(logrus.Fields{
		"rater_id":    rater.ID,
		"ratee_id":    ratee.ID,
		"value":       value,
		"rating":      ratee.Rating,
		"num_ratings": ratee.NumRatings,
	}).Debug("Profile rated")

	return ratee, nil
}

// FileUserReport reports the profile behind username. Callers may report
// themselves.
func (s *ModerationService) FileUserReport(ctx context.Context, username string, input ReportInput) (*models.Report, error) {
	reporter, err := Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(&input); err != nil {
		return nil, validationError(err)
	}

	target, err := s.store.GetProfileByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindNotFound, "Profile with username %s does not exist", username)
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	report := models.NewUserReport(reporter.ID, target.ID, input.Category, input.Message)
	if err := s.fileReport(ctx, report); err != nil {
		return nil, err
	}
	report.ReportedProfile = target

	return report, nil
}

func (s *ModerationService) FileProductReport(ctx context.Context, productID uuid.UUID, input ReportInput) (*models.Report, error) {
	reporter, err := Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(&input); err != nil {
		return nil, validationError(err)
	}

	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, productNotFound(productID)
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	report := models.NewProductReport(reporter.ID, product.ID, input.Category, input.Message)
	if err := s.fileReport(ctx, report); err != nil {
		return nil, err
	}
	report.ReportedProduct = product

	return report, nil
}

// fileReport persists the report and then runs the threshold policy for
// its target.
func (s *ModerationService) fileReport(ctx context.Context, report *models.Report) error {
	if err := s.store.CreateReport(ctx, report); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(KindNotFound, "Reported %s does not exist", report.TargetType)
		}
		return fmt.Errorf("failed to create report: %w", err)
	}
	metrics.RecordReport(string(report.TargetType))

	return s.enforceThreshold(ctx, report.TargetType, report.TargetID())
}

// enforceThreshold demotes a target whose report count exceeds the
// threshold. It runs on every report; targets already demoted are left
// as they are and moderators are only notified on the transition.
func (s *ModerationService) enforceThreshold(ctx context.Context, targetType models.ReportTargetType, targetID uuid.UUID) error {
	count, err := s.store.CountReports(ctx, targetType, targetID)
	if err != nil {
		return fmt.Errorf("failed to count reports: %w", err)
	}
	if count <= int64(s.threshold) {
		return nil
	}

	var notification *models.AdminNotification
	switch targetType {
	case models.ReportTargetUser:
		notification, err = s.banProfile(ctx, targetID, count)
	case models.ReportTargetProduct:
		notification, err = s.hideProduct(ctx, targetID, count)
	default:
		return fmt.Errorf("unknown report target %q", targetType)
	}
	if err != nil || notification == nil {
		return err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyModerators(ctx, notification); err != nil {
			logrus.WithError(err).WithField("target_id", targetID).Error("Failed to notify moderators")
		}
	}
	return nil
}

func (s *ModerationService) banProfile(ctx context.Context, profileID uuid.UUID, count int64) (*models.AdminNotification, error) {
	profile, err := s.store.GetProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reported profile: %w", err)
	}
	if profile.IsBanned() {
		return nil, nil
	}

	if err := s.store.SetPermissionLevel(ctx, profileID, models.PermissionBanned); err != nil {
		return nil, fmt.Errorf("failed to ban profile: %w", err)
	}

	metrics.RecordModerationAction("ban_profile")
	logrus.WithFields(logrus.Fields{
		"profile_id": profileID,
		"reports":    count,
	}).Warn("Profile banned after reports")

	name := profile.Email
	if profile.User != nil {
		name = profile.User.Username
	}
	return &models.AdminNotification{
		Type:                notificationProfileBanned,
		Title:               fmt.Sprintf("Profile %s banned", name),
		Message:             fmt.Sprintf("Profile %s received %d reports and was banned.", name, count),
		RelatedResourceType: string(models.ReportTargetUser),
		RelatedResourceID:   &profileID,
	}, nil
}

func (s *ModerationService) hideProduct(ctx context.Context, productID uuid.UUID, count int64) (*models.AdminNotification, error) {
	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reported product: %w", err)
	}
	if !product.Visible {
		return nil, nil
	}

	if err := s.store.HideProduct(ctx, productID); err != nil {
		return nil, fmt.Errorf("failed to hide product: %w", err)
	}

	metrics.RecordModerationAction("hide_product")
	logrus.WithFields(logrus.Fields{
		"product_id": productID,
		"reports":    count,
	}).Warn("Product hidden after reports")

	return &models.AdminNotification{
		Type:                notificationProductHidden,
		Title:               fmt.Sprintf("Product %s hidden", product.Name),
		Message:             fmt.Sprintf("Product %s received %d reports and was hidden.", product.Name, count),
		RelatedResourceType: string(models.ReportTargetProduct),
		RelatedResourceID:   &productID,
	}, nil
}

func (s *ModerationService) ReportsAgainstProfile(ctx context.Context, profileID uuid.UUID) ([]models.Report, error) {
	return s.store.ReportsAgainstProfile(ctx, profileID)
}
