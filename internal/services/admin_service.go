// internal/services/admin_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/campus-marketplace/internal/models"
	"github.com/javajoker/campus-marketplace/internal/repository"
	"github.com/javajoker/campus-marketplace/internal/utils"
)

type AdminService struct {
	store repository.Store
	now   func() time.Time
}

type AdminReportFilter struct {
	utils.PaginationParams
	TargetType *models.ReportTargetType `json:"target_type,omitempty"`
}

type AdminNotificationFilter struct {
	utils.PaginationParams
	Status *models.NotificationStatus `json:"status,omitempty"`
}

// QuestionInput is a product question recorded by staff. AskedBy is the
// username of the asking profile.
type QuestionInput struct {
	AskedBy  string `json:"asked_by" validate:"required"`
	Question string `json:"question" validate:"required,max=600"`
	Answer   string `json:"answer" validate:"max=600"`
}

func NewAdminService(store repository.Store) *AdminService {
	return &AdminService{
		store: store,
		now:   time.Now,
	}
}

func (s *AdminService) GetReports(ctx context.Context, filter AdminReportFilter) ([]models.Report, int64, error) {
	if _, err := RequireLevel(ctx, models.PermissionAdmin); err != nil {
		return nil, 0, err
	}

	if filter.TargetType != nil {
		switch *filter.TargetType {
		case models.ReportTargetUser, models.ReportTargetProduct:
		default:
			return nil, 0, newError(KindInvalidArgument, "Unknown report target type %s", *filter.TargetType)
		}
	}

	reports, total, err := s.store.ListReports(ctx, filter.TargetType, filter.Offset(), filter.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, total, nil
}

func (s *AdminService) GetNotifications(ctx context.Context, filter AdminNotificationFilter) ([]models.AdminNotification, int64, error) {
	if _, err := RequireLevel(ctx, models.PermissionAdmin); err != nil {
		return nil, 0, err
	}

	notifications, total, err := s.store.ListNotifications(ctx, filter.Status, filter.Offset(), filter.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, nil
}

func (s *AdminService) MarkNotificationRead(ctx context.Context, id uuid.UUID) (*models.AdminNotification, error) {
	admin, err := RequireLevel(ctx, models.PermissionAdmin)
	if err != nil {
		return nil, err
	}

	notification, err := s.store.MarkNotificationRead(ctx, id, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindNotFound, "Notification %s does not exist", id)
		}
		return nil, fmt.Errorf("failed to update notification: %w", err)
	}

	s.createAuditLog(ctx, admin.UserID, "mark_notification_read", "admin_notification", &id)
	return notification, nil
}

// RecordQuestion attaches a question, and optionally its answer, to a
// product.
func (s *AdminService) RecordQuestion(ctx context.Context, productID uuid.UUID, input QuestionInput) (*models.Question, error) {
	admin, err := RequireLevel(ctx, models.PermissionAdmin)
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
	asker, err := s.store.GetProfileByUsername(ctx, input.AskedBy)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindNotFound, "Profile with username %s does not exist", input.AskedBy)
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	answer := strings.TrimSpace(input.Answer)
	question := &models.Question{
		ProductID:  product.ID,
		AskedByID:  asker.ID,
		Question:   strings.TrimSpace(input.Question),
		Answer:     answer,
		IsAnswered: answer != "",
	}
	if err := s.store.CreateQuestion(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.createAuditLog(ctx, admin.UserID, "record_question", "product_question", &question.ID)
	return question, nil
}

func (s *AdminService) createAuditLog(ctx context.Context, userID uuid.UUID, action, resourceType string, resourceID *uuid.UUID) {
	auditLog := &models.AuditLog{
		UserID:       &userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}

	if err := s.store.CreateAuditLog(ctx, auditLog); err != nil {
		logrus.WithError(err).WithField("action", action).Error("Failed to create audit log")
	}
}
