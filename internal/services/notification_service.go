// internal/services/notification_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/campus-marketplace/internal/config"
	"github.com/javajoker/campus-marketplace/internal/models"
	"github.com/javajoker/campus-marketplace/internal/repository"
)

// ModeratorNotifier raises alerts for site moderators.
type ModeratorNotifier interface {
	NotifyModerators(ctx context.Context, notification *models.AdminNotification) error
}

type mailSender func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type NotificationService struct {
	store  repository.Store
	config config.EmailConfig
	send   mailSender
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(store repository.Store, cfg *config.Config) *NotificationService {
	return &NotificationService{
		store:  store,
		config: cfg.Email,
		send:   smtp.SendMail,
	}
}

// NotifyModerators stores the notification addressed to every admin and
// emails them when SMTP is configured. Mail failures are logged, not
// returned.
func (s *NotificationService) NotifyModerators(ctx context.Context, notification *models.AdminNotification) error {
	recipients, err := s.store.AdminEmails(ctx)
	if err != nil {
		return fmt.Errorf("failed to load moderators: %w", err)
	}
	notification.Recipients = recipients
	if notification.Status == "" {
		notification.Status = models.NotificationStatusUnread
	}

	if err := s.store.CreateNotification(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"notification_id": notification.ID,
		"type":            notification.Type,
		"recipients":      len(recipients),
	}).Info("Moderators notified")

	if len(recipients) == 0 {
		return nil
	}

	body, err := s.renderTemplate(s.getEmailTemplate(notification.Type).Body, map[string]interface{}{
		"Title":   notification.Title,
		"Message": notification.Message,
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to render moderator email")
		return nil
	}

	for _, to := range recipients {
		if err := s.sendEmail(to, notification.Title, body); err != nil {
			logrus.WithError(err).WithField("to", to).Warn("Failed to email moderator")
		}
	}

	return nil
}

// Helper methods
func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.SMTPHost == "" {
		// Email not configured, just log
		logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).Debug("Email skipped, SMTP not configured")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	from := s.config.FromEmail
	msg := []byte(fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.config.FromName, from, to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.SMTPHost, s.config.SMTPPort)
	return s.send(addr, auth, from, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		notificationProfileBanned: {
			Subject: "Profile banned",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>{{.Title}}</h2>
	<p>{{.Message}}</p>
	<p>The profile was banned automatically after crossing the report threshold. Review the reports in the admin console.</p>
</body>
</html>`,
		},
		notificationProductHidden: {
			Subject: "Product hidden",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>{{.Title}}</h2>
	<p>{{.Message}}</p>
	<p>The listing was hidden automatically after crossing the report threshold. Review the reports in the admin console.</p>
</body>
</html>`,
		},
	}

	if template, exists := templates[templateType]; exists {
		return template
	}

	// Default template
	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Message}}</p>",
	}
}
