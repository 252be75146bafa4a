package services

import (
	"net/smtp"

	"github.com/javajoker/campus-marketplace/internal/config"
	"github.com/javajoker/campus-marketplace/internal/models"
)

type sentMail struct {
	addr string
	to   []string
	msg  string
}

func (s *ServicesTestSuite) TestNotifyModeratorsStoresAndEmails() {
	s.withLevel(s.account("moderator", "moderator@"+campusDomain), models.PermissionAdmin)

	var sent []sentMail
	notifier := NewNotificationService(s.store, &config.Config{Email: config.EmailConfig{
		SMTPHost:  "smtp.example.com",
		SMTPPort:  "587",
		FromEmail: "noreply@example.com",
		FromName:  "Campus Marketplace",
	}})
	notifier.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		sent = append(sent, sentMail{addr: addr, to: to, msg: string(msg)})
		return nil
	}

	notification := &models.AdminNotification{
		Type:    notificationProfileBanned,
		Title:   "Profile seller banned",
		Message: "Profile seller received 6 reports and was banned.",
	}
	s.Require().NoError(notifier.NotifyModerators(s.ctx, notification))

	s.Equal([]string{"moderator@" + campusDomain}, []string(notification.Recipients))
	s.Equal(models.NotificationStatusUnread, notification.Status)

	stored, total, err := s.store.ListNotifications(s.ctx, nil, 0, 10)
	s.Require().NoError(err)
	s.EqualValues(1, total)
	s.Equal(notification.ID, stored[0].ID)

	s.Require().Len(sent, 1)
	s.Equal("smtp.example.com:587", sent[0].addr)
	s.Contains(sent[0].msg, "Subject: Profile seller banned")
	s.Contains(sent[0].msg, "received 6 reports")
}

func (s *ServicesTestSuite) TestNotifyModeratorsWithoutSMTP() {
	notifier := NewNotificationService(s.store, &config.Config{})
	notifier.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		s.Fail("mail must not be sent without SMTP configuration")
		return nil
	}

	s.withLevel(s.account("moderator", "moderator@"+campusDomain), models.PermissionAdmin)
	s.Require().NoError(notifier.NotifyModerators(s.ctx, &models.AdminNotification{
		Type:    notificationProductHidden,
		Title:   "Product hidden",
		Message: "hidden",
	}))
}
