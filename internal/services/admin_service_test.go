package services

import (
	"github.com/google/uuid"

	"github.com/javajoker/campus-marketplace/internal/models"
	"github.com/javajoker/campus-marketplace/internal/utils"
)

func (s *ServicesTestSuite) TestAdminReportsRequireAdmin() {
	page := utils.PaginationParams{Page: 1, Limit: 10}

	_, _, err := s.admin.GetReports(s.as(s.seller), AdminReportFilter{PaginationParams: page})
	s.assertKind(err, KindPermissionDenied, MsgPermissionDenied)

	admin := s.withLevel(s.account("moderator", "moderator@"+campusDomain), models.PermissionAdmin)
	product := s.product(100, false)

	_, err = s.moderation.FileUserReport(s.as(s.buyer), "seller", ReportInput{Category: 1})
	s.Require().NoError(err)
	_, err = s.moderation.FileProductReport(s.as(s.buyer), product.ID, ReportInput{Category: 2})
	s.Require().NoError(err)

	reports, total, err := s.admin.GetReports(s.as(admin), AdminReportFilter{PaginationParams: page})
	s.Require().NoError(err)
	s.EqualValues(2, total)
	s.Len(reports, 2)

	target := models.ReportTargetProduct
	reports, total, err = s.admin.GetReports(s.as(admin), AdminReportFilter{PaginationParams: page, TargetType: &target})
	s.Require().NoError(err)
	s.EqualValues(1, total)
	s.Equal(product.ID, reports[0].TargetID())

	bogus := models.ReportTargetType("comment")
	_, _, err = s.admin.GetReports(s.as(admin), AdminReportFilter{PaginationParams: page, TargetType: &bogus})
	s.assertKind(err, KindInvalidArgument, "")
}

func (s *ServicesTestSuite) TestAdminNotifications() {
	admin := s.withLevel(s.account("moderator", "moderator@"+campusDomain), models.PermissionAdmin)
	page := utils.PaginationParams{Page: 1, Limit: 10}

	notification := &models.AdminNotification{Type: "profile_banned", Title: "t", Message: "m"}
	s.Require().NoError(s.store.CreateNotification(s.ctx, notification))

	unread := models.NotificationStatusUnread
	list, total, err := s.admin.GetNotifications(s.as(admin), AdminNotificationFilter{PaginationParams: page, Status: &unread})
	s.Require().NoError(err)
	s.EqualValues(1, total)
	s.Len(list, 1)

	read, err := s.admin.MarkNotificationRead(s.as(admin), notification.ID)
	s.Require().NoError(err)
	s.Equal(models.NotificationStatusRead, read.Status)
	s.NotNil(read.ReadAt)

	_, total, err = s.admin.GetNotifications(s.as(admin), AdminNotificationFilter{PaginationParams: page, Status: &unread})
	s.Require().NoError(err)
	s.Zero(total)

	s.Require().Len(s.store.AuditLogs(), 1)
	s.Equal("mark_notification_read", s.store.AuditLogs()[0].Action)

	_, err = s.admin.MarkNotificationRead(s.as(admin), uuid.New())
	s.assertKind(err, KindNotFound, "")

	_, err = s.admin.MarkNotificationRead(s.as(s.buyer), notification.ID)
	s.assertKind(err, KindPermissionDenied, MsgPermissionDenied)
}

func (s *ServicesTestSuite) TestAdminRecordQuestion() {
	admin := s.withLevel(s.account("moderator", "moderator@"+campusDomain), models.PermissionAdmin)
	product := s.product(100, false)

	question, err := s.admin.RecordQuestion(s.as(admin), product.ID, QuestionInput{
		AskedBy:  "buyer",
		Question: " Does it have the solar panel? ",
	})
	s.Require().NoError(err)
	s.Equal("Does it have the solar panel?", question.Question)
	s.Equal(s.buyer.ID, question.AskedByID)
	s.False(question.IsAnswered)

	answered, err := s.admin.RecordQuestion(s.as(admin), product.ID, QuestionInput{
		AskedBy:  "buyer",
		Question: "Original box?",
		Answer:   "Yes",
	})
	s.Require().NoError(err)
	s.True(answered.IsAnswered)

	questions, err := s.listings.Questions(s.ctx, product.ID)
	s.Require().NoError(err)
	s.Len(questions, 2)

	s.Require().Len(s.store.AuditLogs(), 2)
	s.Equal("record_question", s.store.AuditLogs()[0].Action)

	_, err = s.admin.RecordQuestion(s.as(admin), product.ID, QuestionInput{AskedBy: "buyer"})
	s.assertKind(err, KindInvalidArgument, "Question is required")

	_, err = s.admin.RecordQuestion(s.as(admin), uuid.New(), QuestionInput{AskedBy: "buyer", Question: "?"})
	s.assertKind(err, KindNotFound, "")

	_, err = s.admin.RecordQuestion(s.as(admin), product.ID, QuestionInput{AskedBy: "ghost", Question: "?"})
	s.assertKind(err, KindNotFound, "Profile with username ghost does not exist")

	_, err = s.admin.RecordQuestion(s.as(s.seller), product.ID, QuestionInput{AskedBy: "buyer", Question: "?"})
	s.assertKind(err, KindPermissionDenied, MsgPermissionDenied)
}
