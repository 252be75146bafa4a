package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/javajoker/campus-marketplace/internal/models"
)

func (s *ServicesTestSuite) TestRatingAverage() {
	for _, value := range []int{5, 4, 4} {
		_, err := s.moderation.RateProfile(s.as(s.buyer), s.seller.ID, value)
		s.Require().NoError(err)
	}

	seller := s.reload(s.seller.ID)
	s.Equal(4.3, seller.Rating)
	s.Equal(3, seller.NumRatings)
}

func (s *ServicesTestSuite) TestRatingAcceptsAnyIntegerAndSelfRating() {
	rated, err := s.moderation.RateProfile(s.as(s.buyer), s.seller.ID, 6)
	s.Require().NoError(err)
	s.Equal(6.0, rated.Rating)

	rated, err = s.moderation.RateProfile(s.as(s.buyer), s.seller.ID, 0)
	s.Require().NoError(err)
	s.Equal(3.0, rated.Rating)
	s.Equal(2, rated.NumRatings)

	rated, err = s.moderation.RateProfile(s.as(s.buyer), s.seller.ID, 13)
	s.Require().NoError(err)
	s.Equal(6.3, rated.Rating)
	s.Equal(3, rated.NumRatings)

	_, err = s.moderation.RateProfile(s.as(s.buyer), uuid.New(), 3)
	s.assertKind(err, KindNotFound, "")

	self, err := s.moderation.RateProfile(s.as(s.buyer), s.buyer.ID, 2)
	s.Require().NoError(err)
	s.Equal(2.0, self.Rating)

	_, err = s.moderation.RateProfile(s.ctx, s.seller.ID, 3)
	s.assertKind(err, KindPermissionDenied, MsgPermissionDenied)
}

func (s *ServicesTestSuite) reporters(n int) []*models.Profile {
	out := make([]*models.Profile, n)
	for i := range out {
		out[i] = s.account(fmt.Sprintf("reporter%d", i), fmt.Sprintf("reporter%d@gmail.com", i))
	}
	return out
}

func (s *ServicesTestSuite) TestUserReportsBanAfterThreshold() {
	reporters := s.reporters(7)

	for i := 0; i < 5; i++ {
		_, err := s.moderation.FileUserReport(s.as(reporters[i]), "seller", ReportInput{Category: 1})
		s.Require().NoError(err)
	}
	s.Equal(models.PermissionSeller, s.reload(s.seller.ID).PermissionLevel)
	s.Empty(s.notifier.notifications)

	report, err := s.moderation.FileUserReport(s.as(reporters[5]), "seller", ReportInput{Category: 2, Message: "scam"})
	s.Require().NoError(err)
	s.Equal(models.ReportTargetUser, report.TargetType)
	s.Equal(models.PermissionBanned, s.reload(s.seller.ID).PermissionLevel)

	s.Require().Len(s.notifier.notifications, 1)
	s.Equal("profile_banned", s.notifier.notifications[0].Type)
	s.Equal(s.seller.ID, *s.notifier.notifications[0].RelatedResourceID)

	_, err = s.moderation.FileUserReport(s.as(reporters[6]), "seller", ReportInput{Category: 2})
	s.Require().NoError(err)
	s.Equal(models.PermissionBanned, s.reload(s.seller.ID).PermissionLevel)
	s.Len(s.notifier.notifications, 1, "moderators hear about each demotion once")

	reports, err := s.moderation.ReportsAgainstProfile(s.ctx, s.seller.ID)
	s.Require().NoError(err)
	s.Len(reports, 7)
}

func (s *ServicesTestSuite) TestSameReporterCountsEveryReport() {
	for i := 0; i < 6; i++ {
		_, err := s.moderation.FileUserReport(s.as(s.buyer), "seller", ReportInput{Category: 1})
		s.Require().NoError(err)
	}
	s.True(s.reload(s.seller.ID).IsBanned())
}

func (s *ServicesTestSuite) TestProductReportsHideAfterThreshold() {
	product := s.product(400, false)
	reporters := s.reporters(6)

	for i, reporter := range reporters {
		_, err := s.moderation.FileProductReport(s.as(reporter), product.ID, ReportInput{Category: 3})
		s.Require().NoError(err)

		stored, err := s.store.GetProduct(s.ctx, product.ID)
		s.Require().NoError(err)
		s.Equal(i < 5, stored.Visible, "after report %d", i+1)
	}

	s.Require().Len(s.notifier.notifications, 1)
	s.Equal("product_hidden", s.notifier.notifications[0].Type)
}

func (s *ServicesTestSuite) TestReportUnknownTargets() {
	_, err := s.moderation.FileUserReport(s.as(s.buyer), "ghost", ReportInput{})
	s.assertKind(err, KindNotFound, "Profile with username ghost does not exist")

	_, err = s.moderation.FileProductReport(s.as(s.buyer), uuid.New(), ReportInput{})
	s.assertKind(err, KindNotFound, "")

	_, err = s.moderation.FileUserReport(s.ctx, "seller", ReportInput{})
	s.assertKind(err, KindPermissionDenied, MsgPermissionDenied)
}

func (s *ServicesTestSuite) TestCustomThreshold() {
	strict := NewModerationService(s.store, nil, 1)

	_, err := strict.FileUserReport(s.as(s.seller), "buyer", ReportInput{})
	s.Require().NoError(err)
	s.False(s.reload(s.buyer.ID).IsBanned())

	_, err = strict.FileUserReport(s.as(s.seller), "buyer", ReportInput{})
	s.Require().NoError(err)
	s.True(s.reload(s.buyer.ID).IsBanned())
}
