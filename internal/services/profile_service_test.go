package services

func (s *ServicesTestSuite) TestUpdateProfileCompleteness() {
	profile, err := s.profiles.UpdateProfile(s.as(s.buyer), "buyer", &UpdateProfileInput{Name: strPtr("Asha Rao")})
	s.Require().NoError(err)
	s.Equal("Asha Rao", profile.Name)
	s.False(profile.IsComplete)

	profile, err = s.profiles.UpdateProfile(s.as(s.buyer), "buyer", &UpdateProfileInput{
		Hostel:    strPtr("MR"),
		ContactNo: strPtr("+919876543210"),
	})
	s.Require().NoError(err)
	s.Equal("Asha Rao", profile.Name, "absent fields are kept")
	s.True(profile.IsComplete)
	s.True(s.reload(s.buyer.ID).IsComplete)

	profile, err = s.profiles.UpdateProfile(s.as(s.buyer), "buyer", &UpdateProfileInput{Name: strPtr("")})
	s.Require().NoError(err)
	s.False(profile.IsComplete)
}

func (s *ServicesTestSuite) TestUpdateProfileRules() {
	_, err := s.profiles.UpdateProfile(s.as(s.buyer), "buyer", nil)
	s.assertKind(err, KindInvalidArgument, MsgMissingInput)

	_, err = s.profiles.UpdateProfile(s.as(s.buyer), "nobody", &UpdateProfileInput{})
	s.assertKind(err, KindNotFound, "Profile with username nobody does not exist")

	_, err = s.profiles.UpdateProfile(s.as(s.buyer), "seller", &UpdateProfileInput{Name: strPtr("Hijack")})
	s.assertKind(err, KindForbidden, MsgProfileNotOwner)

	_, err = s.profiles.UpdateProfile(s.as(s.buyer), "buyer", &UpdateProfileInput{Hostel: strPtr("ZZ")})
	s.assertKind(err, KindInvalidArgument, "")

	_, err = s.profiles.UpdateProfile(s.as(s.buyer), "buyer", &UpdateProfileInput{ContactNo: strPtr("12345")})
	s.assertKind(err, KindInvalidArgument, "")
}

func (s *ServicesTestSuite) TestUpdateProfileContactUniqueness() {
	_, err := s.profiles.UpdateProfile(s.as(s.seller), "seller", &UpdateProfileInput{ContactNo: strPtr("+919876543210")})
	s.Require().NoError(err)

	_, err = s.profiles.UpdateProfile(s.as(s.buyer), "buyer", &UpdateProfileInput{ContactNo: strPtr("+919876543210")})
	s.assertKind(err, KindConflict, "")
}

func (s *ServicesTestSuite) TestProfileLookups() {
	byName, err := s.profiles.GetProfileByUsername(s.ctx, "seller")
	s.Require().NoError(err)
	s.Equal(s.seller.ID, byName.ID)

	byEmail, err := s.profiles.GetProfileByEmail(s.ctx, "buyer@gmail.com")
	s.Require().NoError(err)
	s.Equal(s.buyer.ID, byEmail.ID)

	missing, err := s.profiles.GetProfileByUsername(s.ctx, "ghost")
	s.NoError(err)
	s.Nil(missing)

	username, err := s.profiles.Username(s.ctx, byEmail)
	s.Require().NoError(err)
	s.Equal("buyer", username)

	all, err := s.profiles.ListProfiles(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 2)
}
