package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/javajoker/campus-marketplace/internal/models"
)

func (s *ServicesTestSuite) TestOfferOnFixedPriceUsesAskingPrice() {
	product := s.product(400, false)

	offer, err := s.offers.CreateOffer(s.as(s.buyer), product.ID, CreateOfferInput{})
	s.Require().NoError(err)
	s.Equal(400, offer.Amount)
	s.Equal(1, offer.Product.NumOffers)

	other := s.account("other", "other@gmail.com")
	offer, err = s.offers.CreateOffer(s.as(other), product.ID, CreateOfferInput{Amount: intPtr(5)})
	s.Require().NoError(err)
	s.Equal(400, offer.Amount, "client amounts are ignored on fixed price products")

	stored, err := s.store.GetProduct(s.ctx, product.ID)
	s.Require().NoError(err)
	s.Equal(2, stored.NumOffers)
}

func (s *ServicesTestSuite) TestOfferOnNegotiableProduct() {
	product := s.product(400, true)

	_, err := s.offers.CreateOffer(s.as(s.buyer), product.ID, CreateOfferInput{})
	s.assertKind(err, KindInvalidArgument, MsgOfferAmountRequired)

	_, err = s.offers.CreateOffer(s.as(s.buyer), product.ID, CreateOfferInput{Amount: intPtr(0)})
	s.assertKind(err, KindInvalidArgument, MsgOfferAmountPositive)

	offer, err := s.offers.CreateOffer(s.as(s.buyer), product.ID, CreateOfferInput{Amount: intPtr(900), Message: "Can pick up today"})
	s.Require().NoError(err)
	s.Equal(900, offer.Amount, "amounts above the asking price are accepted")
	s.Equal("Can pick up today", offer.Message)
}

func (s *ServicesTestSuite) TestOfferRules() {
	product := s.product(400, false)

	_, err := s.offers.CreateOffer(s.as(s.seller), product.ID, CreateOfferInput{})
	s.assertKind(err, KindForbidden, "User cannot offer on their own product")

	_, err = s.offers.CreateOffer(s.as(s.buyer), uuid.New(), CreateOfferInput{})
	s.assertKind(err, KindNotFound, "Product to offer on, not found")

	_, err = s.offers.CreateOffer(s.as(s.buyer), product.ID, CreateOfferInput{})
	s.Require().NoError(err)

	_, err = s.offers.CreateOffer(s.as(s.buyer), product.ID, CreateOfferInput{})
	s.assertKind(err, KindConflict, "You cannot create multiple offers")

	offers, err := s.offers.OffersForProduct(s.ctx, product.ID)
	s.Require().NoError(err)
	s.Len(offers, 1)

	stored, err := s.store.GetProduct(s.ctx, product.ID)
	s.Require().NoError(err)
	s.Equal(1, stored.NumOffers)
}

func (s *ServicesTestSuite) TestOfferRequiresBuyerTier() {
	product := s.product(400, false)

	_, err := s.offers.CreateOffer(s.ctx, product.ID, CreateOfferInput{})
	s.assertKind(err, KindPermissionDenied, MsgPermissionDenied)

	banned := s.withLevel(s.buyer, models.PermissionBanned)
	_, err = s.offers.CreateOffer(s.as(banned), product.ID, CreateOfferInput{})
	s.assertKind(err, KindPermissionDenied, MsgPermissionDenied)
}

func (s *ServicesTestSuite) TestOfferMessageLength() {
	product := s.product(400, false)

	_, err := s.offers.CreateOffer(s.as(s.buyer), product.ID, CreateOfferInput{Message: strings.Repeat("a", 401)})
	s.assertKind(err, KindInvalidArgument, "")

	mine, err := s.offers.OffersByProfile(s.ctx, s.buyer.ID)
	s.Require().NoError(err)
	s.Empty(mine)
}
