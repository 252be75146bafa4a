package services

import (
	"github.com/google/uuid"
)

func (s *ServicesTestSuite) TestToggleWishlistTwiceRestoresState() {
	product := s.product(400, false)

	view, err := s.wishlists.ToggleWishlist(s.as(s.buyer), product.ID)
	s.Require().NoError(err)
	s.Require().Len(view.Products, 1)
	s.Equal(product.ID, view.Products[0].ID)
	s.Equal(s.buyer.ID, view.Wishlist.ProfileID)

	view, err = s.wishlists.ToggleWishlist(s.as(s.buyer), product.ID)
	s.Require().NoError(err)
	s.Empty(view.Products)

	view, err = s.wishlists.ToggleWishlist(s.as(s.buyer), product.ID)
	s.Require().NoError(err)
	s.Len(view.Products, 1)

	current, err := s.wishlists.Wishlist(s.as(s.buyer))
	s.Require().NoError(err)
	s.Len(current.Products, 1)
}

func (s *ServicesTestSuite) TestToggleWishlistGuards() {
	product := s.product(400, false)

	_, err := s.wishlists.ToggleWishlist(s.as(s.seller), product.ID)
	s.assertKind(err, KindForbidden, MsgWishlistOwnProduct)

	_, err = s.wishlists.ToggleWishlist(s.as(s.buyer), uuid.New())
	s.assertKind(err, KindNotFound, MsgWishlistProductNotFound)

	_, err = s.wishlists.ToggleWishlist(s.ctx, product.ID)
	s.assertKind(err, KindPermissionDenied, MsgPermissionDenied)

	_, err = s.wishlists.Wishlist(s.ctx)
	s.assertKind(err, KindPermissionDenied, MsgPermissionDenied)
}
