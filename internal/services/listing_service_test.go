package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/javajoker/campus-marketplace/internal/models"
)

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

func (s *ServicesTestSuite) TestCreateListingDefaults() {
	category, err := s.listings.GetCategoryByName(s.ctx, "Electronics")
	s.Require().NoError(err)
	s.Require().NotNil(category)

	product, err := s.listings.CreateListing(s.as(s.seller), CreateListingInput{
		Name:          "Headphones",
		ExpectedPrice: 1200,
		IsNegotiable:  true,
		CategoryID:    &category.ID,
	})
	s.Require().NoError(err)

	s.Equal(s.seller.ID, product.SellerID)
	s.True(product.Visible)
	s.False(product.Expired)
	s.False(product.Sold)
	s.Zero(product.NumOffers)

	inCategory, err := s.listings.ProductsInCategory(s.ctx, category.ID)
	s.Require().NoError(err)
	s.Len(inCategory, 1)
}

func (s *ServicesTestSuite) TestCreateListingRequiresSeller() {
	_, err := s.listings.CreateListing(s.as(s.buyer), CreateListingInput{Name: "Cycle", ExpectedPrice: 10})
	s.assertKind(err, KindPermissionDenied, MsgPermissionDenied)

	_, err = s.listings.CreateListing(s.ctx, CreateListingInput{Name: "Cycle", ExpectedPrice: 10})
	s.assertKind(err, KindPermissionDenied, MsgPermissionDenied)

	banned := s.withLevel(s.seller, models.PermissionBanned)
	_, err = s.listings.CreateListing(s.as(banned), CreateListingInput{Name: "Cycle", ExpectedPrice: 10})
	s.assertKind(err, KindPermissionDenied, MsgPermissionDenied)
}

func (s *ServicesTestSuite) TestCreateListingValidation() {
	_, err := s.listings.CreateListing(s.as(s.seller), CreateListingInput{
		Name:          strings.Repeat("x", 61),
		ExpectedPrice: -1,
	})
	s.assertKind(err, KindInvalidArgument, "")

	var domainErr *Error
	s.Require().ErrorAs(err, &domainErr)
	s.Len(domainErr.Details, 2)

	missing := uuid.New()
	_, err = s.listings.CreateListing(s.as(s.seller), CreateListingInput{Name: "Lamp", CategoryID: &missing})
	s.assertKind(err, KindNotFound, "")
}

func (s *ServicesTestSuite) TestUpdateListingAppliesOnlyPresentFields() {
	product := s.product(400, false)

	updated, err := s.listings.UpdateListing(s.as(s.seller), product.ID, UpdateListingInput{
		ExpectedPrice: intPtr(350),
	})
	s.Require().NoError(err)
	s.Equal(350, updated.ExpectedPrice)
	s.Equal(product.Name, updated.Name)
	s.Equal(product.Description, updated.Description)

	unchanged, err := s.listings.UpdateListing(s.as(s.seller), product.ID, UpdateListingInput{})
	s.Require().NoError(err)
	s.Equal(350, unchanged.ExpectedPrice)

	renamed, err := s.listings.UpdateListing(s.as(s.seller), product.ID, UpdateListingInput{Name: strPtr("Casio")})
	s.Require().NoError(err)
	s.Equal("Casio", renamed.Name)
	s.Equal(350, renamed.ExpectedPrice)
}

func (s *ServicesTestSuite) TestUpdateListingOwnershipAndExistence() {
	product := s.product(400, false)

	_, err := s.listings.UpdateListing(s.as(s.buyer), product.ID, UpdateListingInput{Name: strPtr("Mine now")})
	s.assertKind(err, KindForbidden, MsgForbidden)

	missing := uuid.New()
	_, err = s.listings.UpdateListing(s.as(s.seller), missing, UpdateListingInput{Name: strPtr("x")})
	s.assertKind(err, KindNotFound, "Product with primary key "+missing.String()+" does not exist.")
}

func (s *ServicesTestSuite) TestAttachImages() {
	product := s.product(400, false)

	_, images, err := s.listings.AttachImages(s.as(s.seller), product.ID, nil)
	s.Require().NoError(err)
	s.Empty(images)
	s.Empty(s.storage.stored)

	_, images, err = s.listings.AttachImages(s.as(s.seller), product.ID, []ImageUpload{
		{Filename: "front.png", Size: 10, Content: strings.NewReader("x")},
		{Filename: "back.png", Size: 12, Content: strings.NewReader("y")},
	})
	s.Require().NoError(err)
	s.Len(images, 2)

	stored, err := s.listings.Images(s.ctx, product.ID)
	s.Require().NoError(err)
	s.Len(stored, 2)
	s.Equal(product.ID, stored[0].ProductID)

	_, _, err = s.listings.AttachImages(s.as(s.buyer), product.ID, []ImageUpload{{Filename: "x.png"}})
	s.assertKind(err, KindForbidden, MsgForbidden)
	s.Len(s.storage.stored, 2)
}

func (s *ServicesTestSuite) TestAttachImagesStopsOnInvalidFile() {
	product := s.product(400, false)
	s.storage.failOn = "notes.txt"

	_, images, err := s.listings.AttachImages(s.as(s.seller), product.ID, []ImageUpload{
		{Filename: "front.png", Content: strings.NewReader("x")},
		{Filename: "notes.txt", Content: strings.NewReader("y")},
	})
	s.assertKind(err, KindInvalidArgument, "")
	s.Len(images, 1)
}

func (s *ServicesTestSuite) TestListProductsPaging() {
	for i := 0; i < 5; i++ {
		s.product(100+i, false)
	}

	first, err := s.listings.ListProducts(s.ctx, nil, 2)
	s.Require().NoError(err)
	s.Equal(1, first.Window.Number)
	s.Equal(3, first.Window.Pages)
	s.True(first.Window.HasNext)
	s.False(first.Window.HasPrev)
	s.Require().Len(first.Products, 2)
	s.Equal(104, first.Products[0].ExpectedPrice, "newest first")

	beyond, err := s.listings.ListProducts(s.ctx, intPtr(42), 2)
	s.Require().NoError(err)
	s.Equal(3, beyond.Window.Number)
	s.Len(beyond.Products, 1)
	s.Equal(100, beyond.Products[0].ExpectedPrice)
}

func (s *ServicesTestSuite) TestListProductsSkipsHidden() {
	visible := s.product(100, false)
	hidden := s.product(200, false)
	s.Require().NoError(s.store.HideProduct(s.ctx, hidden.ID))

	page, err := s.listings.ListProducts(s.ctx, nil, 10)
	s.Require().NoError(err)
	s.Require().Len(page.Products, 1)
	s.Equal(visible.ID, page.Products[0].ID)

	clamped, err := s.listings.ListProducts(s.ctx, intPtr(3), 0)
	s.Require().NoError(err)
	s.Equal(1, clamped.Window.Pages)
	s.Equal(1, clamped.Window.Number)
}
