// internal/graph/mutation.go
package graph

import (
	"context"

	"github.com/google/uuid"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/campus-marketplace/internal/models"
	"github.com/javajoker/campus-marketplace/internal/services"
)

// payload carries the ok/errors pair shared by every mutation result.
type payload struct {
	errors []string
}

func (p payload) Ok() bool { return len(p.errors) == 0 }

func (p payload) Errors() []string {
	if p.errors == nil {
		return []string{}
	}
	return p.errors
}

// outcome sorts a mutation failure. Permission gate failures abort the
// request as GraphQL errors; everything else is reported in the payload.
func outcome(mutation string, err error) (payload, error) {
	if err == nil {
		return payload{}, nil
	}
	if services.IsGateError(err) {
		return payload{}, err
	}
	if services.KindOf(err) == services.KindInternal {
		logrus.WithError(err).WithField("mutation", mutation).Error("GraphQL mutation failed")
	}
	return payload{errors: services.PublicMessages(err)}, nil
}

type productPayload struct {
	payload
	r       *Resolver
	product *models.Product
}

func (p *productPayload) Product() *productResolver {
	if p.product == nil {
		return nil
	}
	return p.r.product(p.product)
}

type profilePayload struct {
	payload
	r       *Resolver
	profile *models.Profile
}

func (p *profilePayload) Profile() *profileResolver {
	if p.profile == nil {
		return nil
	}
	return p.r.profile(p.profile)
}

type wishlistPayload struct {
	payload
	r    *Resolver
	view *services.WishlistView
}

func (p *wishlistPayload) Wishlist() *wishlistResolver {
	if p.view == nil {
		return nil
	}
	return &wishlistResolver{r: p.r, view: p.view}
}

type offerPayload struct {
	payload
	r     *Resolver
	offer *models.Offer
}

func (p *offerPayload) Offer() *offerResolver {
	if p.offer == nil {
		return nil
	}
	return &offerResolver{r: p.r, o: p.offer}
}

type reportPayload struct {
	payload
	r      *Resolver
	report *models.Report
}

func (p *reportPayload) Report() *reportResolver {
	if p.report == nil {
		return nil
	}
	return &reportResolver{r: p.r, rep: p.report}
}

type imagePayload struct {
	payload
	r       *Resolver
	product *models.Product
	images  []models.Image
}

func (p *imagePayload) Product() *productResolver {
	if p.product == nil {
		return nil
	}
	return p.r.product(p.product)
}

func (p *imagePayload) Images() []string {
	return imageURLs(p.images)
}

type productInput struct {
	Name          *string
	ExpectedPrice *int32
	IsNegotiable  *bool
	Description   *string
	CategoryID    *graphql.ID
}

func (in productInput) categoryID() *uuid.UUID {
	if in.CategoryID == nil {
		return nil
	}
	id := toUUID(*in.CategoryID)
	return &id
}

type profileInput struct {
	Name      *string
	Hostel    *string
	ContactNo *string
}

type offerInput struct {
	Amount  *int32
	Message *string
}

type userReportInput struct {
	ReportedUser string
	Category     *int32
	Message      *string
}

type productReportInput struct {
	ReportedProduct graphql.ID
	Category        *int32
	Message         *string
}

type ratingInput struct {
	ProfileID graphql.ID
	Rating    int32
}

type uploadImageInput struct {
	ProductID graphql.ID
}

func intValue(v *int32) int {
	if v == nil {
		return 0
	}
	return int(*v)
}

func intPtr(v *int32) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}

func stringValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func (r *Resolver) CreateProduct(ctx context.Context, args struct{ Input productInput }) (*productPayload, error) {
	product, err := r.listings.CreateListing(ctx, services.CreateListingInput{
		Name:          stringValue(args.Input.Name),
		ExpectedPrice: intValue(args.Input.ExpectedPrice),
		IsNegotiable:  args.Input.IsNegotiable != nil && *args.Input.IsNegotiable,
		Description:   stringValue(args.Input.Description),
		CategoryID:    args.Input.categoryID(),
	})
	result, err := outcome("createProduct", err)
	if err != nil {
		return nil, err
	}
	return &productPayload{payload: result, r: r, product: product}, nil
}

// UpdateProduct applies the present fields of input. isNegotiable cannot be
// changed after creation and is ignored.
func (r *Resolver) UpdateProduct(ctx context.Context, args struct {
	ID    graphql.ID
	Input productInput
}) (*productPayload, error) {
	product, err := r.listings.UpdateListing(ctx, toUUID(args.ID), services.UpdateListingInput{
		Name:          args.Input.Name,
		ExpectedPrice: intPtr(args.Input.ExpectedPrice),
		Description:   args.Input.Description,
		CategoryID:    args.Input.categoryID(),
	})
	result, err := outcome("updateProduct", err)
	if err != nil {
		return nil, err
	}
	return &productPayload{payload: result, r: r, product: product}, nil
}

func (r *Resolver) UpdateProfile(ctx context.Context, args struct {
	Username string
	Input    *profileInput
}) (*profilePayload, error) {
	var input *services.UpdateProfileInput
	if args.Input != nil {
		input = &services.UpdateProfileInput{
			Name:      args.Input.Name,
			Hostel:    args.Input.Hostel,
			ContactNo: args.Input.ContactNo,
		}
	}

	profile, err := r.profiles.UpdateProfile(ctx, args.Username, input)
	result, err := outcome("updateProfile", err)
	if err != nil {
		return nil, err
	}
	return &profilePayload{payload: result, r: r, profile: profile}, nil
}

func (r *Resolver) UpdateWishlist(ctx context.Context, args struct{ ID graphql.ID }) (*wishlistPayload, error) {
	view, err := r.wishlists.ToggleWishlist(ctx, toUUID(args.ID))
	result, err := outcome("updateWishlist", err)
	if err != nil {
		return nil, err
	}
	return &wishlistPayload{payload: result, r: r, view: view}, nil
}

func (r *Resolver) CreateOffer(ctx context.Context, args struct {
	ID    graphql.ID
	Input *offerInput
}) (*offerPayload, error) {
	var input services.CreateOfferInput
	if args.Input != nil {
		input.Amount = intPtr(args.Input.Amount)
		input.Message = stringValue(args.Input.Message)
	}

	offer, err := r.offers.CreateOffer(ctx, toUUID(args.ID), input)
	result, err := outcome("createOffer", err)
	if err != nil {
		return nil, err
	}
	return &offerPayload{payload: result, r: r, offer: offer}, nil
}

func (r *Resolver) CreateUserReport(ctx context.Context, args struct{ Input userReportInput }) (*reportPayload, error) {
	report, err := r.moderation.FileUserReport(ctx, args.Input.ReportedUser, services.ReportInput{
		Category: intValue(args.Input.Category),
		Message:  stringValue(args.Input.Message),
	})
	result, err := outcome("createUserReport", err)
	if err != nil {
		return nil, err
	}
	return &reportPayload{payload: result, r: r, report: report}, nil
}

func (r *Resolver) CreateProductReport(ctx context.Context, args struct{ Input productReportInput }) (*reportPayload, error) {
	report, err := r.moderation.FileProductReport(ctx, toUUID(args.Input.ReportedProduct), services.ReportInput{
		Category: intValue(args.Input.Category),
		Message:  stringValue(args.Input.Message),
	})
	result, err := outcome("createProductReport", err)
	if err != nil {
		return nil, err
	}
	return &reportPayload{payload: result, r: r, report: report}, nil
}

func (r *Resolver) RateProfile(ctx context.Context, args struct{ Input ratingInput }) (*profilePayload, error) {
	profile, err := r.moderation.RateProfile(ctx, toUUID(args.Input.ProfileID), int(args.Input.Rating))
	result, err := outcome("rateProfile", err)
	if err != nil {
		return nil, err
	}
	return &profilePayload{payload: result, r: r, profile: profile}, nil
}

// UploadImage stores the request's files as images of the caller's product.
// A request without files leaves the product untouched.
func (r *Resolver) UploadImage(ctx context.Context, args struct {
	Input uploadImageInput
	File  *[]Upload
}) (*imagePayload, error) {
	if _, err := services.Authenticated(ctx); err != nil {
		return nil, err
	}

	var uploads []Upload
	if args.File != nil {
		uploads = *args.File
	}

	files, err := resolveUploads(ctx, uploads)
	if err != nil {
		result, _ := outcome("uploadImage", err)
		return &imagePayload{payload: result, r: r}, nil
	}

	product, images, err := r.listings.AttachImages(ctx, toUUID(args.Input.ProductID), files)
	result, err := outcome("uploadImage", err)
	if err != nil {
		return nil, err
	}
	return &imagePayload{payload: result, r: r, product: product, images: images}, nil
}
