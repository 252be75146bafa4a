// internal/graph/resolver.go
package graph

import (
	"context"

	"github.com/google/uuid"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/campus-marketplace/internal/models"
	"github.com/javajoker/campus-marketplace/internal/services"
	"github.com/javajoker/campus-marketplace/internal/utils"
)

// Services are the domain services the resolvers delegate to.
type Services struct {
	Listings   *services.ListingService
	Offers     *services.OfferService
	Moderation *services.ModerationService
	Wishlists  *services.WishlistService
	Profiles   *services.ProfileService
}

// Resolver is the root resolver for both queries and mutations.
type Resolver struct {
	listings   *services.ListingService
	offers     *services.OfferService
	moderation *services.ModerationService
	wishlists  *services.WishlistService
	profiles   *services.ProfileService
}

func NewResolver(svc Services) *Resolver {
	return &Resolver{
		listings:   svc.Listings,
		offers:     svc.Offers,
		moderation: svc.Moderation,
		wishlists:  svc.Wishlists,
		profiles:   svc.Profiles,
	}
}

var errInternal = &services.Error{Kind: services.KindInternal, Message: services.MsgInternal}

// queryError masks unexpected failures and passes domain errors through.
func queryError(field string, err error) error {
	if services.KindOf(err) == services.KindInternal {
		logrus.WithError(err).WithField("field", field).Error("GraphQL query failed")
		return errInternal
	}
	return err
}

// toUUID returns uuid.Nil for malformed ids, which no row carries.
func toUUID(id graphql.ID) uuid.UUID {
	parsed, err := uuid.Parse(string(id))
	if err != nil {
		return uuid.Nil
	}
	return parsed
}

func toID(id uuid.UUID) graphql.ID {
	return graphql.ID(id.String())
}

func (r *Resolver) Product(ctx context.Context, args struct{ ID graphql.ID }) (*productResolver, error) {
	if _, err := services.Authenticated(ctx); err != nil {
		return nil, err
	}

	product, err := r.listings.GetProduct(ctx, toUUID(args.ID))
	if err != nil {
		if services.KindOf(err) == services.KindNotFound {
			return nil, nil
		}
		return nil, queryError("product", err)
	}
	return r.product(product), nil
}

func (r *Resolver) Products(ctx context.Context, args struct {
	Page     *int32
	PageSize *int32
}) (*productPageResolver, error) {
	if _, err := services.Authenticated(ctx); err != nil {
		return nil, err
	}

	size := utils.DefaultPageSize
	if args.PageSize != nil && *args.PageSize > 0 {
		size = int(*args.PageSize)
	}
	if size > utils.MaxPageSize {
		size = utils.MaxPageSize
	}

	var page *int
	if args.Page != nil {
		p := int(*args.Page)
		page = &p
	}

	result, err := r.listings.ListProducts(ctx, page, size)
	if err != nil {
		return nil, queryError("products", err)
	}
	return &productPageResolver{window: result.Window, objects: r.productList(result.Products)}, nil
}

// Profile looks a profile up by username, id or email, in that order of
// preference.
func (r *Resolver) Profile(ctx context.Context, args struct {
	ID       *graphql.ID
	Username *string
	Email    *string
}) (*profileResolver, error) {
	if _, err := services.Authenticated(ctx); err != nil {
		return nil, err
	}

	var (
		profile *models.Profile
		err     error
	)
	switch {
	case args.Username != nil:
		profile, err = r.profiles.GetProfileByUsername(ctx, *args.Username)
	case args.ID != nil:
		profile, err = r.profiles.GetProfile(ctx, toUUID(*args.ID))
	case args.Email != nil:
		profile, err = r.profiles.GetProfileByEmail(ctx, *args.Email)
	}
	if err != nil {
		return nil, queryError("profile", err)
	}
	if profile == nil {
		return nil, nil
	}
	return r.profile(profile), nil
}

func (r *Resolver) MyProfile(ctx context.Context) (*profileResolver, error) {
	viewer, err := services.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	return r.profile(viewer), nil
}

func (r *Resolver) AllProfiles(ctx context.Context) ([]*profileResolver, error) {
	if _, err := services.Authenticated(ctx); err != nil {
		return nil, err
	}

	profiles, err := r.profiles.ListProfiles(ctx)
	if err != nil {
		return nil, queryError("allProfiles", err)
	}

	out := make([]*profileResolver, len(profiles))
	for i := range profiles {
		out[i] = r.profile(&profiles[i])
	}
	return out, nil
}

func (r *Resolver) AllCategories(ctx context.Context) ([]*categoryResolver, error) {
	if _, err := services.Authenticated(ctx); err != nil {
		return nil, err
	}

	categories, err := r.listings.ListCategories(ctx)
	if err != nil {
		return nil, queryError("allCategories", err)
	}

	out := make([]*categoryResolver, len(categories))
	for i := range categories {
		out[i] = &categoryResolver{r: r, c: &categories[i]}
	}
	return out, nil
}

func (r *Resolver) Category(ctx context.Context, args struct{ Name string }) (*categoryResolver, error) {
	if _, err := services.Authenticated(ctx); err != nil {
		return nil, err
	}

	category, err := r.listings.GetCategoryByName(ctx, args.Name)
	if err != nil {
		return nil, queryError("category", err)
	}
	if category == nil {
		return nil, nil
	}
	return &categoryResolver{r: r, c: category}, nil
}

func (r *Resolver) Wishlist(ctx context.Context) ([]*productResolver, error) {
	view, err := r.wishlists.Wishlist(ctx)
	if err != nil {
		return nil, queryError("wishlist", err)
	}
	return r.productList(view.Products), nil
}

// ProductOffer lists the offers made on a product, or null when the product
// does not exist.
func (r *Resolver) ProductOffer(ctx context.Context, args struct{ ID graphql.ID }) (*[]*offerResolver, error) {
	if _, err := services.Authenticated(ctx); err != nil {
		return nil, err
	}

	product, err := r.listings.GetProduct(ctx, toUUID(args.ID))
	if err != nil {
		if services.KindOf(err) == services.KindNotFound {
			return nil, nil
		}
		return nil, queryError("productOffer", err)
	}

	offers, err := r.offers.OffersForProduct(ctx, product.ID)
	if err != nil {
		return nil, queryError("productOffer", err)
	}
	out := r.offerList(offers)
	return &out, nil
}
