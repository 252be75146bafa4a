// internal/graph/types.go
package graph

import (
	"context"
	"strings"

	"github.com/google/uuid"
	graphql "github.com/graph-gophers/graphql-go"

	"github.com/javajoker/campus-marketplace/internal/models"
	"github.com/javajoker/campus-marketplace/internal/services"
	"github.com/javajoker/campus-marketplace/internal/utils"
)

func (r *Resolver) profile(p *models.Profile) *profileResolver {
	return &profileResolver{r: r, p: p}
}

func (r *Resolver) product(p *models.Product) *productResolver {
	return &productResolver{r: r, p: p}
}

func (r *Resolver) productList(products []models.Product) []*productResolver {
	out := make([]*productResolver, len(products))
	for i := range products {
		out[i] = r.product(&products[i])
	}
	return out
}

func (r *Resolver) offerList(offers []models.Offer) []*offerResolver {
	out := make([]*offerResolver, len(offers))
	for i := range offers {
		out[i] = &offerResolver{r: r, o: &offers[i]}
	}
	return out
}

func (r *Resolver) reportList(reports []models.Report) []*reportResolver {
	out := make([]*reportResolver, len(reports))
	for i := range reports {
		out[i] = &reportResolver{r: r, rep: &reports[i]}
	}
	return out
}

// loadProfile resolves a profile reference, preferring the preloaded value.
func (r *Resolver) loadProfile(ctx context.Context, preloaded *models.Profile, id uuid.UUID) (*profileResolver, error) {
	if preloaded != nil {
		return r.profile(preloaded), nil
	}
	profile, err := r.profiles.GetProfile(ctx, id)
	if err != nil {
		return nil, queryError("profile", err)
	}
	if profile == nil {
		return nil, nil
	}
	return r.profile(profile), nil
}

func (r *Resolver) loadProduct(ctx context.Context, preloaded *models.Product, id uuid.UUID) (*productResolver, error) {
	if preloaded != nil {
		return r.product(preloaded), nil
	}
	product, err := r.listings.GetProduct(ctx, id)
	if err != nil {
		if services.KindOf(err) == services.KindNotFound {
			return nil, nil
		}
		return nil, queryError("product", err)
	}
	return r.product(product), nil
}

type profileResolver struct {
	r *Resolver
	p *models.Profile
}

func (p *profileResolver) ID() graphql.ID { return toID(p.p.ID) }

func (p *profileResolver) Username(ctx context.Context) (string, error) {
	username, err := p.r.profiles.Username(ctx, p.p)
	if err != nil {
		return "", queryError("username", err)
	}
	return username, nil
}

func (p *profileResolver) Name() string  { return p.p.Name }
func (p *profileResolver) Email() string { return p.p.Email }

// Hostel is the display name of the hostel, empty when unset.
func (p *profileResolver) Hostel() string     { return p.p.Hostel.DisplayName() }
func (p *profileResolver) HostelCode() string { return string(p.p.Hostel) }

func (p *profileResolver) ContactNo() *string {
	if p.p.ContactNo == nil || *p.p.ContactNo == "" {
		return nil
	}
	return p.p.ContactNo
}

func (p *profileResolver) Rating() float64   { return p.p.Rating }
func (p *profileResolver) NumRatings() int32 { return int32(p.p.NumRatings) }

func (p *profileResolver) PermissionLevel() string {
	return strings.ToUpper(p.p.PermissionLevel.String())
}

func (p *profileResolver) IsComplete() bool { return p.p.IsComplete }

func (p *profileResolver) Products(ctx context.Context) ([]*productResolver, error) {
	products, err := p.r.listings.ProductsBySeller(ctx, p.p.ID)
	if err != nil {
		return nil, queryError("products", err)
	}
	return p.r.productList(products), nil
}

func (p *profileResolver) Offers(ctx context.Context) ([]*offerResolver, error) {
	offers, err := p.r.offers.OffersByProfile(ctx, p.p.ID)
	if err != nil {
		return nil, queryError("offers", err)
	}
	return p.r.offerList(offers), nil
}

func (p *profileResolver) Reports(ctx context.Context) ([]*reportResolver, error) {
	reports, err := p.r.moderation.ReportsAgainstProfile(ctx, p.p.ID)
	if err != nil {
		return nil, queryError("reports", err)
	}
	return p.r.reportList(reports), nil
}

type productResolver struct {
	r *Resolver
	p *models.Product
}

func (p *productResolver) ID() graphql.ID          { return toID(p.p.ID) }
func (p *productResolver) Name() string            { return p.p.Name }
func (p *productResolver) Description() string     { return p.p.Description }
func (p *productResolver) ExpectedPrice() int32    { return int32(p.p.ExpectedPrice) }
func (p *productResolver) IsNegotiable() bool      { return p.p.IsNegotiable }
func (p *productResolver) Visible() bool           { return p.p.Visible }
func (p *productResolver) Expired() bool           { return p.p.Expired }
func (p *productResolver) Sold() bool              { return p.p.Sold }
func (p *productResolver) NumOffers() int32        { return int32(p.p.NumOffers) }
func (p *productResolver) CreatedAt() graphql.Time { return graphql.Time{Time: p.p.CreatedAt} }

func (p *productResolver) Seller(ctx context.Context) (*profileResolver, error) {
	return p.r.loadProfile(ctx, p.p.Seller, p.p.SellerID)
}

func (p *productResolver) Category(ctx context.Context) (*categoryResolver, error) {
	if p.p.Category != nil {
		return &categoryResolver{r: p.r, c: p.p.Category}, nil
	}
	if p.p.CategoryID == nil {
		return nil, nil
	}
	category, err := p.r.listings.GetCategory(ctx, *p.p.CategoryID)
	if err != nil {
		return nil, queryError("category", err)
	}
	if category == nil {
		return nil, nil
	}
	return &categoryResolver{r: p.r, c: category}, nil
}

// Images are the public URLs of the product's images.
func (p *productResolver) Images(ctx context.Context) ([]string, error) {
	images := p.p.Images
	if images == nil {
		var err error
		if images, err = p.r.listings.Images(ctx, p.p.ID); err != nil {
			return nil, queryError("images", err)
		}
	}
	return imageURLs(images), nil
}

func (p *productResolver) Offers(ctx context.Context) ([]*offerResolver, error) {
	offers, err := p.r.offers.OffersForProduct(ctx, p.p.ID)
	if err != nil {
		return nil, queryError("offers", err)
	}
	return p.r.offerList(offers), nil
}

func (p *productResolver) Questions(ctx context.Context) ([]*questionResolver, error) {
	questions := p.p.Questions
	if questions == nil {
		var err error
		if questions, err = p.r.listings.Questions(ctx, p.p.ID); err != nil {
			return nil, queryError("questions", err)
		}
	}
	out := make([]*questionResolver, len(questions))
	for i := range questions {
		out[i] = &questionResolver{r: p.r, q: &questions[i]}
	}
	return out, nil
}

func imageURLs(images []models.Image) []string {
	urls := make([]string, len(images))
	for i, image := range images {
		urls[i] = image.URL
	}
	return urls
}

type categoryResolver struct {
	r *Resolver
	c *models.Category
}

func (c *categoryResolver) ID() graphql.ID { return toID(c.c.ID) }
func (c *categoryResolver) Name() string   { return c.c.Name }

func (c *categoryResolver) Products(ctx context.Context) ([]*productResolver, error) {
	products, err := c.r.listings.ProductsInCategory(ctx, c.c.ID)
	if err != nil {
		return nil, queryError("products", err)
	}
	return c.r.productList(products), nil
}

type offerResolver struct {
	r *Resolver
	o *models.Offer
}

func (o *offerResolver) ID() graphql.ID          { return toID(o.o.ID) }
func (o *offerResolver) Amount() int32           { return int32(o.o.Amount) }
func (o *offerResolver) Message() string         { return o.o.Message }
func (o *offerResolver) CreatedAt() graphql.Time { return graphql.Time{Time: o.o.CreatedAt} }

func (o *offerResolver) Offerer(ctx context.Context) (*profileResolver, error) {
	return o.r.loadProfile(ctx, o.o.Offerer, o.o.OffererID)
}

func (o *offerResolver) Product(ctx context.Context) (*productResolver, error) {
	return o.r.loadProduct(ctx, o.o.Product, o.o.ProductID)
}

type questionResolver struct {
	r *Resolver
	q *models.Question
}

func (q *questionResolver) ID() graphql.ID          { return toID(q.q.ID) }
func (q *questionResolver) Question() string        { return q.q.Question }
func (q *questionResolver) Answer() string          { return q.q.Answer }
func (q *questionResolver) IsAnswered() bool        { return q.q.IsAnswered }
func (q *questionResolver) CreatedAt() graphql.Time { return graphql.Time{Time: q.q.CreatedAt} }

func (q *questionResolver) AskedBy(ctx context.Context) (*profileResolver, error) {
	return q.r.loadProfile(ctx, q.q.AskedBy, q.q.AskedByID)
}

func (q *questionResolver) Product(ctx context.Context) (*productResolver, error) {
	return q.r.loadProduct(ctx, q.q.Product, q.q.ProductID)
}

type reportResolver struct {
	r   *Resolver
	rep *models.Report
}

func (rr *reportResolver) ID() graphql.ID          { return toID(rr.rep.ID) }
func (rr *reportResolver) TargetType() string      { return string(rr.rep.TargetType) }
func (rr *reportResolver) Category() int32         { return int32(rr.rep.Category) }
func (rr *reportResolver) Message() string         { return rr.rep.Message }
func (rr *reportResolver) CreatedAt() graphql.Time { return graphql.Time{Time: rr.rep.CreatedAt} }

func (rr *reportResolver) Reporter(ctx context.Context) (*profileResolver, error) {
	return rr.r.loadProfile(ctx, rr.rep.Reporter, rr.rep.ReporterID)
}

func (rr *reportResolver) ReportedUser(ctx context.Context) (*profileResolver, error) {
	if rr.rep.ReportedProfileID == nil {
		return nil, nil
	}
	return rr.r.loadProfile(ctx, rr.rep.ReportedProfile, *rr.rep.ReportedProfileID)
}

func (rr *reportResolver) ReportedProduct(ctx context.Context) (*productResolver, error) {
	if rr.rep.ReportedProductID == nil {
		return nil, nil
	}
	return rr.r.loadProduct(ctx, rr.rep.ReportedProduct, *rr.rep.ReportedProductID)
}

type wishlistResolver struct {
	r    *Resolver
	view *services.WishlistView
}

func (w *wishlistResolver) ID() graphql.ID { return toID(w.view.Wishlist.ID) }

func (w *wishlistResolver) Profile() *profileResolver {
	return w.r.profile(w.view.Profile)
}

func (w *wishlistResolver) Products() []*productResolver {
	return w.r.productList(w.view.Products)
}

type productPageResolver struct {
	window  utils.PageWindow
	objects []*productResolver
}

func (p *productPageResolver) Page() int32                 { return int32(p.window.Number) }
func (p *productPageResolver) Pages() int32                { return int32(p.window.Pages) }
func (p *productPageResolver) HasNext() bool               { return p.window.HasNext }
func (p *productPageResolver) HasPrev() bool               { return p.window.HasPrev }
func (p *productPageResolver) Objects() []*productResolver { return p.objects }
