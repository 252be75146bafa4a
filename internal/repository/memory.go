// internal/repository/memory.go
package repository

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/javajoker/campus-marketplace/internal/models"
)

// MemoryStore is an in-process Store used by tests and by the memory
// database driver. Slices keep insertion order so listings can be returned
// newest first without relying on clock resolution.
type MemoryStore struct {
	mu sync.RWMutex

	users         []*models.User
	profiles      []*models.Profile
	categories    []*models.Category
	products      []*models.Product
	images        []*models.Image
	offers        []*models.Offer
	questions     []*models.Question
	ratings       []*models.Rating
	reports       []*models.Report
	wishlists     []*models.Wishlist
	wishlistItems map[uuid.UUID][]uuid.UUID
	notifications []*models.AdminNotification
	auditLogs     []*models.AuditLog
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		wishlistItems: make(map[uuid.UUID][]uuid.UUID),
	}
}

func stamp(b *models.BaseModel) {
	b.EnsureID()
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

func window(total, offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if limit >= 0 && offset+limit < total {
		end = offset + limit
	}
	return offset, end
}

// lookups, callers hold the lock

func (m *MemoryStore) userByID(id uuid.UUID) *models.User {
	for _, u := range m.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (m *MemoryStore) profileByID(id uuid.UUID) *models.Profile {
	for _, p := range m.profiles {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (m *MemoryStore) productByID(id uuid.UUID) *models.Product {
	for _, p := range m.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (m *MemoryStore) profileView(p *models.Profile) *models.Profile {
	c := *p
	if u := m.userByID(p.UserID); u != nil {
		uc := *u
		uc.Profile = nil
		c.User = &uc
	}
	return &c
}

func (m *MemoryStore) userView(u *models.User) *models.User {
	c := *u
	for _, p := range m.profiles {
		if p.UserID == u.ID {
			pc := *p
			c.Profile = &pc
			break
		}
	}
	return &c
}

func copyProducts(src []*models.Product, keep func(*models.Product) bool, newestFirst bool) []models.Product {
	out := []models.Product{}
	for i := range src {
		p := src[i]
		if newestFirst {
			p = src[len(src)-1-i]
		}
		if keep(p) {
			out = append(out, *p)
		}
	}
	return out
}

// Accounts

func (m *MemoryStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Email == email {
			return m.userView(u), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if u := m.userByID(id); u != nil {
		return m.userView(u), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) UsernameTaken(ctx context.Context, username string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) CreateAccount(ctx context.Context, user *models.User, profile *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return ErrDuplicate
		}
	}

	stamp(&user.BaseModel)
	profile.UserID = user.ID
	stamp(&profile.BaseModel)
	profile.RefreshCompleteness()
	wishlist := &models.Wishlist{ProfileID: profile.ID}
	stamp(&wishlist.BaseModel)

	storedUser := *user
	storedUser.Profile = nil
	storedProfile := *profile
	storedProfile.User = nil

	m.users = append(m.users, &storedUser)
	m.profiles = append(m.profiles, &storedProfile)
	m.wishlists = append(m.wishlists, wishlist)

	user.Profile = profile
	return nil
}

func (m *MemoryStore) TouchLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u := m.userByID(userID)
	if u == nil {
		return ErrNotFound
	}
	u.LastLoginAt = &at
	return nil
}

// Profiles

func (m *MemoryStore) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if p := m.profileByID(id); p != nil {
		return m.profileView(p), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.profiles {
		if p.UserID == userID {
			return m.profileView(p), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Username != username {
			continue
		}
		for _, p := range m.profiles {
			if p.UserID == u.ID {
				return m.profileView(p), nil
			}
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.profiles {
		if p.Email == email {
			return m.profileView(p), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, *m.profileView(p))
	}
	return out, nil
}

func (m *MemoryStore) SaveProfile(ctx context.Context, profile *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := m.profileByID(profile.ID)
	if stored == nil {
		return ErrNotFound
	}
	if profile.ContactNo != nil {
		for _, p := range m.profiles {
			if p.ID != profile.ID && p.ContactNo != nil && *p.ContactNo == *profile.ContactNo {
				return ErrDuplicate
			}
		}
	}

	profile.RefreshCompleteness()
	stored.Name = profile.Name
	stored.Hostel = profile.Hostel
	if profile.ContactNo != nil {
		contact := *profile.ContactNo
		stored.ContactNo = &contact
	} else {
		stored.ContactNo = nil
	}
	stored.IsComplete = profile.IsComplete
	stored.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) SetPermissionLevel(ctx context.Context, profileID uuid.UUID, level models.PermissionLevel) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.profileByID(profileID)
	if p == nil {
		return ErrNotFound
	}
	p.PermissionLevel = level
	return nil
}

func (m *MemoryStore) AdminEmails(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var emails []string
	for _, p := range m.profiles {
		if p.PermissionLevel == models.PermissionAdmin && p.Email != "" {
			emails = append(emails, p.Email)
		}
	}
	return emails, nil
}

// Catalog

func (m *MemoryStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (m *MemoryStore) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.categories {
		if c.ID == id {
			cc := *c
			return &cc, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.categories {
		if c.Name == name {
			cc := *c
			return &cc, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) EnsureCategories(ctx context.Context, names []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, name := range names {
		exists := false
		for _, c := range m.categories {
			if c.Name == name {
				exists = true
				break
			}
		}
		if !exists {
			c := &models.Category{Name: name}
			stamp(&c.BaseModel)
			m.categories = append(m.categories, c)
		}
	}
	return nil
}

func (m *MemoryStore) CreateProduct(ctx context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.profileByID(product.SellerID) == nil {
		return ErrNotFound
	}
	stamp(&product.BaseModel)
	stored := *product
	stored.Seller, stored.Category, stored.Images, stored.Offers, stored.Questions = nil, nil, nil, nil, nil
	m.products = append(m.products, &stored)
	return nil
}

func (m *MemoryStore) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if p := m.productByID(id); p != nil {
		pc := *p
		return &pc, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) UpdateProduct(ctx context.Context, id uuid.UUID, patch ProductPatch) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.productByID(id)
	if p == nil {
		return nil, ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.ExpectedPrice != nil {
		p.ExpectedPrice = *patch.ExpectedPrice
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.CategoryID != nil {
		categoryID := *patch.CategoryID
		p.CategoryID = &categoryID
	}
	if !patch.Empty() {
		p.UpdatedAt = time.Now()
	}

	pc := *p
	return &pc, nil
}

func (m *MemoryStore) CountListedProducts(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var total int64
	for _, p := range m.products {
		if p.Listed() {
			total++
		}
	}
	return total, nil
}

func (m *MemoryStore) ListListedProducts(ctx context.Context, offset, limit int) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := copyProducts(m.products, (*models.Product).Listed, true)
	start, end := window(len(all), offset, limit)
	return all[start:end], nil
}

func (m *MemoryStore) ProductsInCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return copyProducts(m.products, func(p *models.Product) bool {
		return p.Listed() && p.CategoryID != nil && *p.CategoryID == categoryID
	}, true), nil
}

func (m *MemoryStore) ProductsBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return copyProducts(m.products, func(p *models.Product) bool {
		return p.SellerID == sellerID
	}, true), nil
}

func (m *MemoryStore) HideProduct(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.productByID(id)
	if p == nil {
		return ErrNotFound
	}
	p.Visible = false
	return nil
}

func (m *MemoryStore) AddImage(ctx context.Context, image *models.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.productByID(image.ProductID) == nil {
		return ErrNotFound
	}
	stamp(&image.BaseModel)
	stored := *image
	m.images = append(m.images, &stored)
	return nil
}

func (m *MemoryStore) ListImages(ctx context.Context, productID uuid.UUID) ([]models.Image, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Image{}
	for _, img := range m.images {
		if img.ProductID == productID {
			out = append(out, *img)
		}
	}
	return out, nil
}

func (m *MemoryStore) CreateQuestion(ctx context.Context, question *models.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.productByID(question.ProductID) == nil || m.profileByID(question.AskedByID) == nil {
		return ErrNotFound
	}
	stamp(&question.BaseModel)
	stored := *question
	stored.AskedBy, stored.Product = nil, nil
	m.questions = append(m.questions, &stored)
	return nil
}

func (m *MemoryStore) QuestionsForProduct(ctx context.Context, productID uuid.UUID) ([]models.Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Question{}
	for _, q := range m.questions {
		if q.ProductID == productID {
			out = append(out, *q)
		}
	}
	return out, nil
}

// Offers

func (m *MemoryStore) CreateOffer(ctx context.Context, offer *models.Offer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	product := m.productByID(offer.ProductID)
	if product == nil || m.profileByID(offer.OffererID) == nil {
		return ErrNotFound
	}
	for _, o := range m.offers {
		if o.OffererID == offer.OffererID && o.ProductID == offer.ProductID {
			return ErrDuplicate
		}
	}

	stamp(&offer.BaseModel)
	stored := *offer
	stored.Offerer, stored.Product = nil, nil
	m.offers = append(m.offers, &stored)
	product.NumOffers++
	return nil
}

func (m *MemoryStore) OfferExists(ctx context.Context, offererID, productID uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, o := range m.offers {
		if o.OffererID == offererID && o.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) filterOffers(keep func(*models.Offer) bool) []models.Offer {
	out := []models.Offer{}
	for _, o := range m.offers {
		if keep(o) {
			out = append(out, *o)
		}
	}
	return out
}

func (m *MemoryStore) OffersForProduct(ctx context.Context, productID uuid.UUID) ([]models.Offer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.filterOffers(func(o *models.Offer) bool { return o.ProductID == productID }), nil
}

func (m *MemoryStore) OffersByProfile(ctx context.Context, profileID uuid.UUID) ([]models.Offer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.filterOffers(func(o *models.Offer) bool { return o.OffererID == profileID }), nil
}

// Moderation

func (m *MemoryStore) RecordRating(ctx context.Context, rating *models.Rating) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ratee := m.profileByID(rating.RateeID)
	if ratee == nil || m.profileByID(rating.RaterID) == nil {
		return nil, ErrNotFound
	}

	stamp(&rating.BaseModel)
	stored := *rating
	stored.Rater, stored.Ratee = nil, nil
	m.ratings = append(m.ratings, &stored)

	ratee.RatingSum += int64(rating.Value)
	ratee.NumRatings++
	ratee.Rating = math.Round(float64(ratee.RatingSum)/float64(ratee.NumRatings)*10) / 10
	return m.profileView(ratee), nil
}

func (m *MemoryStore) CreateReport(ctx context.Context, report *models.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch report.TargetType {
	case models.ReportTargetUser:
		if report.ReportedProfileID == nil || m.profileByID(*report.ReportedProfileID) == nil {
			return ErrNotFound
		}
	case models.ReportTargetProduct:
		if report.ReportedProductID == nil || m.productByID(*report.ReportedProductID) == nil {
			return ErrNotFound
		}
	}

	stamp(&report.BaseModel)
	stored := *report
	stored.Reporter, stored.ReportedProfile, stored.ReportedProduct = nil, nil, nil
	m.reports = append(m.reports, &stored)
	return nil
}

func (m *MemoryStore) CountReports(ctx context.Context, targetType models.ReportTargetType, targetID uuid.UUID) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, r := range m.reports {
		if r.TargetType == targetType && r.TargetID() == targetID {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) ReportsAgainstProfile(ctx context.Context, profileID uuid.UUID) ([]models.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Report{}
	for _, r := range m.reports {
		if r.TargetType == models.ReportTargetUser && r.TargetID() == profileID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *MemoryStore) ListReports(ctx context.Context, targetType *models.ReportTargetType, offset, limit int) ([]models.Report, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := []models.Report{}
	for i := len(m.reports) - 1; i >= 0; i-- {
		r := m.reports[i]
		if targetType == nil || r.TargetType == *targetType {
			all = append(all, *r)
		}
	}
	start, end := window(len(all), offset, limit)
	return all[start:end], int64(len(all)), nil
}

// Wishlists

func (m *MemoryStore) EnsureWishlist(ctx context.Context, profileID uuid.UUID) (*models.Wishlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, w := range m.wishlists {
		if w.ProfileID == profileID {
			wc := *w
			return &wc, nil
		}
	}
	if m.profileByID(profileID) == nil {
		return nil, ErrNotFound
	}

	w := &models.Wishlist{ProfileID: profileID}
	stamp(&w.BaseModel)
	m.wishlists = append(m.wishlists, w)
	wc := *w
	return &wc, nil
}

func (m *MemoryStore) WishlistProducts(ctx context.Context, wishlistID uuid.UUID) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := m.wishlistItems[wishlistID]
	out := []models.Product{}
	for i := len(items) - 1; i >= 0; i-- {
		if p := m.productByID(items[i]); p != nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *MemoryStore) WishlistContains(ctx context.Context, wishlistID, productID uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, id := range m.wishlistItems[wishlistID] {
		if id == productID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) AddToWishlist(ctx context.Context, wishlistID, productID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.productByID(productID) == nil {
		return ErrNotFound
	}
	for _, id := range m.wishlistItems[wishlistID] {
		if id == productID {
			return nil
		}
	}
	m.wishlistItems[wishlistID] = append(m.wishlistItems[wishlistID], productID)
	return nil
}

func (m *MemoryStore) RemoveFromWishlist(ctx context.Context, wishlistID, productID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.wishlistItems[wishlistID]
	for i, id := range items {
		if id == productID {
			m.wishlistItems[wishlistID] = append(items[:i:i], items[i+1:]...)
			return nil
		}
	}
	return nil
}

// Admin

func (m *MemoryStore) CreateNotification(ctx context.Context, notification *models.AdminNotification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stamp(&notification.BaseModel)
	if notification.Status == "" {
		notification.Status = models.NotificationStatusUnread
	}
	stored := *notification
	m.notifications = append(m.notifications, &stored)
	return nil
}

func (m *MemoryStore) ListNotifications(ctx context.Context, status *models.NotificationStatus, offset, limit int) ([]models.AdminNotification, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := []models.AdminNotification{}
	for i := len(m.notifications) - 1; i >= 0; i-- {
		n := m.notifications[i]
		if status == nil || n.Status == *status {
			all = append(all, *n)
		}
	}
	start, end := window(len(all), offset, limit)
	return all[start:end], int64(len(all)), nil
}

func (m *MemoryStore) MarkNotificationRead(ctx context.Context, id uuid.UUID, at time.Time) (*models.AdminNotification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, n := range m.notifications {
		if n.ID == id {
			n.Status = models.NotificationStatusRead
			n.ReadAt = &at
			nc := *n
			return &nc, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stamp(&entry.BaseModel)
	stored := *entry
	m.auditLogs = append(m.auditLogs, &stored)
	return nil
}

// AuditLogs returns a snapshot of the recorded audit entries.
func (m *MemoryStore) AuditLogs() []models.AuditLog {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.AuditLog, 0, len(m.auditLogs))
	for _, l := range m.auditLogs {
		out = append(out, *l)
	}
	return out
}

var _ Store = (*MemoryStore)(nil)
