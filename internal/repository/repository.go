// internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/javajoker/campus-marketplace/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type AccountStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	// CreateAccount persists the user, its profile and an empty wishlist
	// as one unit.
	CreateAccount(ctx context.Context, user *models.User, profile *models.Profile) error
	TouchLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
}

type ProfileStore interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	ListProfiles(ctx context.Context) ([]models.Profile, error)
	// SaveProfile writes the user editable fields and is_complete.
	SaveProfile(ctx context.Context, profile *models.Profile) error
	SetPermissionLevel(ctx context.Context, profileID uuid.UUID, level models.PermissionLevel) error
	AdminEmails(ctx context.Context) ([]string, error)
}

// ProductPatch carries the mutable listing fields. Nil fields are left
// untouched.
type ProductPatch struct {
	Name          *string
	ExpectedPrice *int
	Description   *string
	CategoryID    *uuid.UUID
}

func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.ExpectedPrice == nil && p.Description == nil && p.CategoryID == nil
}

type CatalogStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*models.Category, error)
	EnsureCategories(ctx context.Context, names []string) error

	CreateProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, patch ProductPatch) (*models.Product, error)
	// CountListedProducts and ListListedProducts cover visible, unexpired
	// products. Listings are newest first.
	CountListedProducts(ctx context.Context) (int64, error)
	ListListedProducts(ctx context.Context, offset, limit int) ([]models.Product, error)
	ProductsInCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error)
	ProductsBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error)
	HideProduct(ctx context.Context, id uuid.UUID) error

	AddImage(ctx context.Context, image *models.Image) error
	ListImages(ctx context.Context, productID uuid.UUID) ([]models.Image, error)

	// CreateQuestion fails with ErrNotFound when the product or the asking
	// profile is missing. Questions are listed oldest first.
	CreateQuestion(ctx context.Context, question *models.Question) error
	QuestionsForProduct(ctx context.Context, productID uuid.UUID) ([]models.Question, error)
}

type OfferStore interface {
	// CreateOffer inserts the offer and bumps the product's num_offers in the
	// same transaction. A second offer for the same pair yields ErrDuplicate.
	CreateOffer(ctx context.Context, offer *models.Offer) error
	OfferExists(ctx context.Context, offererID, productID uuid.UUID) (bool, error)
	OffersForProduct(ctx context.Context, productID uuid.UUID) ([]models.Offer, error)
	OffersByProfile(ctx context.Context, profileID uuid.UUID) ([]models.Offer, error)
}

type ModerationStore interface {
	// RecordRating appends the rating and folds it into the ratee's
	// aggregate in one transaction. It returns the refreshed ratee.
	RecordRating(ctx context.Context, rating *models.Rating) (*models.Profile, error)
	CreateReport(ctx context.Context, report *models.Report) error
	CountReports(ctx context.Context, targetType models.ReportTargetType, targetID uuid.UUID) (int64, error)
	ReportsAgainstProfile(ctx context.Context, profileID uuid.UUID) ([]models.Report, error)
	ListReports(ctx context.Context, targetType *models.ReportTargetType, offset, limit int) ([]models.Report, int64, error)
}

type WishlistStore interface {
	// EnsureWishlist returns the profile's wishlist, creating it if missing.
	EnsureWishlist(ctx context.Context, profileID uuid.UUID) (*models.Wishlist, error)
	WishlistProducts(ctx context.Context, wishlistID uuid.UUID) ([]models.Product, error)
	WishlistContains(ctx context.Context, wishlistID, productID uuid.UUID) (bool, error)
	AddToWishlist(ctx context.Context, wishlistID, productID uuid.UUID) error
	RemoveFromWishlist(ctx context.Context, wishlistID, productID uuid.UUID) error
}

type AdminStore interface {
	CreateNotification(ctx context.Context, notification *models.AdminNotification) error
	ListNotifications(ctx context.Context, status *models.NotificationStatus, offset, limit int) ([]models.AdminNotification, int64, error)
	MarkNotificationRead(ctx context.Context, id uuid.UUID, at time.Time) (*models.AdminNotification, error)
	CreateAuditLog(ctx context.Context, entry *models.AuditLog) error
}

// Store is the full persistence surface used by the services.
type Store interface {
	AccountStore
	ProfileStore
	CatalogStore
	OfferStore
	ModerationStore
	WishlistStore
	AdminStore
}
