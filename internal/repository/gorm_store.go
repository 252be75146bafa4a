// internal/repository/gorm_store.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/campus-marketplace/internal/models"
)

// GormStore is the PostgreSQL backed Store. The *gorm.DB it wraps must be
// opened with TranslateError so constraint violations map onto the
// package sentinels.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func affected(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// listed restricts a product query to the default listing scope.
func listed(db *gorm.DB) *gorm.DB {
	return db.Where("visible = ? AND expired = ?", true, false)
}

// Accounts

func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Profile").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Profile").First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Unscoped().Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, translate(err)
}

func (s *GormStore) CreateAccount(ctx context.Context, user *models.User, profile *models.Profile) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return err
		}

		profile.UserID = user.ID
		if err := tx.Omit(clause.Associations).Create(profile).Error; err != nil {
			return err
		}

		wishlist := &models.Wishlist{ProfileID: profile.ID}
		if err := tx.Omit(clause.Associations).Create(wishlist).Error; err != nil {
			return err
		}

		user.Profile = profile
		return nil
	})
	return translate(err)
}

func (s *GormStore) TouchLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	return affected(s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("last_login_at", at))
}

// Profiles

func (s *GormStore) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Preload("User").First(&profile, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (s *GormStore) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (s *GormStore) GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN users ON users.id = profiles.user_id AND users.deleted_at IS NULL").
		Where("users.username = ?", username).
		First(&profile).Error
	if err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (s *GormStore) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Preload("User").Where("email = ?", email).First(&profile).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (s *GormStore) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	err := s.db.WithContext(ctx).Preload("User").Order("created_at").Find(&profiles).Error
	return profiles, translate(err)
}

func (s *GormStore) SaveProfile(ctx context.Context, profile *models.Profile) error {
	return affected(s.db.WithContext(ctx).Model(profile).
		Select("name", "hostel", "contact_no", "is_complete").
		Updates(profile))
}

func (s *GormStore) SetPermissionLevel(ctx context.Context, profileID uuid.UUID, level models.PermissionLevel) error {
	return affected(s.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", profileID).
		UpdateColumn("permission_level", level))
}

func (s *GormStore) AdminEmails(ctx context.Context) ([]string, error) {
	var emails []string
	err := s.db.WithContext(ctx).Model(&models.Profile{}).
		Where("permission_level = ? AND email <> ''", models.PermissionAdmin).
		Pluck("email", &emails).Error
	return emails, translate(err)
}

// Catalog

func (s *GormStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).Order("name").Find(&categories).Error
	return categories, translate(err)
}

func (s *GormStore) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (s *GormStore) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (s *GormStore) EnsureCategories(ctx context.Context, names []string) error {
	for _, name := range names {
		var category models.Category
		if err := s.db.WithContext(ctx).Where(models.Category{Name: name}).FirstOrCreate(&category).Error; err != nil {
			return translate(err)
		}
	}
	return nil
}

func (s *GormStore) CreateProduct(ctx context.Context, product *models.Product) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error)
}

func (s *GormStore) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (s *GormStore) UpdateProduct(ctx context.Context, id uuid.UUID, patch ProductPatch) (*models.Product, error) {
	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.ExpectedPrice != nil {
		updates["expected_price"] = *patch.ExpectedPrice
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.CategoryID != nil {
		updates["category_id"] = *patch.CategoryID
	}

	if len(updates) > 0 {
		res := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(updates)
		if err := affected(res); err != nil {
			return nil, err
		}
	}

	return s.GetProduct(ctx, id)
}

func (s *GormStore) CountListedProducts(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&models.Product{}).Scopes(listed).Count(&total).Error
	return total, translate(err)
}

func (s *GormStore) ListListedProducts(ctx context.Context, offset, limit int) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).Scopes(listed).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&products).Error
	return products, translate(err)
}

func (s *GormStore) ProductsInCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).Scopes(listed).
		Where("category_id = ?", categoryID).
		Order("created_at DESC").
		Find(&products).Error
	return products, translate(err)
}

func (s *GormStore) ProductsBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&products).Error
	return products, translate(err)
}

func (s *GormStore) HideProduct(ctx context.Context, id uuid.UUID) error {
	return affected(s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("visible", false))
}

func (s *GormStore) AddImage(ctx context.Context, image *models.Image) error {
	return translate(s.db.WithContext(ctx).Create(image).Error)
}

func (s *GormStore) ListImages(ctx context.Context, productID uuid.UUID) ([]models.Image, error) {
	var images []models.Image
	err := s.db.WithContext(ctx).Where("product_id = ?", productID).Order("created_at").Find(&images).Error
	return images, translate(err)
}

func (s *GormStore) CreateQuestion(ctx context.Context, question *models.Question) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(question).Error)
}

func (s *GormStore) QuestionsForProduct(ctx context.Context, productID uuid.UUID) ([]models.Question, error) {
	var questions []models.Question
	err := s.db.WithContext(ctx).Where("product_id = ?", productID).Order("created_at").Find(&questions).Error
	return questions, translate(err)
}

// Offers

func (s *GormStore) CreateOffer(ctx context.Context, offer *models.Offer) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(offer).Error; err != nil {
			return err
		}
		return incrementOfferCount(tx, offer.ProductID)
	})
	return translate(err)
}

func incrementOfferCount(tx *gorm.DB, productID uuid.UUID) error {
	return affected(tx.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("num_offers", gorm.Expr("num_offers + ?", 1)))
}

func (s *GormStore) OfferExists(ctx context.Context, offererID, productID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Offer{}).
		Where("offerer_id = ?", offererID).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count > 0, translate(err)
}

func (s *GormStore) OffersForProduct(ctx context.Context, productID uuid.UUID) ([]models.Offer, error) {
	var offers []models.Offer
	err := s.db.WithContext(ctx).Where("product_id = ?", productID).Order("created_at").Find(&offers).Error
	return offers, translate(err)
}

func (s *GormStore) OffersByProfile(ctx context.Context, profileID uuid.UUID) ([]models.Offer, error) {
	var offers []models.Offer
	err := s.db.WithContext(ctx).Where("offerer_id = ?", profileID).Order("created_at").Find(&offers).Error
	return offers, translate(err)
}

// Moderation

func (s *GormStore) RecordRating(ctx context.Context, rating *models.Rating) (*models.Profile, error) {
	var ratee models.Profile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(rating).Error; err != nil {
			return err
		}
		if err := applyRating(tx, rating.RateeID, rating.Value); err != nil {
			return err
		}
		return tx.Preload("User").First(&ratee, "id = ?", rating.RateeID).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &ratee, nil
}

// applyRating folds one rating into the running aggregate. Every right hand
// side reads the pre-update row, so the statement is safe under concurrent
// raters.
func applyRating(tx *gorm.DB, profileID uuid.UUID, value int) error {
	return affected(tx.Model(&models.Profile{}).
		Where("id = ?", profileID).
		UpdateColumns(map[string]interface{}{
			"rating_sum":  gorm.Expr("rating_sum + ?", value),
			"num_ratings": gorm.Expr("num_ratings + ?", 1),
			"rating":      gorm.Expr("ROUND((rating_sum + ?)::numeric / (num_ratings + 1), 1)", value),
		}))
}

func (s *GormStore) CreateReport(ctx context.Context, report *models.Report) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(report).Error)
}

func reportTargetColumn(targetType models.ReportTargetType) string {
	if targetType == models.ReportTargetProduct {
		return "reported_product_id"
	}
	return "reported_profile_id"
}

func (s *GormStore) CountReports(ctx context.Context, targetType models.ReportTargetType, targetID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Report{}).
		Where("target_type = ?", targetType).
		Where(reportTargetColumn(targetType)+" = ?", targetID).
		Count(&count).Error
	return count, translate(err)
}

func (s *GormStore) ReportsAgainstProfile(ctx context.Context, profileID uuid.UUID) ([]models.Report, error) {
	var reports []models.Report
	err := s.db.WithContext(ctx).
		Where("target_type = ? AND reported_profile_id = ?", models.ReportTargetUser, profileID).
		Order("created_at").
		Find(&reports).Error
	return reports, translate(err)
}

func (s *GormStore) ListReports(ctx context.Context, targetType *models.ReportTargetType, offset, limit int) ([]models.Report, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Report{})
	if targetType != nil {
		query = query.Where("target_type = ?", *targetType)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var reports []models.Report
	err := query.Session(&gorm.Session{}).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reports).Error
	return reports, total, translate(err)
}

// Wishlists

func (s *GormStore) EnsureWishlist(ctx context.Context, profileID uuid.UUID) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	if err := s.db.WithContext(ctx).Where(models.Wishlist{ProfileID: profileID}).FirstOrCreate(&wishlist).Error; err != nil {
		return nil, translate(err)
	}
	return &wishlist, nil
}

func (s *GormStore) WishlistProducts(ctx context.Context, wishlistID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Joins("JOIN wishlist_products ON wishlist_products.product_id = products.id").
		Where("wishlist_products.wishlist_id = ?", wishlistID).
		Order("products.created_at DESC").
		Find(&products).Error
	return products, translate(err)
}

func (s *GormStore) WishlistContains(ctx context.Context, wishlistID, productID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Table("wishlist_products").
		Where("wishlist_id = ? AND product_id = ?", wishlistID, productID).
		Count(&count).Error
	return count > 0, translate(err)
}

func (s *GormStore) AddToWishlist(ctx context.Context, wishlistID, productID uuid.UUID) error {
	return translate(s.db.WithContext(ctx).Exec(
		"INSERT INTO wishlist_products (wishlist_id, product_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		wishlistID, productID,
	).Error)
}

func (s *GormStore) RemoveFromWishlist(ctx context.Context, wishlistID, productID uuid.UUID) error {
	return translate(s.db.WithContext(ctx).Exec(
		"DELETE FROM wishlist_products WHERE wishlist_id = ? AND product_id = ?",
		wishlistID, productID,
	).Error)
}

// Admin

func (s *GormStore) CreateNotification(ctx context.Context, notification *models.AdminNotification) error {
	return translate(s.db.WithContext(ctx).Create(notification).Error)
}

func (s *GormStore) ListNotifications(ctx context.Context, status *models.NotificationStatus, offset, limit int) ([]models.AdminNotification, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.AdminNotification{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var notifications []models.AdminNotification
	err := query.Session(&gorm.Session{}).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error
	return notifications, total, translate(err)
}

func (s *GormStore) MarkNotificationRead(ctx context.Context, id uuid.UUID, at time.Time) (*models.AdminNotification, error) {
	res := s.db.WithContext(ctx).Model(&models.AdminNotification{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"status":  models.NotificationStatusRead,
			"read_at": at,
		})
	if err := affected(res); err != nil {
		return nil, err
	}

	var notification models.AdminNotification
	if err := s.db.WithContext(ctx).First(&notification, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &notification, nil
}

func (s *GormStore) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	return translate(s.db.WithContext(ctx).Create(entry).Error)
}

var _ Store = (*GormStore)(nil)
