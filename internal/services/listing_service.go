// internal/services/listing_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/campus-marketplace/internal/models"
	"github.com/javajoker/campus-marketplace/internal/repository"
	"github.com/javajoker/campus-marketplace/internal/utils"
)

type ListingService struct {
	store   repository.Store
	storage ImageStorage
}

type CreateListingInput struct {
	Name          string     `json:"name" validate:"required,max=60"`
	ExpectedPrice int        `json:"expected_price" validate:"gte=0"`
	IsNegotiable  bool       `json:"is_negotiable"`
	Description   string     `json:"description" validate:"max=300"`
	CategoryID    *uuid.UUID `json:"category_id"`
}

// UpdateListingInput holds the mutable listing fields; nil means unchanged.
type UpdateListingInput struct {
	Name          *string    `json:"name" validate:"omitempty,max=60"`
	ExpectedPrice *int       `json:"expected_price" validate:"omitempty,gte=0"`
	Description   *string    `json:"description" validate:"omitempty,max=300"`
	CategoryID    *uuid.UUID `json:"category_id"`
}

type ProductPage struct {
	Window   utils.PageWindow
	Products []models.Product
}

func NewListingService(store repository.Store, storage ImageStorage) *ListingService {
	return &ListingService{
		store:   store,
		storage: storage,
	}
}

func productNotFound(id uuid.UUID) *Error {
	return newError(KindNotFound, "Product with primary key %s does not exist.", id)
}

func (s *ListingService) checkCategory(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := s.store.GetCategory(ctx, *id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(KindNotFound, "Category with primary key %s does not exist.", *id)
		}
		return fmt.Errorf("failed to load category: %w", err)
	}
	return nil
}

// CreateListing publishes a product for the calling seller.
func (s *ListingService) CreateListing(ctx context.Context, input CreateListingInput) (*models.Product, error) {
	seller, err := RequireLevel(ctx, models.PermissionSeller)
	if err != nil {
		return nil, err
	}

	if err := utils.ValidateStruct(&input); err != nil {
		return nil, validationError(err)
	}
	if err := s.checkCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		SellerID:      seller.ID,
		CategoryID:    input.CategoryID,
		Name:          input.Name,
		Description:   input.Description,
		ExpectedPrice: input.ExpectedPrice,
		IsNegotiable:  input.IsNegotiable,
		Visible:       true,
		Expired:       false,
		Sold:          false,
		NumOffers:     0,
	}

	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"product_id": product.ID,
		"seller_id":  seller.ID,
	}).Info("Product created")

	return product, nil
}

// UpdateListing applies the present fields of input to a product owned by
// the caller.
func (s *ListingService) UpdateListing(ctx context.Context, productID uuid.UUID, input UpdateListingInput) (*models.Product, error) {
	caller, err := Authenticated(ctx)
	if err != nil {
		return nil, err
	}

	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, productNotFound(productID)
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if err := RequireOwner(product, caller); err != nil {
		return nil, err
	}

	if err := utils.ValidateStruct(&input); err != nil {
		return nil, validationError(err)
	}
	if err := s.checkCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	patch := repository.ProductPatch{
		Name:          input.Name,
		ExpectedPrice: input.ExpectedPrice,
		Description:   input.Description,
		CategoryID:    input.CategoryID,
	}
	if patch.Empty() {
		return product, nil
	}

	updated, err := s.store.UpdateProduct(ctx, productID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, productNotFound(productID)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return updated, nil
}

// AttachImages stores each file and links it to the caller's product.
// Files stored before a failure stay attached.
func (s *ListingService) AttachImages(ctx context.Context, productID uuid.UUID, files []ImageUpload) (*models.Product, []models.Image, error) {
	caller, err := Authenticated(ctx)
	if err != nil {
		return nil, nil, err
	}

	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, productNotFound(productID)
		}
		return nil, nil, fmt.Errorf("failed to load product: %w", err)
	}
	if err := RequireOwner(product, caller); err != nil {
		return nil, nil, err
	}

	images := make([]models.Image, 0, len(files))
	for _, file := range files {
		result, err := s.storage.StoreImage(ctx, product.ID, file)
		if err != nil {
			return product, images, err
		}

		image := &models.Image{
			ProductID: product.ID,
			Key:       result.Key,
			URL:       result.URL,
			MimeType:  result.MimeType,
			Size:      result.Size,
		}
		if err := s.store.AddImage(ctx, image); err != nil {
			if delErr := s.storage.DeleteFile(ctx, result.Key); delErr != nil {
				logrus.WithError(delErr).WithField("key", result.Key).Warn("Failed to clean up orphaned upload")
			}
			return product, images, fmt.Errorf("failed to save image: %w", err)
		}
		images = append(images, *image)
	}

	if len(images) > 0 {
		logrus.WithFields(logrus.Fields{
			"product_id": product.ID,
			"count":      len(images),
		}).Info("Images attached")
	}

	return product, images, nil
}

func (s *ListingService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, productNotFound(id)
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return product, nil
}

// ListProducts pages through listed products, newest first. page nil means
// the first page; out of range pages resolve to the last one.
func (s *ListingService) ListProducts(ctx context.Context, page *int, pageSize int) (*ProductPage, error) {
	total, err := s.store.CountListedProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	window := utils.ResolvePage(total, page, pageSize)
	products, err := s.store.ListListedProducts(ctx, window.Offset(), window.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return &ProductPage{Window: window, Products: products}, nil
}

func (s *ListingService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.store.ListCategories(ctx)
}

// GetCategoryByName returns nil without error for unknown names.
func (s *ListingService) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	category, err := s.store.GetCategoryByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return category, err
}

func (s *ListingService) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.store.GetCategory(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return category, err
}

func (s *ListingService) ProductsInCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error) {
	return s.store.ProductsInCategory(ctx, categoryID)
}

func (s *ListingService) ProductsBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error) {
	return s.store.ProductsBySeller(ctx, sellerID)
}

func (s *ListingService) Images(ctx context.Context, productID uuid.UUID) ([]models.Image, error) {
	return s.store.ListImages(ctx, productID)
}

func (s *ListingService) Questions(ctx context.Context, productID uuid.UUID) ([]models.Question, error) {
	return s.store.QuestionsForProduct(ctx, productID)
}
