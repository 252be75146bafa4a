// internal/services/offer_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/campus-marketplace/internal/metrics"
	"github.com/javajoker/campus-marketplace/internal/models"
	"github.com/javajoker/campus-marketplace/internal/repository"
	"github.com/javajoker/campus-marketplace/internal/utils"
)

const (
	MsgOfferProductNotFound = "Product to offer on, not found"
	MsgOfferOwnProduct      = "User cannot offer on their own product"
	MsgOfferDuplicate       = "You cannot create multiple offers"
	MsgOfferAmountRequired  = "Amount is required for negotiable products"
	MsgOfferAmountPositive  = "Amount must be a positive integer"
)

type OfferService struct {
	store repository.Store
}

// CreateOfferInput is ignored in part for fixed price products: their
// offers always carry the asking price.
type CreateOfferInput struct {
	Amount  *int   `json:"amount"`
	Message string `json:"message" validate:"max=400"`
}

func NewOfferService(store repository.Store) *OfferService {
	return &OfferService{store: store}
}

// CreateOffer records the caller's single offer on a product. Offers cannot
// be edited afterwards.
func (s *OfferService) CreateOffer(ctx context.Context, productID uuid.UUID, input CreateOfferInput) (*models.Offer, error) {
	offerer, err := RequireLevel(ctx, models.PermissionBuyer)
	if err != nil {
		return nil, err
	}

	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.RecordOfferRejected("not_found")
			return nil, newError(KindNotFound, MsgOfferProductNotFound)
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	if product.OwnedBy(offerer.ID) {
		metrics.RecordOfferRejected("own_product")
		return nil, newError(KindForbidden, MsgOfferOwnProduct)
	}

	exists, err := s.store.OfferExists(ctx, offerer.ID, product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check previous offers: %w", err)
	}
	if exists {
		metrics.RecordOfferRejected("duplicate")
		return nil, newError(KindConflict, MsgOfferDuplicate)
	}

	amount, err := offerAmount(product, input.Amount)
	if err != nil {
		metrics.RecordOfferRejected("invalid_amount")
		return nil, err
	}

	if err := utils.ValidateStruct(&input); err != nil {
		return nil, validationError(err)
	}

	offer := &models.Offer{
		OffererID: offerer.ID,
		ProductID: product.ID,
		Amount:    amount,
		Message:   input.Message,
	}

	if err := s.store.CreateOffer(ctx, offer); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			metrics.RecordOfferRejected("duplicate")
			return nil, newError(KindConflict, MsgOfferDuplicate)
		case errors.Is(err, repository.ErrNotFound):
			metrics.RecordOfferRejected("not_found")
			return nil, newError(KindNotFound, MsgOfferProductNotFound)
		}
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}

	metrics.RecordOfferCreated()
	logrus.WithFields(logrus.Fields{
		"offer_id":   offer.ID,
		"product_id": product.ID,
		"offerer_id": offerer.ID,
		"amount":     amount,
	}).Info("Offer created")

	if refreshed, err := s.store.GetProduct(ctx, product.ID); err == nil {
		product = refreshed
	}
	offer.Product = product
	offer.Offerer = offerer

	return offer, nil
}

// offerAmount forces the asking price on fixed price products and requires
// a positive amount otherwise. No bound against the asking price applies.
func offerAmount(product *models.Product, requested *int) (int, error) {
	if !product.IsNegotiable {
		return product.ExpectedPrice, nil
	}
	if requested == nil {
		return 0, newError(KindInvalidArgument, MsgOfferAmountRequired)
	}
	if *requested <= 0 {
		return 0, newError(KindInvalidArgument, MsgOfferAmountPositive)
	}
	return *requested, nil
}

func (s *OfferService) OffersForProduct(ctx context.Context, productID uuid.UUID) ([]models.Offer, error) {
	return s.store.OffersForProduct(ctx, productID)
}

func (s *OfferService) OffersByProfile(ctx context.Context, profileID uuid.UUID) ([]models.Offer, error) {
	return s.store.OffersByProfile(ctx, profileID)
}
