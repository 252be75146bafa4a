// internal/services/wishlist_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/javajoker/campus-marketplace/internal/models"
	"github.com/javajoker/campus-marketplace/internal/repository"
)

const (
	MsgWishlistProductNotFound = "Product requested to add, not found"
	MsgWishlistOwnProduct      = "User can't add their product to wishlist."
)

type WishlistService struct {
	store repository.Store
}

// WishlistView is a wishlist together with its current products.
type WishlistView struct {
	Wishlist *models.Wishlist
	Profile  *models.Profile
	Products []models.Product
}

func NewWishlistService(store repository.Store) *WishlistService {
	return &WishlistService{store: store}
}

// ToggleWishlist removes the product from the caller's wishlist when it is
// present and adds it otherwise. Calling it twice restores the original
// state.
func (s *WishlistService) ToggleWishlist(ctx context.Context, productID uuid.UUID) (*WishlistView, error) {
	caller, err := Authenticated(ctx)
	if err != nil {
		return nil, err
	}

	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindNotFound, MsgWishlistProductNotFound)
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product.OwnedBy(caller.ID) {
		return nil, newError(KindForbidden, MsgWishlistOwnProduct)
	}

	wishlist, err := s.store.EnsureWishlist(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wishlist: %w", err)
	}

	present, err := s.store.WishlistContains(ctx, wishlist.ID, product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read wishlist: %w", err)
	}

	if present {
		err = s.store.RemoveFromWishlist(ctx, wishlist.ID, product.ID)
	} else {
		err = s.store.AddToWishlist(ctx, wishlist.ID, product.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update wishlist: %w", err)
	}

	return s.view(ctx, caller, wishlist)
}

// Wishlist returns the caller's wishlist.
func (s *WishlistService) Wishlist(ctx context.Context) (*WishlistView, error) {
	caller, err := Authenticated(ctx)
	if err != nil {
		return nil, err
	}

	wishlist, err := s.store.EnsureWishlist(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wishlist: %w", err)
	}

	return s.view(ctx, caller, wishlist)
}

func (s *WishlistService) view(ctx context.Context, owner *models.Profile, wishlist *models.Wishlist) (*WishlistView, error) {
	products, err := s.store.WishlistProducts(ctx, wishlist.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist products: %w", err)
	}
	return &WishlistView{Wishlist: wishlist, Profile: owner, Products: products}, nil
}
