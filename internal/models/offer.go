// internal/models/offer.go
package models

import (
	"github.com/google/uuid"
)

// MaxOfferMessageLength bounds Offer.Message.
const MaxOfferMessageLength = 400

// Offer is a buyer's proposed price for a product. There is at most one
// offer per (offerer, product) pair.
type Offer struct {
	BaseModel
	OffererID uuid.UUID `json:"offerer_id" gorm:"type:uuid;not null;uniqueIndex:idx_offers_offerer_product"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_offers_offerer_product;index"`
	Amount    int       `json:"amount" gorm:"not null"`
	Message   string    `json:"message" gorm:"size:400"`

	// Relationships
	Offerer *Profile `json:"offerer,omitempty" gorm:"foreignKey:OffererID;constraint:OnDelete:CASCADE"`
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
