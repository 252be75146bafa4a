// internal/models/product.go
package models

import (
	"github.com/google/uuid"
)

type Category struct {
	BaseModel
	Name string `json:"name" gorm:"size:20;uniqueIndex;not null"`

	// Relationships
	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
}

type Product struct {
	BaseModel
	SellerID      uuid.UUID  `json:"seller_id" gorm:"type:uuid;not null;index"`
	CategoryID    *uuid.UUID `json:"category_id" gorm:"type:uuid;index"`
	Name          string     `json:"name" gorm:"size:60;not null"`
	Description   string     `json:"description" gorm:"size:300"`
	ExpectedPrice int        `json:"expected_price" gorm:"not null;check:expected_price >= 0"`
	IsNegotiable  bool       `json:"is_negotiable" gorm:"default:false"`
	Visible       bool       `json:"visible" gorm:"default:true;index"`
	Expired       bool       `json:"expired" gorm:"default:false;index"`
	Sold          bool       `json:"sold" gorm:"default:false"`
	NumOffers     int        `json:"num_offers" gorm:"default:0"`

	// Relationships
	Seller    *Profile   `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Category  *Category  `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Images    []Image    `json:"images,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Offers    []Offer    `json:"offers,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// Listed reports whether the product belongs to the default listing scope.
func (p *Product) Listed() bool {
	return p.Visible && !p.Expired
}

func (p *Product) OwnedBy(profileID uuid.UUID) bool {
	return p.SellerID == profileID
}

type Image struct {
	BaseModel
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Key       string    `json:"key" gorm:"size:255;not null"`
	URL       string    `json:"url" gorm:"size:512;not null"`
	MimeType  string    `json:"mime_type" gorm:"size:100"`
	Size      int64     `json:"size"`
}

// MaxQuestionLength bounds both sides of a Question.
const MaxQuestionLength = 600

// Question is a prospective buyer's question about a product together with
// the seller's answer. Staff record them; the API only reads them.
type Question struct {
	BaseModel
	ProductID  uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	AskedByID  uuid.UUID `json:"asked_by_id" gorm:"type:uuid;not null;index"`
	Question   string    `json:"question" gorm:"size:600;not null"`
	Answer     string    `json:"answer" gorm:"size:600"`
	IsAnswered bool      `json:"is_answered" gorm:"default:false"`

	// Relationships
	AskedBy *Profile `json:"asked_by,omitempty" gorm:"foreignKey:AskedByID;constraint:OnDelete:CASCADE"`
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
