// internal/models/moderation.go
package models

import (
	"github.com/google/uuid"
)

// Rating rows are append-only.
type Rating struct {
	BaseModel
	RaterID uuid.UUID `json:"rater_id" gorm:"type:uuid;not null;index"`
	RateeID uuid.UUID `json:"ratee_id" gorm:"type:uuid;not null;index"`
	Value   int       `json:"value" gorm:"not null"`

	// Relationships
	Rater *Profile `json:"rater,omitempty" gorm:"foreignKey:RaterID;constraint:OnDelete:CASCADE"`
	Ratee *Profile `json:"ratee,omitempty" gorm:"foreignKey:RateeID;constraint:OnDelete:CASCADE"`
}

// Report is either a user report or a product report, told apart by
// TargetType. Exactly one of ReportedProfileID and ReportedProductID is set.
type Report struct {
	BaseModel
	ReporterID        uuid.UUID        `json:"reporter_id" gorm:"type:uuid;not null;index"`
	TargetType        ReportTargetType `json:"target_type" gorm:"type:varchar(20);not null;index"`
	ReportedProfileID *uuid.UUID       `json:"reported_profile_id" gorm:"type:uuid;index"`
	ReportedProductID *uuid.UUID       `json:"reported_product_id" gorm:"type:uuid;index"`
	Category          int              `json:"category"`
	Message           string           `json:"message" gorm:"size:400"`

	// Relationships
	Reporter        *Profile `json:"reporter,omitempty" gorm:"foreignKey:ReporterID;constraint:OnDelete:CASCADE"`
	ReportedProfile *Profile `json:"reported_profile,omitempty" gorm:"foreignKey:ReportedProfileID;constraint:OnDelete:CASCADE"`
	ReportedProduct *Product `json:"reported_product,omitempty" gorm:"foreignKey:ReportedProductID;constraint:OnDelete:CASCADE"`
}

// TargetID returns the id of whichever side of the variant is populated.
func (r *Report) TargetID() uuid.UUID {
	switch r.TargetType {
	case ReportTargetUser:
		if r.ReportedProfileID != nil {
			return *r.ReportedProfileID
		}
	case ReportTargetProduct:
		if r.ReportedProductID != nil {
			return *r.ReportedProductID
		}
	}
	return uuid.Nil
}

func NewUserReport(reporterID, profileID uuid.UUID, category int, message string) *Report {
	return &Report{
		ReporterID:        reporterID,
		TargetType:        ReportTargetUser,
		ReportedProfileID: &profileID,
		Category:          category,
		Message:           message,
	}
}

func NewProductReport(reporterID, productID uuid.UUID, category int, message string) *Report {
	return &Report{
		ReporterID:        reporterID,
		TargetType:        ReportTargetProduct,
		ReportedProductID: &productID,
		Category:          category,
		Message:           message,
	}
}

type Wishlist struct {
	BaseModel
	ProfileID uuid.UUID `json:"profile_id" gorm:"type:uuid;not null;uniqueIndex"`

	// Relationships
	Products []Product `json:"products,omitempty" gorm:"many2many:wishlist_products;constraint:OnDelete:CASCADE"`
}
