// internal/models/user.go
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is the bare authentication account. Everything domain facing hangs
// off its Profile.
type User struct {
	BaseModel
	Username     string     `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	LastLoginAt  *time.Time `json:"last_login_at"`

	// Relationships
	Profile *Profile `json:"profile,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

type Profile struct {
	BaseModel
	UserID          uuid.UUID       `json:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	Name            string          `json:"name" gorm:"size:100"`
	Hostel          Hostel          `json:"hostel" gorm:"type:varchar(2)"`
	ContactNo       *string         `json:"contact_no" gorm:"size:20;uniqueIndex"`
	Email           string          `json:"email" gorm:"size:255;index"`
	Rating          float64         `json:"rating" gorm:"type:numeric;default:0"`
	RatingSum       int64           `json:"-" gorm:"default:0"`
	NumRatings      int             `json:"num_ratings" gorm:"default:0"`
	PermissionLevel PermissionLevel `json:"permission_level" gorm:"type:smallint;default:1;index"`
	IsComplete      bool            `json:"is_complete" gorm:"default:false"`

	// Relationships
	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Products []Product `json:"products,omitempty" gorm:"foreignKey:SellerID;constraint:OnDelete:CASCADE"`
	Wishlist *Wishlist `json:"wishlist,omitempty" gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
}

// BeforeSave keeps IsComplete in step with the completion fields.
func (p *Profile) BeforeSave(tx *gorm.DB) error {
	p.RefreshCompleteness()
	return nil
}

func (p *Profile) RefreshCompleteness() {
	p.IsComplete = p.Name != "" && p.Hostel != "" && p.ContactNo != nil && *p.ContactNo != ""
}

// AssignEmail stores the email and derives the permission tier from its
// domain. The tier is only derived for a profile that has not been persisted
// yet; after that it moves solely through moderation.
func (p *Profile) AssignEmail(email, trustedDomain string) {
	p.Email = email
	if p.ID != uuid.Nil {
		return
	}
	p.PermissionLevel = PermissionForEmail(email, trustedDomain)
}

func (p *Profile) IsBanned() bool {
	return p.PermissionLevel == PermissionBanned
}

// PermissionForEmail returns Seller for addresses on the trusted campus
// domain and Buyer for everything else.
func PermissionForEmail(email, trustedDomain string) PermissionLevel {
	if trustedDomain != "" && strings.EqualFold(EmailDomain(email), trustedDomain) {
		return PermissionSeller
	}
	return PermissionBuyer
}

func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	return email[at+1:]
}

func EmailLocalPart(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at]
}
