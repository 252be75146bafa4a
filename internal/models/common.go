// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate assigns the primary key client side so callers can link rows
// created in the same request without a round trip.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	b.EnsureID()
	return nil
}

func (b *BaseModel) EnsureID() {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// PermissionLevel is ordered: Banned < Buyer < Seller < Admin.
type PermissionLevel int16

const (
	PermissionBanned PermissionLevel = 0
	PermissionBuyer  PermissionLevel = 1
	PermissionSeller PermissionLevel = 2
	PermissionAdmin  PermissionLevel = 3
)

func (l PermissionLevel) AtLeast(min PermissionLevel) bool {
	return l >= min
}

func (l PermissionLevel) String() string {
	switch l {
	case PermissionBanned:
		return "banned"
	case PermissionBuyer:
		return "buyer"
	case PermissionSeller:
		return "seller"
	case PermissionAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

type Hostel string

const (
	HostelSR Hostel = "SR"
	HostelRP Hostel = "RP"
	HostelGN Hostel = "GN"
	HostelKR Hostel = "KR"
	HostelMR Hostel = "MR"
)

var hostelNames = map[Hostel]string{
	HostelSR: "SR Bhavan",
	HostelRP: "Rana Pratap Bhavan",
	HostelGN: "Gandhi Bhavan",
	HostelKR: "Krishna Bhavan",
	HostelMR: "Meera Bhavan",
}

// DisplayName returns the full hostel name, or "" for unknown codes.
func (h Hostel) DisplayName() string {
	return hostelNames[h]
}

func (h Hostel) Valid() bool {
	_, ok := hostelNames[h]
	return ok
}

type ReportTargetType string

const (
	ReportTargetUser    ReportTargetType = "user"
	ReportTargetProduct ReportTargetType = "product"
)

type NotificationStatus string

const (
	NotificationStatusUnread NotificationStatus = "unread"
	NotificationStatusRead   NotificationStatus = "read"
)

// DefaultCategories is the seed set created at initialization.
var DefaultCategories = []string{
	"Stationary",
	"Movie Ticket",
	"Grub Ticket",
	"Electronics",
	"Clothing",
	"Other Utility",
}
