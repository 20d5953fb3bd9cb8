package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccountType partitions users into the three platform roles.
type AccountType string

const (
	AccountStudent      AccountType = "student"
	AccountOrganisation AccountType = "organisation"
	AccountAdmin        AccountType = "admin"
)

// Valid reports whether the account type is one of the known roles.
func (t AccountType) Valid() bool {
	switch t {
	case AccountStudent, AccountOrganisation, AccountAdmin:
		return true
	}
	return false
}

// HomePath returns the landing page for the role, used as the advisory
// redirect target on role-mismatch denials.
func (t AccountType) HomePath() string {
	switch t {
	case AccountStudent:
		return "/dashboard"
	case AccountOrganisation:
		return "/organisations/dashboard"
	case AccountAdmin:
		return "/admin/dashboard"
	}
	return "/"
}

// User describes a platform account. Students apply to projects; organisation
// accounts own an OrganisationProfile and its project listings.
type User struct {
	ID           string      `gorm:"primaryKey;type:uuid" json:"id"`
	Email        string      `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string      `gorm:"not null" json:"-"`
	Name         string      `json:"name"`
	AccountType  AccountType `gorm:"type:varchar(20);not null;index" json:"account_type"`

	EmailVerified bool `gorm:"default:false" json:"email_verified"`
	IsActive      bool `gorm:"default:true" json:"is_active"`

	Profile      *OrganisationProfile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	Applications []Application        `gorm:"foreignKey:UserID" json:"-"`
	Sessions     []Session            `gorm:"foreignKey:UserID" json:"-"`

	LastLoginAt *time.Time `json:"last_login_at"`
	LastLoginIP string     `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate ensures a UUID is present before persisting.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
