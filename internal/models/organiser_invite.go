package models

import "time"

// OrganiserInvite authorises a non-institutional email to sign up as an
// organisation account. It is evaluated per sign-up attempt and is not
// consumed on use; expiry and admin revocation bound its lifetime.
type OrganiserInvite struct {
	BaseModel

	Email     string    `gorm:"not null;index" json:"email"`
	TokenHash string    `gorm:"not null" json:"-"`
	Approved  bool      `gorm:"default:true" json:"approved"`
	InvitedBy string    `gorm:"type:uuid" json:"invited_by"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
}

// UsableAt reports whether the invite authorises a sign-up at the given
// instant: it must be approved and not yet expired.
func (i *OrganiserInvite) UsableAt(now time.Time) bool {
	return i.Approved && now.Before(i.ExpiresAt)
}
