package models

// OrganisationProfile holds the public details of an organisation account.
// Suspension is a reversible admin toggle; the profile and its projects
// survive suspension, but mutating operations are blocked while suspended.
type OrganisationProfile struct {
	BaseModel

	UserID      string `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User        *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	Description string `gorm:"type:text" json:"description"`
	Suspended   bool   `gorm:"default:false;index" json:"suspended"`

	Projects []Project `gorm:"foreignKey:OrgID" json:"projects,omitempty"`
}

// StatusLabel reports "active" or "suspended" for admin listings.
func (p *OrganisationProfile) StatusLabel() string {
	if p.Suspended {
		return "suspended"
	}
	return "active"
}
