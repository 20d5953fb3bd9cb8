package models

import (
	"time"

	"gorm.io/datatypes"
)

// ProjectStatus tracks the listing lifecycle of a community service project.
type ProjectStatus string

const (
	ProjectDraft     ProjectStatus = "draft"
	ProjectPublished ProjectStatus = "published"
	ProjectClosed    ProjectStatus = "closed"
	ProjectArchived  ProjectStatus = "archived"
)

// projectTransitions enumerates the legal lifecycle moves, all initiated by
// the owning organisation.
var projectTransitions = map[ProjectStatus][]ProjectStatus{
	ProjectDraft:     {ProjectPublished, ProjectArchived},
	ProjectPublished: {ProjectClosed, ProjectArchived},
	ProjectClosed:    {ProjectPublished, ProjectArchived},
}

// CanTransitionTo reports whether the lifecycle move is legal.
func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	for _, allowed := range projectTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Project is a community service listing owned by one organisation profile.
type Project struct {
	BaseModel

	OrgID       string               `gorm:"type:uuid;not null;index" json:"org_id"`
	Org         *OrganisationProfile `gorm:"foreignKey:OrgID" json:"org,omitempty"`
	Title       string               `gorm:"not null;index" json:"title"`
	Summary     string               `json:"summary"`
	Description string               `gorm:"type:text" json:"description"`
	Status      ProjectStatus        `gorm:"type:varchar(20);not null;default:draft;index" json:"status"`
	SlotsTotal  int                  `gorm:"default:0" json:"slots_total"`
	Location    string               `json:"location"`
	Tags        datatypes.JSON       `json:"tags,omitempty"`
	StartDate   *time.Time           `json:"start_date"`
	EndDate     *time.Time           `json:"end_date"`

	Applications []Application `gorm:"foreignKey:ProjectID" json:"applications,omitempty"`
}

// SavedProject records a student bookmarking a project. The composite
// primary key keeps at most one row per (user, project) pair.
type SavedProject struct {
	UserID    string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	ProjectID string    `gorm:"type:uuid;primaryKey" json:"project_id"`
	Project   *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	SavedAt   time.Time `gorm:"autoCreateTime" json:"saved_at"`
}
