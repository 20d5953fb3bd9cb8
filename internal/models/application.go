package models

import (
	"time"
)

// ApplicationStatus enumerates the application workflow states.
type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationAccepted  ApplicationStatus = "accepted"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationConfirmed ApplicationStatus = "confirmed"
	ApplicationWithdrawn ApplicationStatus = "withdrawn"
	ApplicationCancelled ApplicationStatus = "cancelled"
)

// applicationTransitions maps each state to the statuses reachable from it.
// Cancellation is an admin override available from any non-terminal state and
// is handled separately in CanTransitionTo.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationPending:  {ApplicationAccepted, ApplicationRejected, ApplicationWithdrawn},
	ApplicationAccepted: {ApplicationConfirmed, ApplicationWithdrawn},
}

// Terminal reports whether no further transitions are allowed from s.
func (s ApplicationStatus) Terminal() bool {
	switch s {
	case ApplicationRejected, ApplicationConfirmed, ApplicationWithdrawn, ApplicationCancelled:
		return true
	}
	return false
}

// Valid reports whether s names a known workflow state.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationAccepted, ApplicationRejected,
		ApplicationConfirmed, ApplicationWithdrawn, ApplicationCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is a legal workflow
// step. Who may perform the step is enforced by the application service.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	if next == ApplicationCancelled {
		return !s.Terminal()
	}
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Application records one student applying to one project. A student may hold
// at most one application per project, enforced by the composite unique index.
type Application struct {
	BaseModel

	ProjectID string   `gorm:"type:uuid;not null;index;uniqueIndex:idx_applications_project_user" json:"project_id"`
	Project   *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	UserID    string   `gorm:"type:uuid;not null;index;uniqueIndex:idx_applications_project_user" json:"user_id"`
	User      *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Status     ApplicationStatus `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`
	Motivation string            `gorm:"type:text" json:"motivation"`

	SubmittedAt time.Time  `gorm:"not null" json:"submitted_at"`
	DecidedAt   *time.Time `json:"decided_at"`
}
