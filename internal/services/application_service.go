package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/smunity/smunity/internal/models"
	apperrors "github.com/smunity/smunity/pkg/errors"
	"github.com/smunity/smunity/pkg/metrics"
)

var (
	// ErrApplicationNotFound indicates no application matches the identifier
	// and the actor's predicate.
	ErrApplicationNotFound = apperrors.New("APPLICATION_NOT_FOUND", "Application not found", http.StatusNotFound)
	// ErrApplicationExists indicates the student has already applied to the project.
	ErrApplicationExists = apperrors.New("APPLICATION_EXISTS", "You have already applied to this project", http.StatusBadRequest)
	// ErrApplicationTransition indicates the requested status move is not
	// legal from the application's current state.
	ErrApplicationTransition = apperrors.New("APPLICATION_INVALID_TRANSITION", "Illegal application status transition", http.StatusBadRequest)
)

// ApplicationService implements the application state machine. Every
// transition is written with a compound predicate carrying the actor check
// and the expected current status, so a concurrent or unauthorised request
// affects zero rows and fails explicitly instead of clobbering state.
type ApplicationService struct {
	db    *gorm.DB
	audit *AuditService
	now   func() time.Time
}

// NewApplicationService constructs an ApplicationService instance.
func NewApplicationService(db *gorm.DB, audit *AuditService) (*ApplicationService, error) {
	if db == nil {
		return nil, errors.New("application service: db is required")
	}
	return &ApplicationService{db: db, audit: audit, now: time.Now}, nil
}

// Apply submits a pending application for the student. Each student may hold
// at most one application per project; the unique index enforces this under
// concurrency.
func (s *ApplicationService) Apply(ctx context.Context, userID, projectID, motivation string) (*models.Application, error) {
	ctx = ensureContext(ctx)

	var project models.Project
	err := s.db.WithContext(ctx).
		Joins("JOIN organisation_profiles ON organisation_profiles.id = projects.org_id").
		Where("projects.id = ? AND projects.status = ? AND organisation_profiles.suspended = ?",
			projectID, models.ProjectPublished, false).
		Take(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("application service: load project: %w", err)
	}

	application := &models.Application{
		ProjectID:   projectID,
		UserID:      userID,
		Status:      models.ApplicationPending,
		Motivation:  strings.TrimSpace(motivation),
		SubmittedAt: s.now(),
	}

	if err := s.db.WithContext(ctx).Create(application).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrApplicationExists
		}
		return nil, fmt.Errorf("application service: create application: %w", err)
	}

	recordAudit(s.audit, ctx, AuditEntry{
		UserID:   &userID,
		Action:   "application.submit",
		Resource: application.ID,
		Result:   "success",
		Metadata: map[string]any{"project_id": projectID},
	})

	return application, nil
}

// Withdraw moves the student's own application to withdrawn. The update is
// keyed on both the application id and the acting user, so a student cannot
// withdraw somebody else's application.
func (s *ApplicationService) Withdraw(ctx context.Context, userID, applicationID string) (*models.Application, error) {
	ctx = ensureContext(ctx)

	var application models.Application
	err := s.db.WithContext(ctx).Take(&application, "id = ? AND user_id = ?", applicationID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.ApplicationTransitions.WithLabelValues(string(models.ApplicationWithdrawn), "denied").Inc()
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("application service: load application: %w", err)
	}

	return s.transition(ctx, &application, models.ApplicationWithdrawn, userID,
		s.db.WithContext(ctx).
			Model(&models.Application{}).
			Where("id = ? AND user_id = ? AND status = ?", applicationID, userID, application.Status))
}

// Decide lets the owning organisation accept or reject a pending application.
// Suspended organisations may not decide.
func (s *ApplicationService) Decide(ctx context.Context, orgUserID, applicationID string, next models.ApplicationStatus) (*models.Application, error) {
	ctx = ensureContext(ctx)

	if next != models.ApplicationAccepted && next != models.ApplicationRejected && next != models.ApplicationConfirmed {
		return nil, ErrApplicationTransition
	}

	var profile models.OrganisationProfile
	err := s.db.WithContext(ctx).Take(&profile, "user_id = ?", orgUserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrganisationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("application service: load profile: %w", err)
	}
	if profile.Suspended {
		metrics.ApplicationTransitions.WithLabelValues(string(next), "denied").Inc()
		return nil, ErrOrganisationSuspended
	}

	// Ownership travels through the project join: an application on another
	// organisation's project is simply not found.
	var application models.Application
	err = s.db.WithContext(ctx).
		Joins("JOIN projects ON projects.id = applications.project_id").
		Where("applications.id = ? AND projects.org_id = ?", applicationID, profile.ID).
		Take(&application).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.ApplicationTransitions.WithLabelValues(string(next), "denied").Inc()
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("application service: load application: %w", err)
	}

	return s.transition(ctx, &application, next, orgUserID,
		s.db.WithContext(ctx).
			Model(&models.Application{}).
			Where("id = ? AND status = ?", applicationID, application.Status))
}

// Cancel is the admin override: any non-terminal application can be moved to
// cancelled regardless of ownership.
func (s *ApplicationService) Cancel(ctx context.Context, adminID, applicationID string) (*models.Application, error) {
	ctx = ensureContext(ctx)

	var application models.Application
	err := s.db.WithContext(ctx).Take(&application, "id = ?", applicationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("application service: load application: %w", err)
	}

	return s.transition(ctx, &application, models.ApplicationCancelled, adminID,
		s.db.WithContext(ctx).
			Model(&models.Application{}).
			Where("id = ? AND status = ?", applicationID, application.Status))
}

// transition validates the move against the state machine and executes the
// caller-supplied conditional update. RowsAffected of zero means the row
// changed underneath us and the move is reported as not found.
func (s *ApplicationService) transition(ctx context.Context, application *models.Application, next models.ApplicationStatus, actorID string, query *gorm.DB) (*models.Application, error) {
	if !application.Status.CanTransitionTo(next) {
		metrics.ApplicationTransitions.WithLabelValues(string(next), "invalid").Inc()
		return nil, ErrApplicationTransition
	}

	updates := map[string]any{"status": next}
	if next != models.ApplicationWithdrawn {
		decided := s.now()
		updates["decided_at"] = decided
		application.DecidedAt = &decided
	}

	result := query.Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("application service: transition: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		metrics.ApplicationTransitions.WithLabelValues(string(next), "denied").Inc()
		return nil, ErrApplicationNotFound
	}

	from := application.Status
	application.Status = next
	metrics.ApplicationTransitions.WithLabelValues(string(next), "success").Inc()

	recordAudit(s.audit, ctx, AuditEntry{
		UserID:   &actorID,
		Action:   "application." + string(next),
		Resource: application.ID,
		Result:   "success",
		Metadata: map[string]any{"from": string(from)},
	})

	return application, nil
}

// ListByApplicant returns the student's applications newest first.
func (s *ApplicationService) ListByApplicant(ctx context.Context, userID string) ([]models.Application, error) {
	ctx = ensureContext(ctx)

	var applications []models.Application
	if err := s.db.WithContext(ctx).
		Preload("Project").
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Find(&applications).Error; err != nil {
		return nil, fmt.Errorf("application service: list by applicant: %w", err)
	}
	return applications, nil
}

// ListByProject returns applications for one of the organisation's projects.
func (s *ApplicationService) ListByProject(ctx context.Context, orgUserID, projectID string) ([]models.Application, error) {
	ctx = ensureContext(ctx)

	var profile models.OrganisationProfile
	err := s.db.WithContext(ctx).Take(&profile, "user_id = ?", orgUserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrganisationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("application service: load profile: %w", err)
	}

	var project models.Project
	err = s.db.WithContext(ctx).Take(&project, "id = ? AND org_id = ?", projectID, profile.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("application service: load project: %w", err)
	}

	var applications []models.Application
	if err := s.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ?", projectID).
		Order("submitted_at ASC").
		Find(&applications).Error; err != nil {
		return nil, fmt.Errorf("application service: list by project: %w", err)
	}
	return applications, nil
}
