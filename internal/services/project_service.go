package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/smunity/smunity/internal/models"
	apperrors "github.com/smunity/smunity/pkg/errors"
)

var (
	// ErrProjectNotFound indicates the requested project does not exist or is
	// excluded by the caller's predicate (ownership, visibility).
	ErrProjectNotFound = apperrors.New("PROJECT_NOT_FOUND", "Project not found", http.StatusNotFound)
	// ErrProjectTransition indicates an illegal lifecycle move.
	ErrProjectTransition = apperrors.New("PROJECT_INVALID_TRANSITION", "Illegal project status transition", http.StatusBadRequest)
)

// CreateProjectInput captures the attributes for a new listing.
type CreateProjectInput struct {
	Title       string
	Summary     string
	Description string
	SlotsTotal  int
	Location    string
	Tags        []string
	StartDate   *time.Time
	EndDate     *time.Time
}

// UpdateProjectInput enumerates mutable listing attributes.
type UpdateProjectInput struct {
	Title       *string
	Summary     *string
	Description *string
	SlotsTotal  *int
	Location    *string
	Tags        []string
}

// ListProjectsOptions controls pagination and filtering of the public browse.
type ListProjectsOptions struct {
	Page     int
	PageSize int
	Query    string
}

// ProjectService manages listing CRUD and the draft/published/closed/archived
// lifecycle. All mutations require the acting organisation to own the project
// and to not be suspended.
type ProjectService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewProjectService constructs a ProjectService instance.
func NewProjectService(db *gorm.DB, audit *AuditService) (*ProjectService, error) {
	if db == nil {
		return nil, errors.New("project service: db is required")
	}
	return &ProjectService{db: db, audit: audit}, nil
}

// activeProfile loads the acting organisation's profile and rejects
// suspended organisations up front.
func (s *ProjectService) activeProfile(ctx context.Context, userID string) (*models.OrganisationProfile, error) {
	var profile models.OrganisationProfile
	err := s.db.WithContext(ctx).Take(&profile, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrganisationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("project service: load profile: %w", err)
	}
	if profile.Suspended {
		return nil, ErrOrganisationSuspended
	}
	return &profile, nil
}

// Create registers a new draft listing for the acting organisation.
func (s *ProjectService) Create(ctx context.Context, userID string, input CreateProjectInput) (*models.Project, error) {
	ctx = ensureContext(ctx)

	profile, err := s.activeProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewBadRequest("title is required")
	}

	project := &models.Project{
		OrgID:       profile.ID,
		Title:       title,
		Summary:     strings.TrimSpace(input.Summary),
		Description: strings.TrimSpace(input.Description),
		Status:      models.ProjectDraft,
		SlotsTotal:  input.SlotsTotal,
		Location:    strings.TrimSpace(input.Location),
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}

	if len(input.Tags) > 0 {
		encoded, err := json.Marshal(input.Tags)
		if err != nil {
			return nil, fmt.Errorf("project service: marshal tags: %w", err)
		}
		project.Tags = datatypes.JSON(encoded)
	}

	if err := s.db.WithContext(ctx).Create(project).Error; err != nil {
		return nil, fmt.Errorf("project service: create project: %w", err)
	}

	return project, nil
}

// Update persists mutable attributes for a listing owned by the acting
// organisation.
func (s *ProjectService) Update(ctx context.Context, userID, projectID string, input UpdateProjectInput) (*models.Project, error) {
	ctx = ensureContext(ctx)

	profile, err := s.activeProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	var project models.Project
	err = s.db.WithContext(ctx).Take(&project, "id = ? AND org_id = ?", projectID, profile.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("project service: load project: %w", err)
	}

	updates := map[string]any{}
	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		if trimmed == "" {
			return nil, apperrors.NewBadRequest("title must not be empty")
		}
		updates["title"] = trimmed
	}
	if input.Summary != nil {
		updates["summary"] = strings.TrimSpace(*input.Summary)
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.SlotsTotal != nil {
		updates["slots_total"] = *input.SlotsTotal
	}
	if input.Location != nil {
		updates["location"] = strings.TrimSpace(*input.Location)
	}
	if input.Tags != nil {
		encoded, err := json.Marshal(input.Tags)
		if err != nil {
			return nil, fmt.Errorf("project service: marshal tags: %w", err)
		}
		updates["tags"] = datatypes.JSON(encoded)
	}

	if len(updates) == 0 {
		return &project, nil
	}

	if err := s.db.WithContext(ctx).Model(&project).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("project service: update project: %w", err)
	}

	return &project, nil
}

// Transition moves a listing through its lifecycle. The write carries the
// full compound predicate (id, owner, current status) so a stale or foreign
// request affects zero rows and is rejected explicitly.
func (s *ProjectService) Transition(ctx context.Context, userID, projectID string, next models.ProjectStatus) (*models.Project, error) {
	ctx = ensureContext(ctx)

	profile, err := s.activeProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	var project models.Project
	err = s.db.WithContext(ctx).Take(&project, "id = ? AND org_id = ?", projectID, profile.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("project service: load project: %w", err)
	}

	if !project.Status.CanTransitionTo(next) {
		return nil, ErrProjectTransition
	}

	result := s.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ? AND org_id = ? AND status = ?", projectID, profile.ID, project.Status).
		Update("status", next)
	if result.Error != nil {
		return nil, fmt.Errorf("project service: transition project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrProjectNotFound
	}

	project.Status = next
	return &project, nil
}

// ListPublished returns the public browse page: published projects whose
// organisation is not suspended.
func (s *ProjectService) ListPublished(ctx context.Context, opts ListProjectsOptions) ([]models.Project, int64, error) {
	ctx = ensureContext(ctx)

	page := opts.Page
	if page <= 0 {
		page = 1
	}
	perPage := opts.PageSize
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}

	query := s.db.WithContext(ctx).
		Model(&models.Project{}).
		Joins("JOIN organisation_profiles ON organisation_profiles.id = projects.org_id").
		Where("projects.status = ?", models.ProjectPublished).
		Where("organisation_profiles.suspended = ?", false)

	if q := strings.TrimSpace(opts.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(projects.title) LIKE ? OR LOWER(projects.summary) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("project service: count projects: %w", err)
	}

	var projects []models.Project
	if err := query.
		Order("projects.created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&projects).Error; err != nil {
		return nil, 0, fmt.Errorf("project service: list projects: %w", err)
	}

	return projects, total, nil
}

// GetPublished loads one project for public viewing, applying the same
// visibility rules as the browse listing.
func (s *ProjectService) GetPublished(ctx context.Context, id string) (*models.Project, error) {
	ctx = ensureContext(ctx)

	var project models.Project
	err := s.db.WithContext(ctx).
		Joins("JOIN organisation_profiles ON organisation_profiles.id = projects.org_id").
		Where("projects.id = ? AND projects.status = ? AND organisation_profiles.suspended = ?",
			id, models.ProjectPublished, false).
		Preload("Org").
		Take(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("project service: get project: %w", err)
	}
	return &project, nil
}

// ListByOwner returns every listing of the acting organisation, regardless of
// status or suspension.
func (s *ProjectService) ListByOwner(ctx context.Context, userID string) ([]models.Project, error) {
	ctx = ensureContext(ctx)

	var profile models.OrganisationProfile
	err := s.db.WithContext(ctx).Take(&profile, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrganisationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("project service: load profile: %w", err)
	}

	var projects []models.Project
	if err := s.db.WithContext(ctx).
		Where("org_id = ?", profile.ID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("project service: list owned projects: %w", err)
	}
	return projects, nil
}
