package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/smunity/smunity/internal/models"
)

// SavedProjectService manages a student's bookmarked projects.
type SavedProjectService struct {
	db *gorm.DB
}

// NewSavedProjectService constructs a SavedProjectService instance.
func NewSavedProjectService(db *gorm.DB) (*SavedProjectService, error) {
	if db == nil {
		return nil, errors.New("saved project service: db is required")
	}
	return &SavedProjectService{db: db}, nil
}

// Save bookmarks a project for the student. Saving an already saved project
// is a no-op, so repeated toggles leave exactly one row.
func (s *SavedProjectService) Save(ctx context.Context, userID, projectID string) error {
	ctx = ensureContext(ctx)

	var project models.Project
	err := s.db.WithContext(ctx).
		Joins("JOIN organisation_profiles ON organisation_profiles.id = projects.org_id").
		Where("projects.id = ? AND projects.status = ? AND organisation_profiles.suspended = ?",
			projectID, models.ProjectPublished, false).
		Take(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProjectNotFound
	}
	if err != nil {
		return fmt.Errorf("saved project service: load project: %w", err)
	}

	saved := models.SavedProject{UserID: userID, ProjectID: projectID}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&saved).Error; err != nil {
		return fmt.Errorf("saved project service: save: %w", err)
	}
	return nil
}

// Unsave removes the bookmark. A missing pair is not an error.
func (s *SavedProjectService) Unsave(ctx context.Context, userID, projectID string) error {
	ctx = ensureContext(ctx)

	err := s.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Delete(&models.SavedProject{}).Error
	if err != nil {
		return fmt.Errorf("saved project service: unsave: %w", err)
	}
	return nil
}

// List returns the student's bookmarks newest first, with the project loaded.
func (s *SavedProjectService) List(ctx context.Context, userID string) ([]models.SavedProject, error) {
	ctx = ensureContext(ctx)

	var saved []models.SavedProject
	if err := s.db.WithContext(ctx).
		Preload("Project").
		Where("user_id = ?", userID).
		Order("saved_at DESC").
		Find(&saved).Error; err != nil {
		return nil, fmt.Errorf("saved project service: list: %w", err)
	}
	return saved, nil
}
