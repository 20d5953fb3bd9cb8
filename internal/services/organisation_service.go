package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/smunity/smunity/internal/models"
	apperrors "github.com/smunity/smunity/pkg/errors"
)

var (
	// ErrOrganisationNotFound indicates the requested organisation profile does not exist.
	ErrOrganisationNotFound = apperrors.New("ORGANISATION_NOT_FOUND", "Organisation not found", http.StatusNotFound)
	// ErrOrganisationSuspended blocks mutating operations by suspended organisations.
	ErrOrganisationSuspended = apperrors.New("ORGANISATION_SUSPENDED", "Organisation is suspended", http.StatusForbidden)
)

// UpdateProfileInput represents mutable organisation profile fields.
type UpdateProfileInput struct {
	Phone       *string
	Website     *string
	Description *string
}

// OrganisationSummary is the admin listing row, reporting the suspension
// state as a status label.
type OrganisationSummary struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

// OrganisationService manages organisation profiles and the suspension toggle.
type OrganisationService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewOrganisationService constructs an OrganisationService instance.
func NewOrganisationService(db *gorm.DB, audit *AuditService) (*OrganisationService, error) {
	if db == nil {
		return nil, errors.New("organisation service: db is required")
	}
	return &OrganisationService{db: db, audit: audit}, nil
}

// GetByUserID loads the profile owned by the given account.
func (s *OrganisationService) GetByUserID(ctx context.Context, userID string) (*models.OrganisationProfile, error) {
	ctx = ensureContext(ctx)

	var profile models.OrganisationProfile
	err := s.db.WithContext(ctx).Preload("User").Take(&profile, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrganisationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("organisation service: get profile: %w", err)
	}
	return &profile, nil
}

// GetByID loads a profile by its identifier.
func (s *OrganisationService) GetByID(ctx context.Context, id string) (*models.OrganisationProfile, error) {
	ctx = ensureContext(ctx)

	var profile models.OrganisationProfile
	err := s.db.WithContext(ctx).Preload("User").Take(&profile, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrganisationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("organisation service: get profile: %w", err)
	}
	return &profile, nil
}

// UpdateProfile persists the organisation's own profile edits. Suspended
// organisations may not edit their profile.
func (s *OrganisationService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*models.OrganisationProfile, error) {
	ctx = ensureContext(ctx)

	profile, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.Suspended {
		return nil, ErrOrganisationSuspended
	}

	updates := map[string]any{}
	if input.Phone != nil {
		updates["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.Website != nil {
		updates["website"] = strings.TrimSpace(*input.Website)
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}

	if len(updates) == 0 {
		return profile, nil
	}

	if err := s.db.WithContext(ctx).Model(profile).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("organisation service: update profile: %w", err)
	}

	return profile, nil
}

// List returns admin listing rows for every organisation profile.
func (s *OrganisationService) List(ctx context.Context) ([]OrganisationSummary, error) {
	ctx = ensureContext(ctx)

	var profiles []models.OrganisationProfile
	if err := s.db.WithContext(ctx).Preload("User").Order("created_at ASC").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("organisation service: list profiles: %w", err)
	}

	summaries := make([]OrganisationSummary, 0, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		summary := OrganisationSummary{
			ID:     p.ID,
			UserID: p.UserID,
			Status: p.StatusLabel(),
		}
		if p.User != nil {
			summary.Name = p.User.Name
			summary.Email = p.User.Email
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// SetSuspended toggles the suspension flag. The transition is a conditional
// update: asking for the state the profile is already in affects zero rows
// and surfaces as NotFound rather than silently succeeding.
func (s *OrganisationService) SetSuspended(ctx context.Context, id string, suspended bool, actorID string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Model(&models.OrganisationProfile{}).
		Where("id = ? AND suspended = ?", id, !suspended).
		Update("suspended", suspended)
	if result.Error != nil {
		return fmt.Errorf("organisation service: set suspended: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrOrganisationNotFound
	}

	action := "org.suspend"
	if !suspended {
		action = "org.reactivate"
	}
	recordAudit(s.audit, ctx, AuditEntry{
		UserID:   &actorID,
		Action:   action,
		Resource: id,
		Result:   "success",
	})

	return nil
}
