package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	iauth "github.com/smunity/smunity/internal/auth"
	"github.com/smunity/smunity/internal/models"
	"github.com/smunity/smunity/pkg/crypto"
	apperrors "github.com/smunity/smunity/pkg/errors"
)

var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = apperrors.New("USER_NOT_FOUND", "User not found", http.StatusNotFound)
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = apperrors.New("EMAIL_TAKEN", "An account with this email already exists", http.StatusBadRequest)
)

// SignUpInput describes the fields accepted when registering an account.
type SignUpInput struct {
	Email    string
	Password string
	Name     string
}

// UserService manages account registration and credential checks. The
// assigned role is decided by the access guard's sign-up gating policy, not
// by the caller.
type UserService struct {
	db    *gorm.DB
	guard *iauth.Guard
	audit *AuditService
}

// NewUserService constructs a UserService instance.
func NewUserService(db *gorm.DB, guard *iauth.Guard, audit *AuditService) (*UserService, error) {
	if db == nil {
		return nil, errors.New("user service: db is required")
	}
	if guard == nil {
		return nil, errors.New("user service: guard is required")
	}
	return &UserService{db: db, guard: guard, audit: audit}, nil
}

// SignUp registers a new account. Institutional emails become students;
// invited emails become organisation accounts with an empty profile row.
// Account and profile creation share one transaction so a failure cannot
// leave a half-provisioned organisation.
func (s *UserService) SignUp(ctx context.Context, input SignUpInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, apperrors.NewBadRequest("email is required")
	}
	if strings.TrimSpace(input.Password) == "" {
		return nil, apperrors.NewBadRequest("password is required")
	}

	accountType, err := s.guard.AuthorizeSignUp(ctx, email)
	if err != nil {
		return nil, err
	}

	hashed, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("user service: hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hashed,
		Name:         strings.TrimSpace(input.Name),
		AccountType:  accountType,
		IsActive:     true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		if accountType == models.AccountOrganisation {
			profile := models.OrganisationProfile{UserID: user.ID}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("user service: create user: %w", err)
	}

	recordAudit(s.audit, ctx, AuditEntry{
		UserID:   &user.ID,
		Action:   "user.signup",
		Resource: user.ID,
		Result:   "success",
		Metadata: map[string]any{
			"email":        user.Email,
			"account_type": string(user.AccountType),
		},
	})

	return user, nil
}

// Authenticate verifies an email/password pair and records the login.
// Failures are indistinguishable to the caller: wrong email, wrong password,
// and deactivated accounts all return ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password, ip string) (*models.User, error) {
	ctx = ensureContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.db.WithContext(ctx).Take(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("user service: load user: %w", err)
	}

	if !user.IsActive || !crypto.VerifyPassword(user.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	now := time.Now()
	updates := map[string]any{
		"last_login_at": now,
		"last_login_ip": strings.TrimSpace(ip),
	}
	if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("user service: record login: %w", err)
	}

	user.LastLoginAt = &now
	return &user, nil
}

// GetByID loads a user by identifier.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx = ensureContext(ctx)

	var user models.User
	err := s.db.WithContext(ctx).Preload("Profile").First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user service: get user: %w", err)
	}
	return &user, nil
}

// SetActive toggles an account's active flag (admin moderation).
func (s *UserService) SetActive(ctx context.Context, id string, active bool) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("is_active", active)
	if result.Error != nil {
		return fmt.Errorf("user service: set active: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	recordAudit(s.audit, ctx, AuditEntry{
		Action:   "user.set_active",
		Resource: id,
		Result:   "success",
		Metadata: map[string]any{"active": active},
	})

	return nil
}
