package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/smunity/smunity/internal/models"
	"github.com/smunity/smunity/pkg/crypto"
	apperrors "github.com/smunity/smunity/pkg/errors"
)

const (
	// defaultInviteExpiry bounds an organiser invite to seven days from issuance.
	defaultInviteExpiry     = 7 * 24 * time.Hour
	defaultInviteTokenBytes = 32
)

// ErrInviteNotFound indicates no invite matches the provided identifier.
var ErrInviteNotFound = apperrors.New("INVITE_NOT_FOUND", "Invite not found", http.StatusNotFound)

// InviteOption customises InviteService behaviour.
type InviteOption func(*InviteService)

// WithInviteExpiry overrides the invite lifetime.
func WithInviteExpiry(d time.Duration) InviteOption {
	return func(s *InviteService) {
		if d > 0 {
			s.expiry = d
		}
	}
}

// WithInviteClock injects a custom clock primarily for testing.
func WithInviteClock(clock func() time.Time) InviteOption {
	return func(s *InviteService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// InviteService manages organiser invites. Invites authorise sign-up through
// the access guard's predicate and stay redeemable until expiry or admin
// revocation; they are deliberately not single-use.
type InviteService struct {
	db          *gorm.DB
	audit       *AuditService
	expiry      time.Duration
	tokenLength int
	now         func() time.Time
}

// NewInviteService constructs an InviteService with the provided dependencies.
func NewInviteService(db *gorm.DB, audit *AuditService, opts ...InviteOption) (*InviteService, error) {
	if db == nil {
		return nil, errors.New("invite service: db is required")
	}

	service := &InviteService{
		db:          db,
		audit:       audit,
		expiry:      defaultInviteExpiry,
		tokenLength: defaultInviteTokenBytes,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// Issue creates an approved invite for the email, valid for seven days. The
// raw token is returned once for delivery to the invitee and only its hash is
// stored.
func (s *InviteService) Issue(ctx context.Context, email, invitedBy string) (*models.OrganiserInvite, string, error) {
	ctx = ensureContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, "", apperrors.NewBadRequest("email is required")
	}

	rawToken, err := crypto.GenerateToken(s.tokenLength)
	if err != nil {
		return nil, "", fmt.Errorf("invite service: generate token: %w", err)
	}

	now := s.now()
	invite := models.OrganiserInvite{
		Email:     email,
		TokenHash: tokenHash(rawToken),
		Approved:  true,
		InvitedBy: strings.TrimSpace(invitedBy),
		ExpiresAt: now.Add(s.expiry),
	}

	if err := s.db.WithContext(ctx).Create(&invite).Error; err != nil {
		return nil, "", fmt.Errorf("invite service: create invite: %w", err)
	}

	recordAudit(s.audit, ctx, AuditEntry{
		Action:   "invite.issue",
		Resource: invite.ID,
		Result:   "success",
		Metadata: map[string]any{"email": email},
	})

	return &invite, rawToken, nil
}

// List returns invites ordered by creation time, newest first. Expired
// entries are included so admins can see history.
func (s *InviteService) List(ctx context.Context) ([]models.OrganiserInvite, error) {
	ctx = ensureContext(ctx)

	var invites []models.OrganiserInvite
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&invites).Error; err != nil {
		return nil, fmt.Errorf("invite service: list invites: %w", err)
	}
	return invites, nil
}

// Revoke deletes an invite, ending its redeemability immediately.
func (s *InviteService) Revoke(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Delete(&models.OrganiserInvite{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("invite service: revoke invite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInviteNotFound
	}

	recordAudit(s.audit, ctx, AuditEntry{
		Action:   "invite.revoke",
		Resource: id,
		Result:   "success",
	})

	return nil
}

// CleanupExpired removes invites past their expiry.
func (s *InviteService) CleanupExpired(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Where("expires_at < ?", s.now()).
		Delete(&models.OrganiserInvite{})
	if result.Error != nil {
		return 0, fmt.Errorf("invite service: cleanup invites: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func tokenHash(token string) string {
	checksum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(checksum[:])
}
