package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/smunity/smunity/internal/models"
	"github.com/smunity/smunity/pkg/crypto"
	"github.com/smunity/smunity/pkg/metrics"
)

// DefaultRefreshTokenTTL is the fallback refresh token lifetime.
const DefaultRefreshTokenTTL = 30 * 24 * time.Hour

// SessionConfig describes tunable behaviour for the SessionService.
type SessionConfig struct {
	RefreshTokenTTL time.Duration
	RefreshLength   int
	Clock           func() time.Time
}

// SessionMetadata captures contextual information about the client.
type SessionMetadata struct {
	IPAddress string
	UserAgent string
}

// TokenPair represents an access token and refresh token pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

var (
	// ErrSessionNotFound indicates that no session matches the provided token or identifier.
	ErrSessionNotFound = errors.New("session: not found")
	// ErrSessionRevoked marks a session that has been revoked by the user or administrators.
	ErrSessionRevoked = errors.New("session: revoked")
	// ErrSessionExpired signals that a refresh token has reached its expiry.
	ErrSessionExpired = errors.New("session: expired")
	// ErrSessionInvalidToken is returned when the supplied refresh token is malformed.
	ErrSessionInvalidToken = errors.New("session: invalid token")
)

// SessionService manages creation, rotation, and revocation of user sessions.
type SessionService struct {
	db         *gorm.DB
	jwt        *JWTService
	refreshTTL time.Duration
	tokenLen   int
	now        func() time.Time
}

// NewSessionService constructs a session manager backed by the provided database and JWT service.
func NewSessionService(db *gorm.DB, jwtService *JWTService, cfg SessionConfig) (*SessionService, error) {
	if db == nil {
		return nil, errors.New("session service: db is required")
	}
	if jwtService == nil {
		return nil, errors.New("session service: jwt service is required")
	}

	ttl := cfg.RefreshTokenTTL
	if ttl <= 0 {
		ttl = DefaultRefreshTokenTTL
	}

	length := cfg.RefreshLength
	if length <= 0 {
		length = 48
	}

	clock := time.Now
	if cfg.Clock != nil {
		clock = cfg.Clock
	}

	return &SessionService{
		db:         db,
		jwt:        jwtService,
		refreshTTL: ttl,
		tokenLen:   length,
		now:        clock,
	}, nil
}

// CreateSession generates a new session for the user and issues a fresh token pair.
func (s *SessionService) CreateSession(user *models.User, meta SessionMetadata) (TokenPair, *models.Session, error) {
	if user == nil || strings.TrimSpace(user.ID) == "" {
		return TokenPair{}, nil, errors.New("session service: user is required")
	}

	refreshToken, err := crypto.GenerateToken(s.tokenLen)
	if err != nil {
		return TokenPair{}, nil, fmt.Errorf("session service: generate refresh token: %w", err)
	}

	now := s.now()

	session := &models.Session{
		UserID:       user.ID,
		RefreshToken: refreshToken,
		IPAddress:    strings.TrimSpace(meta.IPAddress),
		UserAgent:    strings.TrimSpace(meta.UserAgent),
		ExpiresAt:    now.Add(s.refreshTTL),
		LastUsedAt:   now,
	}

	if err := s.db.Create(session).Error; err != nil {
		return TokenPair{}, nil, fmt.Errorf("session service: create session: %w", err)
	}

	metrics.ActiveSessions.Inc()

	accessToken, err := s.jwt.GenerateAccessToken(AccessTokenInput{
		UserID:      user.ID,
		SessionID:   session.ID,
		AccountType: user.AccountType,
	})
	if err != nil {
		return TokenPair{}, nil, fmt.Errorf("session service: generate access token: %w", err)
	}

	return TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, session, nil
}

// RefreshSession rotates the refresh token and issues a new access token.
func (s *SessionService) RefreshSession(refreshToken string) (TokenPair, *models.Session, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return TokenPair{}, nil, ErrSessionInvalidToken
	}

	var session models.Session
	err := s.db.Preload("User").Where("refresh_token = ?", refreshToken).Take(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return TokenPair{}, nil, ErrSessionNotFound
	}
	if err != nil {
		return TokenPair{}, nil, fmt.Errorf("session service: find session: %w", err)
	}

	now := s.now()

	if session.RevokedAt != nil {
		return TokenPair{}, nil, ErrSessionRevoked
	}

	if session.ExpiresAt.Before(now) {
		return TokenPair{}, nil, ErrSessionExpired
	}

	newRefresh, err := crypto.GenerateToken(s.tokenLen)
	if err != nil {
		return TokenPair{}, nil, fmt.Errorf("session service: generate refresh token: %w", err)
	}

	expiresAt := now.Add(s.refreshTTL)

	// Keyed on the presented token as well as the id, so a token that a
	// concurrent refresh already rotated matches zero rows instead of
	// silently orphaning the winner's replacement.
	result := s.db.Model(&models.Session{}).
		Where("id = ? AND refresh_token = ?", session.ID, refreshToken).
		Updates(map[string]any{
			"refresh_token": newRefresh,
			"expires_at":    expiresAt,
			"last_used_at":  now,
		})
	if result.Error != nil {
		return TokenPair{}, nil, fmt.Errorf("session service: update session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return TokenPair{}, nil, ErrSessionNotFound
	}

	session.RefreshToken = newRefresh
	session.ExpiresAt = expiresAt
	session.LastUsedAt = now

	input := AccessTokenInput{
		UserID:    session.UserID,
		SessionID: session.ID,
	}
	if session.User != nil {
		input.AccountType = session.User.AccountType
	}

	accessToken, err := s.jwt.GenerateAccessToken(input)
	if err != nil {
		return TokenPair{}, nil, fmt.Errorf("session service: generate access token: %w", err)
	}

	return TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
	}, &session, nil
}

// RevokeSession marks a session as revoked, preventing further refresh operations.
func (s *SessionService) RevokeSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrSessionInvalidToken
	}

	now := s.now()

	result := s.db.Model(&models.Session{}).
		Where("id = ? AND revoked_at IS NULL", sessionID).
		Updates(map[string]any{
			"revoked_at": now,
		})

	if result.Error != nil {
		return fmt.Errorf("session service: revoke session: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}

	metrics.ActiveSessions.Sub(float64(result.RowsAffected))

	return nil
}

// RevokeByRefreshToken revokes the session holding the supplied refresh
// token. Used by logout, where the client knows its token but not the
// session identifier.
func (s *SessionService) RevokeByRefreshToken(refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return ErrSessionInvalidToken
	}

	result := s.db.Model(&models.Session{}).
		Where("refresh_token = ? AND revoked_at IS NULL", refreshToken).
		Update("revoked_at", s.now())
	if result.Error != nil {
		return fmt.Errorf("session service: revoke by token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}

	metrics.ActiveSessions.Sub(float64(result.RowsAffected))

	return nil
}

// RevokeUserSessions revokes every active session belonging to a user.
func (s *SessionService) RevokeUserSessions(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrSessionInvalidToken
	}

	now := s.now()

	result := s.db.Model(&models.Session{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", now)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		metrics.ActiveSessions.Sub(float64(result.RowsAffected))
	}

	return nil
}

// CleanupExpired removes expired and revoked sessions.
func (s *SessionService) CleanupExpired(ctx context.Context) (int64, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	now := s.now()

	var activeExpired int64
	if err := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("expires_at < ? AND revoked_at IS NULL", now).
		Count(&activeExpired).Error; err != nil {
		return 0, fmt.Errorf("session service: count expired sessions: %w", err)
	}

	result := s.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Or("revoked_at IS NOT NULL").
		Delete(&models.Session{})
	if result.Error != nil {
		return 0, fmt.Errorf("session service: cleanup expired sessions: %w", result.Error)
	}

	if activeExpired > 0 {
		metrics.ActiveSessions.Sub(float64(activeExpired))
	}

	return result.RowsAffected, nil
}

// ListUserSessions returns sessions for a user ordered by recency.
func (s *SessionService) ListUserSessions(ctx context.Context, userID string) ([]models.Session, error) {
	var sessions []models.Session
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_used_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("session service: list sessions: %w", err)
	}
	return sessions, nil
}
