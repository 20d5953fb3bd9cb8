package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/smunity/smunity/internal/database/testutil"
	"github.com/smunity/smunity/internal/models"
)

func newSessionTestStack(t *testing.T, clock func() time.Time) (*gorm.DB, *SessionService, *models.User) {
	t.Helper()

	db := testutil.MustOpenTestDB(t)

	jwtSvc, err := NewJWTService(JWTConfig{Secret: "test-secret", Clock: clock})
	require.NoError(t, err)

	svc, err := NewSessionService(db, jwtSvc, SessionConfig{Clock: clock})
	require.NoError(t, err)

	user := &models.User{
		Email:        "jane@smu.edu.sg",
		PasswordHash: "x",
		AccountType:  models.AccountStudent,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)

	return db, svc, user
}

func TestSessionLifecycle(t *testing.T) {
	_, svc, user := newSessionTestStack(t, nil)

	pair, session, err := svc.CreateSession(user, SessionMetadata{IPAddress: "127.0.0.1"})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, user.ID, session.UserID)

	rotated, _, err := svc.RefreshSession(pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The old refresh token is no longer valid after rotation.
	_, _, err = svc.RefreshSession(pair.RefreshToken)
	require.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, svc.RevokeSession(session.ID))
	_, _, err = svc.RefreshSession(rotated.RefreshToken)
	require.ErrorIs(t, err, ErrSessionRevoked)

	// Revoking twice reports not found: zero rows matched the predicate.
	require.ErrorIs(t, svc.RevokeSession(session.ID), ErrSessionNotFound)
}

func TestSessionRefreshLosesRaceToConcurrentRotation(t *testing.T) {
	// The injected clock runs between the session lookup and the conditional
	// update, which is exactly the window a competing refresh can win.
	var interleave func()
	clock := func() time.Time {
		if interleave != nil {
			step := interleave
			interleave = nil
			step()
		}
		return time.Now()
	}

	db, svc, user := newSessionTestStack(t, clock)

	pair, session, err := svc.CreateSession(user, SessionMetadata{})
	require.NoError(t, err)

	interleave = func() {
		require.NoError(t, db.Model(&models.Session{}).
			Where("id = ?", session.ID).
			Update("refresh_token", "rotated-by-peer").Error)
	}

	_, _, err = svc.RefreshSession(pair.RefreshToken)
	require.ErrorIs(t, err, ErrSessionNotFound)

	// The winning refresh token is untouched and still rotates normally.
	rotated, _, err := svc.RefreshSession("rotated-by-peer")
	require.NoError(t, err)
	require.NotEqual(t, "rotated-by-peer", rotated.RefreshToken)
}

func TestSessionRefreshExpired(t *testing.T) {
	current := time.Now()
	clock := func() time.Time { return current }

	_, svc, user := newSessionTestStack(t, clock)

	pair, _, err := svc.CreateSession(user, SessionMetadata{})
	require.NoError(t, err)

	current = current.Add(DefaultRefreshTokenTTL + time.Hour)
	_, _, err = svc.RefreshSession(pair.RefreshToken)
	require.ErrorIs(t, err, ErrSessionExpired)
}

func TestSessionCleanupExpired(t *testing.T) {
	current := time.Now()
	clock := func() time.Time { return current }

	db, svc, user := newSessionTestStack(t, clock)

	_, _, err := svc.CreateSession(user, SessionMetadata{})
	require.NoError(t, err)

	current = current.Add(DefaultRefreshTokenTTL + time.Hour)
	removed, err := svc.CleanupExpired(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	var count int64
	require.NoError(t, db.Model(&models.Session{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestLocalResolver(t *testing.T) {
	db, svc, user := newSessionTestStack(t, nil)

	pair, _, err := svc.CreateSession(user, SessionMetadata{})
	require.NoError(t, err)

	resolver := NewLocalResolver(db, svc.jwt)

	identity, ok := resolver.Resolve(context.Background(), Credential{BearerToken: pair.AccessToken})
	require.True(t, ok)
	require.Equal(t, user.ID, identity.UserID)
	require.Equal(t, models.AccountStudent, identity.AccountType)

	_, ok = resolver.Resolve(context.Background(), Credential{BearerToken: "garbage"})
	require.False(t, ok)

	// Deactivated accounts resolve to no identity.
	require.NoError(t, db.Model(user).Update("is_active", false).Error)
	_, ok = resolver.Resolve(context.Background(), Credential{BearerToken: pair.AccessToken})
	require.False(t, ok)
}
