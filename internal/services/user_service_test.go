package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	iauth "github.com/smunity/smunity/internal/auth"
	"github.com/smunity/smunity/internal/database/testutil"
	"github.com/smunity/smunity/internal/models"
	"github.com/smunity/smunity/pkg/crypto"
	apperrors "github.com/smunity/smunity/pkg/errors"
)

func newUserService(t *testing.T, db *gorm.DB) *UserService {
	t.Helper()

	guard, err := iauth.NewGuard(db, iauth.GuardConfig{})
	require.NoError(t, err)

	service, err := NewUserService(db, guard, nil)
	require.NoError(t, err)
	return service
}

func TestSignUpInstitutionalEmailBecomesStudent(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	service := newUserService(t, db)

	user, err := service.SignUp(context.Background(), SignUpInput{
		Email:    "Jamie.Tan.2024@smu.edu.sg",
		Password: "correct-horse",
		Name:     "Jamie Tan",
	})
	require.NoError(t, err)
	require.Equal(t, models.AccountStudent, user.AccountType)
	require.Equal(t, "jamie.tan.2024@smu.edu.sg", user.Email)

	var count int64
	require.NoError(t, db.Model(&models.OrganisationProfile{}).Where("user_id = ?", user.ID).Count(&count).Error)
	require.Zero(t, count)
}

func TestSignUpWithoutInviteRejected(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	service := newUserService(t, db)

	_, err := service.SignUp(context.Background(), SignUpInput{
		Email:    "charity@helpinghands.org",
		Password: "correct-horse",
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, apperrors.ErrInviteRequired.Code, appErr.Code)
}

func TestSignUpWithInviteCreatesOrganisationWithProfile(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	service := newUserService(t, db)

	invite := models.OrganiserInvite{
		Email:     "charity@helpinghands.org",
		TokenHash: "hash",
		Approved:  true,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, db.Create(&invite).Error)

	user, err := service.SignUp(context.Background(), SignUpInput{
		Email:    "charity@helpinghands.org",
		Password: "correct-horse",
		Name:     "Helping Hands",
	})
	require.NoError(t, err)
	require.Equal(t, models.AccountOrganisation, user.AccountType)

	var profile models.OrganisationProfile
	require.NoError(t, db.Take(&profile, "user_id = ?", user.ID).Error)
	require.False(t, profile.Suspended)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	service := newUserService(t, db)

	input := SignUpInput{Email: "jamie@smu.edu.sg", Password: "correct-horse"}
	_, err := service.SignUp(context.Background(), input)
	require.NoError(t, err)

	_, err = service.SignUp(context.Background(), input)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticate(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	service := newUserService(t, db)

	hashed, err := crypto.HashPassword("correct-horse")
	require.NoError(t, err)

	user := &models.User{
		Email:        "jamie@smu.edu.sg",
		PasswordHash: hashed,
		AccountType:  models.AccountStudent,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)

	got, err := service.Authenticate(context.Background(), "Jamie@smu.edu.sg", "correct-horse", "10.0.0.1")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
	require.NotNil(t, got.LastLoginAt)

	_, err = service.Authenticate(context.Background(), "jamie@smu.edu.sg", "wrong", "")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = service.Authenticate(context.Background(), "nobody@smu.edu.sg", "correct-horse", "")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	require.NoError(t, service.SetActive(context.Background(), user.ID, false))
	_, err = service.Authenticate(context.Background(), "jamie@smu.edu.sg", "correct-horse", "")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestSetActiveUnknownUser(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	service := newUserService(t, db)

	err := service.SetActive(context.Background(), "00000000-0000-0000-0000-000000000000", false)
	require.ErrorIs(t, err, ErrUserNotFound)
}
