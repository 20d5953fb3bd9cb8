package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smunity/smunity/internal/database/testutil"
)

func TestUpdateProfile(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	user, _ := createTestOrg(t, db, "org@helpinghands.org")

	service, err := NewOrganisationService(db, nil)
	require.NoError(t, err)

	phone := "+65 6828 0100"
	website := "https://helpinghands.org"
	profile, err := service.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		Phone:   &phone,
		Website: &website,
	})
	require.NoError(t, err)

	reloaded, err := service.GetByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, profile.ID, reloaded.ID)
	require.Equal(t, phone, reloaded.Phone)
	require.Equal(t, website, reloaded.Website)
}

func TestUpdateProfileSuspendedBlocked(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	user, profile := createTestOrg(t, db, "org@helpinghands.org")
	suspendOrg(t, db, profile.ID)

	service, err := NewOrganisationService(db, nil)
	require.NoError(t, err)

	phone := "+65 6828 0100"
	_, err = service.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{Phone: &phone})
	require.ErrorIs(t, err, ErrOrganisationSuspended)
}

func TestSuspendReactivateCycle(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	_, profile := createTestOrg(t, db, "org@helpinghands.org")

	service, err := NewOrganisationService(db, nil)
	require.NoError(t, err)

	require.NoError(t, service.SetSuspended(context.Background(), profile.ID, true, "admin-1"))

	summaries, err := service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, "suspended", summaries[0].Status)
	require.Equal(t, "org@helpinghands.org", summaries[0].Email)

	// Suspending an already suspended profile matches zero rows.
	require.ErrorIs(t,
		service.SetSuspended(context.Background(), profile.ID, true, "admin-1"),
		ErrOrganisationNotFound)

	require.NoError(t, service.SetSuspended(context.Background(), profile.ID, false, "admin-1"))

	summaries, err = service.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, "active", summaries[0].Status)
}
