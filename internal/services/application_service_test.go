package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/smunity/smunity/internal/database/testutil"
	"github.com/smunity/smunity/internal/models"
)

func newApplicationService(t *testing.T, db *gorm.DB) *ApplicationService {
	t.Helper()
	service, err := NewApplicationService(db, nil)
	require.NoError(t, err)
	return service
}

func TestApplyToPublishedProject(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	_, org := createTestOrg(t, db, "org@helpinghands.org")
	project := createTestProject(t, db, org.ID, models.ProjectPublished)
	student := createTestUser(t, db, "jamie@smu.edu.sg", models.AccountStudent)
	service := newApplicationService(t, db)

	application, err := service.Apply(context.Background(), student.ID, project.ID, "I care about this cause")
	require.NoError(t, err)
	require.Equal(t, models.ApplicationPending, application.Status)
	require.False(t, application.SubmittedAt.IsZero())
	require.Nil(t, application.DecidedAt)

	_, err = service.Apply(context.Background(), student.ID, project.ID, "again")
	require.ErrorIs(t, err, ErrApplicationExists)
}

func TestApplyToDraftOrSuspendedProject(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	_, org := createTestOrg(t, db, "org@helpinghands.org")
	draft := createTestProject(t, db, org.ID, models.ProjectDraft)
	student := createTestUser(t, db, "jamie@smu.edu.sg", models.AccountStudent)
	service := newApplicationService(t, db)

	_, err := service.Apply(context.Background(), student.ID, draft.ID, "")
	require.ErrorIs(t, err, ErrProjectNotFound)

	published := createTestProject(t, db, org.ID, models.ProjectPublished)
	suspendOrg(t, db, org.ID)
	_, err = service.Apply(context.Background(), student.ID, published.ID, "")
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestWithdrawOwnApplicationOnly(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	_, org := createTestOrg(t, db, "org@helpinghands.org")
	project := createTestProject(t, db, org.ID, models.ProjectPublished)
	applicant := createTestUser(t, db, "jamie@smu.edu.sg", models.AccountStudent)
	other := createTestUser(t, db, "alex@smu.edu.sg", models.AccountStudent)
	service := newApplicationService(t, db)

	application, err := service.Apply(context.Background(), applicant.ID, project.ID, "")
	require.NoError(t, err)

	_, err = service.Withdraw(context.Background(), other.ID, application.ID)
	require.ErrorIs(t, err, ErrApplicationNotFound)

	withdrawn, err := service.Withdraw(context.Background(), applicant.ID, application.ID)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationWithdrawn, withdrawn.Status)

	// Withdrawn is terminal.
	_, err = service.Withdraw(context.Background(), applicant.ID, application.ID)
	require.ErrorIs(t, err, ErrApplicationTransition)
}

func TestDecideLifecycle(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	orgUser, org := createTestOrg(t, db, "org@helpinghands.org")
	project := createTestProject(t, db, org.ID, models.ProjectPublished)
	student := createTestUser(t, db, "jamie@smu.edu.sg", models.AccountStudent)
	service := newApplicationService(t, db)

	application, err := service.Apply(context.Background(), student.ID, project.ID, "")
	require.NoError(t, err)

	accepted, err := service.Decide(context.Background(), orgUser.ID, application.ID, models.ApplicationAccepted)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationAccepted, accepted.Status)
	require.NotNil(t, accepted.DecidedAt)

	// Rejecting an already accepted application is illegal.
	_, err = service.Decide(context.Background(), orgUser.ID, application.ID, models.ApplicationRejected)
	require.ErrorIs(t, err, ErrApplicationTransition)

	confirmed, err := service.Decide(context.Background(), orgUser.ID, application.ID, models.ApplicationConfirmed)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationConfirmed, confirmed.Status)
}

func TestDecideForeignOrgNotFound(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	_, owner := createTestOrg(t, db, "owner@helpinghands.org")
	intruder, _ := createTestOrg(t, db, "other@foodbank.org")
	project := createTestProject(t, db, owner.ID, models.ProjectPublished)
	student := createTestUser(t, db, "jamie@smu.edu.sg", models.AccountStudent)
	service := newApplicationService(t, db)

	application, err := service.Apply(context.Background(), student.ID, project.ID, "")
	require.NoError(t, err)

	_, err = service.Decide(context.Background(), intruder.ID, application.ID, models.ApplicationAccepted)
	require.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestDecideSuspendedOrgBlocked(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	orgUser, org := createTestOrg(t, db, "org@helpinghands.org")
	project := createTestProject(t, db, org.ID, models.ProjectPublished)
	student := createTestUser(t, db, "jamie@smu.edu.sg", models.AccountStudent)
	service := newApplicationService(t, db)

	application, err := service.Apply(context.Background(), student.ID, project.ID, "")
	require.NoError(t, err)

	suspendOrg(t, db, org.ID)
	_, err = service.Decide(context.Background(), orgUser.ID, application.ID, models.ApplicationAccepted)
	require.ErrorIs(t, err, ErrOrganisationSuspended)
}

func TestAdminCancelOverride(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	orgUser, org := createTestOrg(t, db, "org@helpinghands.org")
	project := createTestProject(t, db, org.ID, models.ProjectPublished)
	student := createTestUser(t, db, "jamie@smu.edu.sg", models.AccountStudent)
	admin := createTestUser(t, db, "admin@smunity.local", models.AccountAdmin)
	service := newApplicationService(t, db)

	application, err := service.Apply(context.Background(), student.ID, project.ID, "")
	require.NoError(t, err)
	_, err = service.Decide(context.Background(), orgUser.ID, application.ID, models.ApplicationAccepted)
	require.NoError(t, err)

	cancelled, err := service.Cancel(context.Background(), admin.ID, application.ID)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationCancelled, cancelled.Status)

	// Terminal states cannot be cancelled again.
	_, err = service.Cancel(context.Background(), admin.ID, application.ID)
	require.ErrorIs(t, err, ErrApplicationTransition)
}

func TestListByApplicantAndProject(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	orgUser, org := createTestOrg(t, db, "org@helpinghands.org")
	project := createTestProject(t, db, org.ID, models.ProjectPublished)
	student := createTestUser(t, db, "jamie@smu.edu.sg", models.AccountStudent)
	service := newApplicationService(t, db)

	_, err := service.Apply(context.Background(), student.ID, project.ID, "")
	require.NoError(t, err)

	mine, err := service.ListByApplicant(context.Background(), student.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Project)

	incoming, err := service.ListByProject(context.Background(), orgUser.ID, project.ID)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	require.NotNil(t, incoming[0].User)

	intruder, _ := createTestOrg(t, db, "other@foodbank.org")
	_, err = service.ListByProject(context.Background(), intruder.ID, project.ID)
	require.ErrorIs(t, err, ErrProjectNotFound)
}
