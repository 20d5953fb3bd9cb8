package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/smunity/smunity/internal/database/testutil"
	"github.com/smunity/smunity/internal/models"
)

func newProjectService(t *testing.T, db *gorm.DB) *ProjectService {
	t.Helper()
	service, err := NewProjectService(db, nil)
	require.NoError(t, err)
	return service
}

func TestProjectCreateStartsDraft(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	user, profile := createTestOrg(t, db, "org@helpinghands.org")
	service := newProjectService(t, db)

	project, err := service.Create(context.Background(), user.ID, CreateProjectInput{
		Title:      "  Beach Cleanup ",
		Summary:    "Weekend coastal cleanup",
		SlotsTotal: 10,
		Tags:       []string{"environment", "outdoor"},
	})
	require.NoError(t, err)
	require.Equal(t, models.ProjectDraft, project.Status)
	require.Equal(t, "Beach Cleanup", project.Title)
	require.Equal(t, profile.ID, project.OrgID)
	require.JSONEq(t, `["environment","outdoor"]`, string(project.Tags))
}

func TestProjectCreateSuspendedBlocked(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	user, profile := createTestOrg(t, db, "org@helpinghands.org")
	suspendOrg(t, db, profile.ID)
	service := newProjectService(t, db)

	_, err := service.Create(context.Background(), user.ID, CreateProjectInput{Title: "Beach Cleanup"})
	require.ErrorIs(t, err, ErrOrganisationSuspended)
}

func TestProjectTransition(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	user, profile := createTestOrg(t, db, "org@helpinghands.org")
	project := createTestProject(t, db, profile.ID, models.ProjectDraft)
	service := newProjectService(t, db)

	updated, err := service.Transition(context.Background(), user.ID, project.ID, models.ProjectPublished)
	require.NoError(t, err)
	require.Equal(t, models.ProjectPublished, updated.Status)

	// Draft is not reachable again once published.
	_, err = service.Transition(context.Background(), user.ID, project.ID, models.ProjectDraft)
	require.ErrorIs(t, err, ErrProjectTransition)

	_, err = service.Transition(context.Background(), user.ID, project.ID, models.ProjectClosed)
	require.NoError(t, err)
	_, err = service.Transition(context.Background(), user.ID, project.ID, models.ProjectPublished)
	require.NoError(t, err)
	_, err = service.Transition(context.Background(), user.ID, project.ID, models.ProjectArchived)
	require.NoError(t, err)

	_, err = service.Transition(context.Background(), user.ID, project.ID, models.ProjectPublished)
	require.ErrorIs(t, err, ErrProjectTransition)
}

func TestProjectTransitionForeignOrg(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	_, owner := createTestOrg(t, db, "owner@helpinghands.org")
	intruder, _ := createTestOrg(t, db, "other@foodbank.org")
	project := createTestProject(t, db, owner.ID, models.ProjectDraft)
	service := newProjectService(t, db)

	_, err := service.Transition(context.Background(), intruder.ID, project.ID, models.ProjectPublished)
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestListPublishedHidesSuspendedAndDrafts(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	_, active := createTestOrg(t, db, "active@helpinghands.org")
	_, suspended := createTestOrg(t, db, "suspended@foodbank.org")
	suspendOrg(t, db, suspended.ID)

	visible := createTestProject(t, db, active.ID, models.ProjectPublished)
	createTestProject(t, db, active.ID, models.ProjectDraft)
	hidden := createTestProject(t, db, suspended.ID, models.ProjectPublished)

	service := newProjectService(t, db)

	projects, total, err := service.ListPublished(context.Background(), ListProjectsOptions{})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, projects, 1)
	require.Equal(t, visible.ID, projects[0].ID)

	_, err = service.GetPublished(context.Background(), hidden.ID)
	require.ErrorIs(t, err, ErrProjectNotFound)

	got, err := service.GetPublished(context.Background(), visible.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Org)
}

func TestProjectUpdateFields(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	user, profile := createTestOrg(t, db, "org@helpinghands.org")
	project := createTestProject(t, db, profile.ID, models.ProjectDraft)
	service := newProjectService(t, db)

	title := "River Cleanup"
	slots := 25
	updated, err := service.Update(context.Background(), user.ID, project.ID, UpdateProjectInput{
		Title:      &title,
		SlotsTotal: &slots,
	})
	require.NoError(t, err)
	require.Equal(t, project.ID, updated.ID)

	var reloaded models.Project
	require.NoError(t, db.Take(&reloaded, "id = ?", project.ID).Error)
	require.Equal(t, "River Cleanup", reloaded.Title)
	require.Equal(t, 25, reloaded.SlotsTotal)
}

func TestListByOwnerIncludesAllStatuses(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	user, profile := createTestOrg(t, db, "org@helpinghands.org")
	suspendOrg(t, db, profile.ID)
	createTestProject(t, db, profile.ID, models.ProjectDraft)
	createTestProject(t, db, profile.ID, models.ProjectArchived)
	service := newProjectService(t, db)

	projects, err := service.ListByOwner(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, projects, 2)
}
