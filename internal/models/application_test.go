package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestApplicationStatusTransitions(t *testing.T) {
	cases := []struct {
		from    ApplicationStatus
		to      ApplicationStatus
		allowed bool
	}{
		{ApplicationPending, ApplicationAccepted, true},
		{ApplicationPending, ApplicationRejected, true},
		{ApplicationPending, ApplicationWithdrawn, true},
		{ApplicationPending, ApplicationConfirmed, false},
		{ApplicationAccepted, ApplicationConfirmed, true},
		{ApplicationAccepted, ApplicationWithdrawn, true},
		{ApplicationAccepted, ApplicationRejected, false},
		{ApplicationRejected, ApplicationAccepted, false},
		{ApplicationConfirmed, ApplicationWithdrawn, false},
		{ApplicationWithdrawn, ApplicationAccepted, false},
		{ApplicationPending, ApplicationCancelled, true},
		{ApplicationAccepted, ApplicationCancelled, true},
		{ApplicationRejected, ApplicationCancelled, false},
		{ApplicationCancelled, ApplicationCancelled, false},
	}

	for _, tc := range cases {
		require.Equalf(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestApplicationStatusTerminal(t *testing.T) {
	require.False(t, ApplicationPending.Terminal())
	require.False(t, ApplicationAccepted.Terminal())
	require.True(t, ApplicationRejected.Terminal())
	require.True(t, ApplicationConfirmed.Terminal())
	require.True(t, ApplicationWithdrawn.Terminal())
	require.True(t, ApplicationCancelled.Terminal())
}

func TestProjectStatusTransitions(t *testing.T) {
	require.True(t, ProjectDraft.CanTransitionTo(ProjectPublished))
	require.True(t, ProjectPublished.CanTransitionTo(ProjectClosed))
	require.True(t, ProjectClosed.CanTransitionTo(ProjectPublished))
	require.True(t, ProjectPublished.CanTransitionTo(ProjectArchived))
	require.False(t, ProjectArchived.CanTransitionTo(ProjectPublished))
	require.False(t, ProjectDraft.CanTransitionTo(ProjectClosed))
}

func TestOrganiserInviteUsableAt(t *testing.T) {
	now := time.Now()
	invite := OrganiserInvite{Approved: true, ExpiresAt: now.Add(time.Second)}

	require.True(t, invite.UsableAt(now))
	require.False(t, invite.UsableAt(now.Add(2*time.Second)))

	invite.Approved = false
	require.False(t, invite.UsableAt(now))
}

func TestAccountTypeHomePath(t *testing.T) {
	require.Equal(t, "/dashboard", AccountStudent.HomePath())
	require.Equal(t, "/organisations/dashboard", AccountOrganisation.HomePath())
	require.Equal(t, "/admin/dashboard", AccountAdmin.HomePath())
	require.Equal(t, "/", AccountType("banana").HomePath())
}
