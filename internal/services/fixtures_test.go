package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/smunity/smunity/internal/models"
)

func createTestUser(t *testing.T, db *gorm.DB, email string, accountType models.AccountType) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		PasswordHash: "$2a$10$fixturefixturefixturefixturefixturefixturefixturefixt",
		Name:         "Test " + string(accountType),
		AccountType:  accountType,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestOrg(t *testing.T, db *gorm.DB, email string) (*models.User, *models.OrganisationProfile) {
	t.Helper()

	user := createTestUser(t, db, email, models.AccountOrganisation)
	profile := &models.OrganisationProfile{UserID: user.ID}
	require.NoError(t, db.Create(profile).Error)
	return user, profile
}

func createTestProject(t *testing.T, db *gorm.DB, orgID string, status models.ProjectStatus) *models.Project {
	t.Helper()

	project := &models.Project{
		OrgID:      orgID,
		Title:      "Beach Cleanup",
		Summary:    "Weekend coastal cleanup",
		Status:     status,
		SlotsTotal: 10,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

func suspendOrg(t *testing.T, db *gorm.DB, profileID string) {
	t.Helper()
	require.NoError(t, db.Model(&models.OrganisationProfile{}).
		Where("id = ?", profileID).
		Update("suspended", true).Error)
}
