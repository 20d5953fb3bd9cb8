package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smunity/smunity/internal/models"
	"github.com/smunity/smunity/pkg/crypto"
	"github.com/smunity/smunity/pkg/logger"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.OrganisationProfile{},
		&models.Project{},
		&models.Application{},
		&models.SavedProject{},
		&models.OrganiserInvite{},
		&models.AuditLog{},
	)
}

const bootstrapAdminEmail = "admin@smunity.local"

// SeedData provisions the bootstrap admin account when no admin exists yet.
// The generated password is logged once; operators are expected to rotate it.
func SeedData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).
		Where("account_type = ?", models.AccountAdmin).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password, err := crypto.GenerateToken(18)
	if err != nil {
		return err
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:         bootstrapAdminEmail,
		PasswordHash:  hash,
		Name:          "Administrator",
		AccountType:   models.AccountAdmin,
		EmailVerified: true,
		IsActive:      true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	logger.WithModule("database").Warn("bootstrap admin account created",
		zap.String("email", bootstrapAdminEmail),
		zap.String("password", password),
	)
	return nil
}
