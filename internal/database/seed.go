package database

import (
	"log"
	"os"

	"backend/internal/model"
	"backend/internal/workflow"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates a bootstrap admin account when the users table is
// empty, so a fresh deployment is reachable. Credentials come from
// ADMIN_USERNAME / ADMIN_PASSWORD with development defaults.
func SeedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.User{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     "System Administrator",
		Role:         workflow.RoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Seeded bootstrap admin user %q", username)
	return nil
}
