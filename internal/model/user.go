package model

import (
	"time"

	"backend/internal/workflow"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents the central user entity for logic and database structure
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username     string         `gorm:"type:varchar(120);uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"` // Omit hash from JSON requests/responses
	FullName     string         `gorm:"type:varchar(255);not null" json:"full_name"`
	Role         workflow.Role  `gorm:"type:varchar(50);not null;index" json:"role"` // admin, manager, finance, disbursement, procurement, requester
	Department   string         `gorm:"type:varchar(255)" json:"department"`
	Signature    string         `gorm:"type:text" json:"-"` // base64 signature image, served only via /my-signature
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"` // GORM soft delete
}
