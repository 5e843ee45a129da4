package model

import (
	"time"

	"backend/internal/workflow"

	"github.com/google/uuid"
)

// Notification action type constants
const (
	NotifyApprove     = "approve"
	NotifyReject      = "reject"
	NotifyModify      = "modify"
	NotifyInfo        = "info"
	NotifyProcurement = "procurement"
)

// Notification is created on workflow transitions for every watcher of a
// request, marked read individually or in bulk, never deleted.
type Notification struct {
	ID                uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestID         *uint         `gorm:"index" json:"request_id,omitempty"`
	RecipientUsername string        `gorm:"type:varchar(120);not null;index" json:"-"`
	Title             string        `gorm:"type:varchar(255);not null" json:"title"`
	Message           string        `gorm:"type:text;not null" json:"message"`
	ActionType        string        `gorm:"type:varchar(50)" json:"action_type"`
	ActorUsername     string        `gorm:"type:varchar(120)" json:"actor_username,omitempty"`
	ActorRole         workflow.Role `gorm:"type:varchar(50)" json:"actor_role,omitempty"`
	Note              string        `gorm:"type:text" json:"note,omitempty"`
	IsRead            bool          `gorm:"default:false;index" json:"is_read"`
	CreatedAt         time.Time     `gorm:"autoCreateTime;index" json:"created_at"`
}
