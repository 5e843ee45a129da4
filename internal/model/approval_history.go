package model

import (
	"time"

	"backend/internal/workflow"
)

// ApprovalHistory action constants
const (
	HistoryActionCreate            = "create"
	HistoryActionApprove           = "approve"
	HistoryActionAutoApprove       = "auto-approve"
	HistoryActionReject            = "reject"
	HistoryActionProcurementUpdate = "procurement-update"
)

// ApprovalHistory tracks who acted on a request, in which role, and when.
// One row per workflow event, including auto-approved skips.
type ApprovalHistory struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	RequestID uint          `gorm:"not null;index" json:"request_id"`
	ActorRole workflow.Role `gorm:"type:varchar(50);not null" json:"actor_role"`
	ActorUser string        `gorm:"type:varchar(120)" json:"actor_user"`
	Action    string        `gorm:"type:varchar(30);not null" json:"action"`
	Note      string        `gorm:"type:text" json:"note,omitempty"`
	Signature string        `gorm:"type:text" json:"-"` // base64 image captured with the decision
	CreatedAt time.Time     `gorm:"autoCreateTime;index" json:"created_at"`
}
