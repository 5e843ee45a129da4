package model

import "time"

// AccountType is one row of the chart-of-accounts hierarchy, imported in
// bulk from an uploaded Excel sheet. IDs come from the sheet, not a
// sequence.
type AccountType struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:varchar(255);not null" json:"name"`
	NameEN      string       `gorm:"type:varchar(255);not null" json:"name_en"`
	Description string       `gorm:"type:varchar(500)" json:"description,omitempty"`
	ParentID    *uint        `gorm:"index" json:"parent_id,omitempty"`
	Parent      *AccountType `gorm:"foreignKey:ParentID" json:"-"`
	IsActive    bool         `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"created_at"`
}
