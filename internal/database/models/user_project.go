package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserProject is the membership that makes a Project visible to a User.
// A soft-deleted membership hides the project from that user only.
type UserProject struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_user_project" json:"userId"`
	ProjectID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_user_project;index" json:"projectId"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Project Project `gorm:"foreignKey:ProjectID" json:"-"`
}

// TableName overrides the table name
func (UserProject) TableName() string {
	return "user_projects"
}
