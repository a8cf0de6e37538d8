package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project is a linked source-code repository
type Project struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	GithubURL string         `gorm:"column:github_url;not null" json:"githubUrl"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Encrypted access token, write-only from the API's point of view
	GithubToken []byte `gorm:"column:github_token" json:"-"`

	// Relationships
	UserProjects []UserProject `gorm:"foreignKey:ProjectID" json:"-"`
}

// TableName overrides the table name
func (Project) TableName() string {
	return "projects"
}

// BeforeCreate assigns the opaque project ID
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// HasAccessToken reports whether an access token was supplied at creation
func (p *Project) HasAccessToken() bool {
	return len(p.GithubToken) > 0
}
