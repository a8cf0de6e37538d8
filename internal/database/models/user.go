package models

import (
	"time"
)

// User is the local mirror of an identity provider account, keyed by email
type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	FirstName string    `gorm:"not null;default:''" json:"firstName"`
	LastName  string    `gorm:"not null;default:''" json:"lastName"`
	ImageURL  string    `gorm:"column:image_url;not null;default:''" json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relationships
	UserProjects []UserProject `gorm:"foreignKey:UserID" json:"-"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}
