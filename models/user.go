package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an account that can log in to the API
type User struct {
	ID             string    `json:"id" gorm:"primaryKey;type:uuid"`
	Email          string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	FullName       *string   `json:"full_name" gorm:"type:varchar(255)"`
	HashedPassword string    `json:"-" gorm:"type:varchar(255);not null"` // Never exposed in JSON
	IsActive       bool      `json:"is_active" gorm:"not null"`
	RoleID         *string   `json:"role_id" gorm:"type:uuid;index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Role *Role `json:"role" gorm:"foreignKey:RoleID"`
}

// TableName sets the table name for User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID when the caller did not provide one
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// DisplayName returns the full name, falling back to the email address
func (u *User) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	return u.Email
}

// HasPermission reports whether the user's current role grants permission
func (u *User) HasPermission(permission string) bool {
	if u.Role == nil {
		return false
	}
	return u.Role.Grants(permission)
}
