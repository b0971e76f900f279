package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Environment represents a deployment target such as dev, qa or prod
type Environment struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name        string    `json:"name" gorm:"type:varchar(50);uniqueIndex;not null"` // Name must be globally unique
	Description *string   `json:"description" gorm:"type:varchar(255)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName sets the table name for Environment model
func (Environment) TableName() string {
	return "environments"
}

// BeforeCreate assigns a UUID when the caller did not provide one
func (e *Environment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
