// models/service.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceStatusActive is the status given to services created without one
const ServiceStatusActive = "active"

// Service represents a software service that can be shipped in releases
type Service struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name          string    `json:"name" gorm:"type:varchar(255);not null;index"`
	Description   *string   `json:"description" gorm:"type:text"`
	Owner         *string   `json:"owner" gorm:"type:varchar(255)"` // e.g. "data-platform-team"
	Status        *string   `json:"status" gorm:"type:varchar(50)"`
	RepoLink      *string   `json:"repo_link" gorm:"type:varchar(512)"`
	EnvironmentID *string   `json:"environment_id" gorm:"type:uuid;index"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relations
	Environment *Environment `json:"-" gorm:"foreignKey:EnvironmentID"`
}

// TableName sets the table name for Service model
func (Service) TableName() string {
	return "services"
}

// BeforeCreate assigns a UUID when the caller did not provide one
func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
