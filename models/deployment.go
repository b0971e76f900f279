package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeploymentStatus represents the outcome recorded for a deployment attempt
type DeploymentStatus string

const (
	DeploymentStatusPending  DeploymentStatus = "pending"
	DeploymentStatusSuccess  DeploymentStatus = "success"
	DeploymentStatusFailed   DeploymentStatus = "failed"
	DeploymentStatusExisting DeploymentStatus = "existing"
)

// Deployment is one recorded attempt to deploy a release, or one of its services,
// to an environment. Rows are history: several may exist for the same target.
type Deployment struct {
	ID            string           `json:"id" gorm:"primaryKey;type:uuid"`
	ReleaseID     string           `json:"release_id" gorm:"type:uuid;not null;index"`
	EnvironmentID string           `json:"environment_id" gorm:"type:uuid;not null;index"`
	ServiceID     *string          `json:"service_id" gorm:"type:uuid;index"` // Nil for release-level deployments
	DeployedAt    time.Time        `json:"deployed_at" gorm:"not null"`
	Status        DeploymentStatus `json:"status" gorm:"type:varchar(50);not null"`

	// Relations
	Environment *Environment `json:"-" gorm:"foreignKey:EnvironmentID;constraint:OnDelete:CASCADE"`
	Service     *Service     `json:"-" gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name for Deployment model
func (Deployment) TableName() string {
	return "deployments"
}

// BeforeCreate assigns a UUID and stamps the deployment time
func (d *Deployment) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.DeployedAt.IsZero() {
		d.DeployedAt = time.Now().UTC()
	}
	if d.Status == "" {
		d.Status = DeploymentStatusSuccess
	}
	return nil
}

// Matches reports whether the deployment targets the given environment and service
func (d *Deployment) Matches(environmentID, serviceID string) bool {
	return d.EnvironmentID == environmentID && d.ServiceID != nil && *d.ServiceID == serviceID
}
