package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Release groups a set of services shipped together, with the people responsible for it
type Release struct {
	ID                 string     `json:"id" gorm:"primaryKey;type:uuid"`
	Name               string     `json:"name" gorm:"type:varchar(255);not null;index"`
	Version            string     `json:"version" gorm:"type:varchar(50);not null"`
	PlannedReleaseDate *time.Time `json:"planned_release_date"`
	CreatedAt          time.Time  `json:"created_at"`

	// Role assignments
	OwnerID           *string `json:"owner_id" gorm:"type:uuid"`
	ProductOwnerID    *string `json:"product_owner_id" gorm:"type:uuid"`
	QAID              *string `json:"qa_id" gorm:"column:qa_id;type:uuid"`
	SecurityAnalystID *string `json:"security_analyst_id" gorm:"type:uuid"`

	// Relations
	Owner           *User                `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL"`
	ProductOwner    *User                `json:"-" gorm:"foreignKey:ProductOwnerID;constraint:OnDelete:SET NULL"`
	QA              *User                `json:"-" gorm:"foreignKey:QAID;constraint:OnDelete:SET NULL"`
	SecurityAnalyst *User                `json:"-" gorm:"foreignKey:SecurityAnalystID;constraint:OnDelete:SET NULL"`
	ServiceLinks    []ReleaseServiceLink `json:"service_links" gorm:"foreignKey:ReleaseID;constraint:OnDelete:CASCADE"`
	Deployments     []Deployment         `json:"deployments" gorm:"foreignKey:ReleaseID"`
}

// TableName sets the table name for Release model
func (Release) TableName() string {
	return "releases"
}

// BeforeCreate assigns a UUID when the caller did not provide one
func (r *Release) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ReleaseServiceLink associates a service with a release, keyed by both ids
type ReleaseServiceLink struct {
	ReleaseID    string  `json:"release_id" gorm:"primaryKey;type:uuid"`
	ServiceID    string  `json:"service_id" gorm:"primaryKey;type:uuid"`
	PipelineLink *string `json:"pipeline_link" gorm:"type:varchar(512)"`
	Version      *string `json:"version" gorm:"type:varchar(50)"`

	// Relations
	Service *Service `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
}

// TableName sets the table name for ReleaseServiceLink model
func (ReleaseServiceLink) TableName() string {
	return "release_services_link"
}
