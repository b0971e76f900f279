package repositories

import (
	"context"

	"github.com/releaserite/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ServiceRepository handles database operations for services
type ServiceRepository struct {
	db *gorm.DB
}

// NewServiceRepository creates a new service repository instance
func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// FindAll retrieves all services ordered by name
func (r *ServiceRepository) FindAll(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	result := r.db.WithContext(ctx).Order("name ASC").Find(&services)
	return services, result.Error
}

// FindByID retrieves a service by its ID
func (r *ServiceRepository) FindByID(ctx context.Context, id string) (models.Service, error) {
	var service models.Service
	result := r.db.WithContext(ctx).First(&service, "id = ?", id)
	return service, result.Error
}

// CountByIDs counts how many of ids refer to existing services
func (r *ServiceRepository) CountByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Service{}).Where("id IN ?", ids).Count(&count)
	return count, result.Error
}

// Create inserts a new service into the database
func (r *ServiceRepository) Create(ctx context.Context, service *models.Service) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(service).Error
}

// Update modifies an existing service
func (r *ServiceRepository) Update(ctx context.Context, service *models.Service) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(service).Error
}

// Delete removes a service from the database
func (r *ServiceRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Service{}, "id = ?", id).Error
}

// Exists checks if a service with the given ID exists
func (r *ServiceRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Service{}).Where("id = ?", id).Count(&count)
	return count > 0, result.Error
}

// CountReleaseLinks counts the releases that include a service
func (r *ServiceRepository) CountReleaseLinks(ctx context.Context, serviceID string) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.ReleaseServiceLink{}).Where("service_id = ?", serviceID).Count(&count)
	return count, result.Error
}
