package services

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/releaserite/dto"
	"github.com/releaserite/models"
	"github.com/releaserite/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ServiceService handles business logic for software services
type ServiceService struct {
	serviceRepo     *repositories.ServiceRepository
	environmentRepo *repositories.EnvironmentRepository
	logger          *zap.Logger
}

// NewServiceService creates a new service service instance
func NewServiceService(db *gorm.DB, logger *zap.Logger) *ServiceService {
	return &ServiceService{
		serviceRepo:     repositories.NewServiceRepository(db),
		environmentRepo: repositories.NewEnvironmentRepository(db),
		logger:          logger,
	}
}

// ListServices retrieves all services
func (s *ServiceService) ListServices(ctx context.Context) ([]models.Service, error) {
	services, err := s.serviceRepo.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list services")
	}
	return services, nil
}

// GetService retrieves a service by ID
func (s *ServiceService) GetService(ctx context.Context, id string) (models.Service, error) {
	service, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return service, notFoundOr(err, "Service not found")
	}
	return service, nil
}

// CreateService creates a service, optionally attached to an existing environment
func (s *ServiceService) CreateService(ctx context.Context, req dto.ServiceRequest) (models.Service, error) {
	if err := s.checkEnvironment(ctx, req.EnvironmentID); err != nil {
		return models.Service{}, err
	}

	service := req.ToModel()
	if err := s.serviceRepo.Create(ctx, &service); err != nil {
		return service, errors.Wrap(err, "create service")
	}

	s.logger.Info("service created", zap.String("service_id", service.ID), zap.String("name", service.Name))
	return service, nil
}

// UpdateService applies a partial update
func (s *ServiceService) UpdateService(ctx context.Context, id string, req dto.ServiceUpdateRequest) (models.Service, error) {
	if err := req.Validate(); err != nil {
		return models.Service{}, NewError(ErrValidation, "%s", err.Error())
	}

	service, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return service, notFoundOr(err, "Service not found")
	}

	if req.EnvironmentID.Set {
		if err := s.checkEnvironment(ctx, req.EnvironmentID.Value); err != nil {
			return service, err
		}
	}

	req.UpdateServiceModel(&service)
	if err := s.serviceRepo.Update(ctx, &service); err != nil {
		return service, errors.Wrap(err, "update service")
	}
	return service, nil
}

// DeleteService removes a service that no release includes
func (s *ServiceService) DeleteService(ctx context.Context, id string) error {
	service, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Service not found")
	}

	count, err := s.serviceRepo.CountReleaseLinks(ctx, id)
	if err != nil {
		return errors.Wrap(err, "count release links")
	}
	if count > 0 {
		return NewError(ErrInvalidState, "Cannot delete service '%s': it is included in %d release(s)", service.Name, count)
	}

	if err := s.serviceRepo.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "delete service")
	}

	s.logger.Info("service deleted", zap.String("service_id", id), zap.String("name", service.Name))
	return nil
}

func (s *ServiceService) checkEnvironment(ctx context.Context, environmentID *string) error {
	if environmentID == nil {
		return nil
	}
	exists, err := s.environmentRepo.Exists(ctx, *environmentID)
	if err != nil {
		return errors.Wrap(err, "check environment")
	}
	if !exists {
		return NewError(ErrValidation, "Environment %s does not exist", *environmentID)
	}
	return nil
}
