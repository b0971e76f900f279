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

// EnvironmentService handles business logic for environments
type EnvironmentService struct {
	environmentRepo *repositories.EnvironmentRepository
	logger          *zap.Logger
}

// NewEnvironmentService creates a new environment service instance
func NewEnvironmentService(db *gorm.DB, logger *zap.Logger) *EnvironmentService {
	return &EnvironmentService{
		environmentRepo: repositories.NewEnvironmentRepository(db),
		logger:          logger,
	}
}

// ListEnvironments retrieves all environments
func (s *EnvironmentService) ListEnvironments(ctx context.Context) ([]models.Environment, error) {
	envs, err := s.environmentRepo.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list environments")
	}
	return envs, nil
}

// GetEnvironment retrieves a specific environment
func (s *EnvironmentService) GetEnvironment(ctx context.Context, id string) (models.Environment, error) {
	env, err := s.environmentRepo.FindByID(ctx, id)
	if err != nil {
		return env, notFoundOr(err, "Environment not found")
	}
	return env, nil
}

// CreateEnvironment creates a new environment with a unique name
func (s *EnvironmentService) CreateEnvironment(ctx context.Context, req dto.EnvironmentRequest) (models.Environment, error) {
	exists, err := s.environmentRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return models.Environment{}, errors.Wrap(err, "check environment name")
	}
	if exists {
		return models.Environment{}, NewError(ErrConflict, "Environment with name '%s' already exists", req.Name)
	}

	env := models.Environment{Name: req.Name, Description: req.Description}
	if err := s.environmentRepo.Create(ctx, &env); err != nil {
		return env, conflictOr(err, "create environment", "Environment with name '%s' already exists", env.Name)
	}

	s.logger.Info("environment created", zap.String("environment_id", env.ID), zap.String("name", env.Name))
	return env, nil
}

// UpdateEnvironment applies a partial update, re-checking the name when it changes
func (s *EnvironmentService) UpdateEnvironment(ctx context.Context, id string, req dto.EnvironmentUpdateRequest) (models.Environment, error) {
	if err := req.Validate(); err != nil {
		return models.Environment{}, NewError(ErrValidation, "%s", err.Error())
	}

	env, err := s.environmentRepo.FindByID(ctx, id)
	if err != nil {
		return env, notFoundOr(err, "Environment not found")
	}

	if req.Name.Set && *req.Name.Value != env.Name {
		exists, err := s.environmentRepo.ExistsByName(ctx, *req.Name.Value)
		if err != nil {
			return env, errors.Wrap(err, "check environment name")
		}
		if exists {
			return env, NewError(ErrConflict, "Environment with name '%s' already exists", *req.Name.Value)
		}
	}

	req.ApplyTo(&env)
	if err := s.environmentRepo.Update(ctx, &env); err != nil {
		return env, conflictOr(err, "update environment", "Environment with name '%s' already exists", env.Name)
	}
	return env, nil
}

// DeleteEnvironment removes an environment if it has no associated services
func (s *EnvironmentService) DeleteEnvironment(ctx context.Context, id string) error {
	env, err := s.environmentRepo.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Environment not found")
	}

	count, err := s.environmentRepo.CountServicesInEnvironment(ctx, id)
	if err != nil {
		return errors.Wrap(err, "count services in environment")
	}
	if count > 0 {
		return NewError(ErrInvalidState, "Cannot delete environment '%s': %d service(s) are still attached", env.Name, count)
	}

	if err := s.environmentRepo.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "delete environment")
	}

	s.logger.Info("environment deleted", zap.String("environment_id", id), zap.String("name", env.Name))
	return nil
}
