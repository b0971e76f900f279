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

// RoleService handles business logic for roles
type RoleService struct {
	roleRepo *repositories.RoleRepository
	logger   *zap.Logger
}

// NewRoleService creates a new role service instance
func NewRoleService(db *gorm.DB, logger *zap.Logger) *RoleService {
	return &RoleService{
		roleRepo: repositories.NewRoleRepository(db),
		logger:   logger,
	}
}

// ListRoles retrieves all roles
func (s *RoleService) ListRoles(ctx context.Context) ([]models.Role, error) {
	roles, err := s.roleRepo.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list roles")
	}
	return roles, nil
}

// GetRole retrieves a specific role
func (s *RoleService) GetRole(ctx context.Context, id string) (models.Role, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return role, notFoundOr(err, "Role not found")
	}
	return role, nil
}

// CreateRole creates a new role with a unique name
func (s *RoleService) CreateRole(ctx context.Context, req dto.RoleRequest) (models.Role, error) {
	exists, err := s.roleRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return models.Role{}, errors.Wrap(err, "check role name")
	}
	if exists {
		return models.Role{}, NewError(ErrConflict, "Role with name '%s' already exists", req.Name)
	}

	role := req.ToModel()
	if err := s.roleRepo.Create(ctx, &role); err != nil {
		return role, conflictOr(err, "create role", "Role with name '%s' already exists", role.Name)
	}

	s.logger.Info("role created",
		zap.String("role_id", role.ID),
		zap.String("name", role.Name),
		zap.Strings("permissions", role.PermissionSet().List()))
	return role, nil
}

// UpdateRole applies a partial update, re-checking the name when it changes
func (s *RoleService) UpdateRole(ctx context.Context, id string, req dto.RoleUpdateRequest) (models.Role, error) {
	if err := req.Validate(); err != nil {
		return models.Role{}, NewError(ErrValidation, "%s", err.Error())
	}

	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return role, notFoundOr(err, "Role not found")
	}

	if req.Name.Set && *req.Name.Value != role.Name {
		exists, err := s.roleRepo.ExistsByName(ctx, *req.Name.Value)
		if err != nil {
			return role, errors.Wrap(err, "check role name")
		}
		if exists {
			return role, NewError(ErrConflict, "Role with name '%s' already exists", *req.Name.Value)
		}
	}

	req.ApplyTo(&role)
	if err := s.roleRepo.Update(ctx, &role); err != nil {
		return role, conflictOr(err, "update role", "Role with name '%s' already exists", role.Name)
	}
	return role, nil
}

// DeleteRole removes a role that no user is assigned to
func (s *RoleService) DeleteRole(ctx context.Context, id string) error {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Role not found")
	}

	count, err := s.roleRepo.CountUsersWithRole(ctx, id)
	if err != nil {
		return errors.Wrap(err, "count users with role")
	}
	if count > 0 {
		return NewError(ErrInvalidState, "Cannot delete role '%s': %d user(s) are still assigned", role.Name, count)
	}

	if err := s.roleRepo.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "delete role")
	}

	s.logger.Info("role deleted", zap.String("role_id", id), zap.String("name", role.Name))
	return nil
}
