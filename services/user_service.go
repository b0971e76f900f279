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

// UserService handles business logic for user accounts
type UserService struct {
	userRepo *repositories.UserRepository
	roleRepo *repositories.RoleRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service instance
func NewUserService(db *gorm.DB, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: repositories.NewUserRepository(db),
		roleRepo: repositories.NewRoleRepository(db),
		logger:   logger,
	}
}

// ListUsers retrieves a page of users
func (s *UserService) ListUsers(ctx context.Context, params dto.ListParams) ([]models.User, error) {
	params = params.Normalize()
	users, err := s.userRepo.FindAll(ctx, params.Skip, params.Limit)
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	return users, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id string) (models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return user, notFoundOr(err, "User not found")
	}
	return user, nil
}

// CreateUser creates a new account with a unique email and a hashed password
func (s *UserService) CreateUser(ctx context.Context, req dto.UserRequest) (models.User, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return models.User{}, errors.Wrap(err, "check email")
	}
	if exists {
		return models.User{}, NewError(ErrConflict, "Email already registered")
	}

	if err := s.checkRole(ctx, req.RoleID); err != nil {
		return models.User{}, err
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Email:          req.Email,
		FullName:       req.FullName,
		HashedPassword: hashed,
		IsActive:       true,
		RoleID:         req.RoleID,
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.userRepo.Create(ctx, &user); err != nil {
		return user, conflictOr(err, "create user", "Email already registered")
	}

	s.logger.Info("user created", zap.String("user_id", user.ID))
	return s.GetUser(ctx, user.ID)
}

// UpdateUser applies a partial update. A changed email is re-checked for uniqueness
// and a new password is hashed before it is stored.
func (s *UserService) UpdateUser(ctx context.Context, id string, req dto.UserUpdateRequest) (models.User, error) {
	if err := req.Validate(); err != nil {
		return models.User{}, NewError(ErrValidation, "%s", err.Error())
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return user, notFoundOr(err, "User not found")
	}

	if req.Email.Set && *req.Email.Value != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, *req.Email.Value)
		if err != nil {
			return user, errors.Wrap(err, "check email")
		}
		if exists {
			return user, NewError(ErrConflict, "Email already registered")
		}
		user.Email = *req.Email.Value
	}

	if req.RoleID.Set {
		if err := s.checkRole(ctx, req.RoleID.Value); err != nil {
			return user, err
		}
	}

	if req.Password.Set {
		hashed, err := HashPassword(*req.Password.Value)
		if err != nil {
			return user, err
		}
		user.HashedPassword = hashed
	}

	req.ApplyTo(&user)
	if err := s.userRepo.Update(ctx, &user); err != nil {
		return user, conflictOr(err, "update user", "Email already registered")
	}

	return s.GetUser(ctx, user.ID)
}

// DeleteUser removes an account. Callers cannot delete their own account.
func (s *UserService) DeleteUser(ctx context.Context, actor *models.User, id string) error {
	if actor != nil && actor.ID == id {
		return NewError(ErrInvalidState, "Users cannot delete their own account")
	}

	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "User not found")
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "delete user")
	}

	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}

func (s *UserService) checkRole(ctx context.Context, roleID *string) error {
	if roleID == nil {
		return nil
	}
	if _, err := s.roleRepo.FindByID(ctx, *roleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewError(ErrValidation, "Role %s does not exist", *roleID)
		}
		return errors.Wrap(err, "find role")
	}
	return nil
}
