package services

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/releaserite/metrics"
	"github.com/releaserite/models"
	"github.com/releaserite/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const invalidCredentials = "Incorrect email or password"

// AuthService logs users in and resolves bearer tokens to users
type AuthService struct {
	users   *repositories.UserRepository
	tokens  *TokenService
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewAuthService creates a new auth service instance
func NewAuthService(db *gorm.DB, tokens *TokenService, m *metrics.Metrics, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:   repositories.NewUserRepository(db),
		tokens:  tokens,
		metrics: m,
		logger:  logger,
	}
}

// Login authenticates a user and returns a token. Unknown emails, wrong passwords and
// inactive accounts fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", time.Time{}, errors.Wrap(err, "find user")
		}
		s.metrics.AuthAttempt("failure")
		return "", time.Time{}, NewError(ErrUnauthenticated, invalidCredentials)
	}

	if !VerifyPassword(user.HashedPassword, password) || !user.IsActive {
		s.metrics.AuthAttempt("failure")
		s.logger.Info("login rejected", zap.String("user_id", user.ID), zap.Bool("active", user.IsActive))
		return "", time.Time{}, NewError(ErrUnauthenticated, invalidCredentials)
	}

	var roleName, permissions string
	if user.Role != nil {
		roleName = user.Role.Name
		permissions = user.Role.PermissionSet().String()
	}

	token, expiresAt, err := s.tokens.Issue(user.Email, roleName, permissions)
	if err != nil {
		return "", time.Time{}, err
	}

	s.metrics.AuthAttempt("success")
	s.logger.Info("user logged in", zap.String("user_id", user.ID))
	return token, expiresAt, nil
}

// Authenticate resolves a bearer token to the user it was issued for.
// The user's current role is loaded, so permission changes apply before the token expires.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, *TokenClaims, error) {
	claims, err := s.tokens.Validate(ctx, token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return nil, nil, NewError(ErrUnauthenticated, "%s", Message(err))
		}
		return nil, nil, err
	}

	user, err := s.users.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, NewError(ErrUnauthenticated, "Could not validate credentials")
		}
		return nil, nil, errors.Wrap(err, "find user")
	}
	if !user.IsActive {
		return nil, nil, NewError(ErrUnauthenticated, "Inactive user")
	}

	return &user, claims, nil
}

// Logout revokes the token described by claims
func (s *AuthService) Logout(ctx context.Context, claims *TokenClaims) error {
	if err := s.tokens.Revoke(ctx, claims); err != nil {
		return errors.Wrap(err, "revoke token")
	}
	return nil
}
