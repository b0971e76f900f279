package services

import "github.com/releaserite/models"

// Permission strings guarding the API operations
const (
	PermReadServices       = "read:services"
	PermCreateServices     = "create:services"
	PermReadEnvironments   = "read:environments"
	PermCreateEnvironments = "create:environments"
	PermReadRoles          = "read:roles"
	PermCreateRoles        = "create:roles"
	PermReadUsers          = "read:users"
	PermCreateUsers        = "create:users"
	PermReadReleases       = "read:releases"
	PermCreateReleases     = "create:releases"
	PermReadDashboard      = "read:dashboard"
)

// Authorize checks that user may perform an operation guarded by permission.
// The admin role passes every check; a user without a role passes none.
func Authorize(user *models.User, permission string) error {
	if user == nil {
		return NewError(ErrUnauthenticated, "Not authenticated")
	}
	if user.HasPermission(permission) {
		return nil
	}
	return NewError(ErrForbidden, "Not enough permissions. Required: %s", permission)
}
