package dto

import "github.com/releaserite/models"

// UserRequest represents a user creation request
type UserRequest struct {
	Email    string  `json:"email" binding:"required,email,max=255"`
	Password string  `json:"password" binding:"required,min=8,max=72"`
	FullName *string `json:"full_name" binding:"omitempty,max=255"`
	RoleID   *string `json:"role_id" binding:"omitempty,uuid"`
	IsActive *bool   `json:"is_active"`
}

// UserUpdateRequest is a partial user update. Password is hashed by the caller, never stored as given.
type UserUpdateRequest struct {
	Email    Optional[string] `json:"email"`
	Password Optional[string] `json:"password"`
	FullName Optional[string] `json:"full_name"`
	RoleID   Optional[string] `json:"role_id"`
	IsActive Optional[bool]   `json:"is_active"`
}

// Validate checks the fields that are present
func (req *UserUpdateRequest) Validate() error {
	if err := requireValue("email", req.Email); err != nil {
		return err
	}
	if req.Email.Set {
		if err := checkVar("email", *req.Email.Value, "email,max=255"); err != nil {
			return err
		}
	}
	if err := requireValue("password", req.Password); err != nil {
		return err
	}
	if req.Password.Set {
		if err := checkVar("password", *req.Password.Value, "min=8,max=72"); err != nil {
			return err
		}
	}
	if err := checkPresent("full_name", req.FullName, "max=255"); err != nil {
		return err
	}
	if err := requireValue("is_active", req.IsActive); err != nil {
		return err
	}
	if req.RoleID.Value != nil {
		if err := checkVar("role_id", *req.RoleID.Value, "uuid"); err != nil {
			return err
		}
	}
	return nil
}

// ApplyTo copies the present profile fields onto user. Email and password are
// handled separately since they need uniqueness checks and hashing.
func (req *UserUpdateRequest) ApplyTo(user *models.User) {
	assign(&user.FullName, req.FullName)
	if req.RoleID.Set {
		assign(&user.RoleID, req.RoleID)
		user.Role = nil
	}
	if req.IsActive.Set {
		user.IsActive = *req.IsActive.Value
	}
}
