package dto

import "github.com/releaserite/models"

// RoleRequest represents a role creation request
type RoleRequest struct {
	Name        string  `json:"name" binding:"required,max=50"`
	Description *string `json:"description" binding:"omitempty,max=255"`
	Permissions *string `json:"permissions" binding:"omitempty,max=255"`
}

// ToModel builds a new role from the request
func (req *RoleRequest) ToModel() models.Role {
	role := models.Role{Name: req.Name, Description: req.Description}
	role.SetPermissions(req.Permissions)
	return role
}

// RoleUpdateRequest is a partial role update
type RoleUpdateRequest struct {
	Name        Optional[string] `json:"name"`
	Description Optional[string] `json:"description"`
	Permissions Optional[string] `json:"permissions"`
}

// Validate checks the fields that are present
func (req *RoleUpdateRequest) Validate() error {
	if err := notBlank("name", req.Name); err != nil {
		return err
	}
	if req.Name.Set {
		if err := checkVar("name", *req.Name.Value, "max=50"); err != nil {
			return err
		}
	}
	if err := checkPresent("description", req.Description, "max=255"); err != nil {
		return err
	}
	if req.Permissions.Value != nil {
		if err := checkVar("permissions", *req.Permissions.Value, "max=255"); err != nil {
			return err
		}
	}
	return nil
}

// ApplyTo copies the present fields onto role
func (req *RoleUpdateRequest) ApplyTo(role *models.Role) {
	if req.Name.Set {
		role.Name = *req.Name.Value
	}
	assign(&role.Description, req.Description)
	if req.Permissions.Set {
		var perms *string
		assign(&perms, req.Permissions)
		role.SetPermissions(perms)
	}
}
