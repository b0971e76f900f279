package dto

import "github.com/releaserite/models"

// EnvironmentRequest represents an environment creation request
type EnvironmentRequest struct {
	Name        string  `json:"name" binding:"required,max=50"`
	Description *string `json:"description" binding:"omitempty,max=255"`
}

// EnvironmentUpdateRequest is a partial environment update
type EnvironmentUpdateRequest struct {
	Name        Optional[string] `json:"name"`
	Description Optional[string] `json:"description"`
}

// Validate checks the fields that are present
func (req *EnvironmentUpdateRequest) Validate() error {
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
	return nil
}

// ApplyTo copies the present fields onto env
func (req *EnvironmentUpdateRequest) ApplyTo(env *models.Environment) {
	if req.Name.Set {
		env.Name = *req.Name.Value
	}
	assign(&env.Description, req.Description)
}
