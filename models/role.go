package models

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminRoleName is the role that bypasses permission checks entirely
const AdminRoleName = "admin"

// PermissionSet is the parsed form of a role's comma-separated permission string
type PermissionSet map[string]struct{}

// ParsePermissions splits a comma-separated permission string, trimming whitespace
// and dropping empty entries
func ParsePermissions(csv string) PermissionSet {
	set := make(PermissionSet)
	for _, p := range strings.Split(csv, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		set[p] = struct{}{}
	}
	return set
}

// Contains reports whether permission is a member of the set
func (s PermissionSet) Contains(permission string) bool {
	_, ok := s[permission]
	return ok
}

// List returns the permissions in sorted order
func (s PermissionSet) List() []string {
	list := make([]string, 0, len(s))
	for p := range s {
		list = append(list, p)
	}
	sort.Strings(list)
	return list
}

// String renders the set back into its stored comma-separated form
func (s PermissionSet) String() string {
	return strings.Join(s.List(), ",")
}

// Role groups a set of permissions that can be assigned to users
type Role struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name        string    `json:"name" gorm:"type:varchar(50);uniqueIndex;not null"`
	Description *string   `json:"description" gorm:"type:varchar(255)"`
	Permissions *string   `json:"permissions" gorm:"type:varchar(255)"` // Comma-separated, e.g. "read:releases,create:releases"
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	permissionSet PermissionSet
}

// TableName sets the table name for Role model
func (Role) TableName() string {
	return "roles"
}

// BeforeCreate assigns a UUID when the caller did not provide one
func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// AfterFind parses the stored permission string once per load
func (r *Role) AfterFind(tx *gorm.DB) error {
	r.permissionSet = ParsePermissions(r.rawPermissions())
	return nil
}

func (r *Role) rawPermissions() string {
	if r.Permissions == nil {
		return ""
	}
	return *r.Permissions
}

// PermissionSet returns the parsed permissions of the role
func (r *Role) PermissionSet() PermissionSet {
	if r.permissionSet == nil {
		r.permissionSet = ParsePermissions(r.rawPermissions())
	}
	return r.permissionSet
}

// SetPermissions replaces the stored permission string. A nil value clears it.
func (r *Role) SetPermissions(csv *string) {
	r.Permissions = csv
	r.permissionSet = ParsePermissions(r.rawPermissions())
}

// IsAdmin reports whether this is the admin sentinel role
func (r *Role) IsAdmin() bool {
	return r.Name == AdminRoleName
}

// Grants reports whether the role allows permission. The admin role allows everything.
func (r *Role) Grants(permission string) bool {
	if r.IsAdmin() {
		return true
	}
	return r.PermissionSet().Contains(permission)
}
