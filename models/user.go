package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole represents the role of a user account
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleSubAdmin UserRole = "sub-admin"
)

// Permission identifies one of the fixed feature permission flags
type Permission string

const (
	PermissionDashboard         Permission = "dashboard"
	PermissionCollegeManagement Permission = "collegeManagement"
	PermissionContentEditing    Permission = "contentEditing"
	PermissionViewData          Permission = "viewData"
)

// Valid reports whether p is one of the known permission flags
func (p Permission) Valid() bool {
	switch p {
	case PermissionDashboard, PermissionCollegeManagement, PermissionContentEditing, PermissionViewData:
		return true
	}
	return false
}

// Permissions holds the per-feature flags of a sub-admin account.
// All four keys are always present; the zero value grants nothing.
type Permissions struct {
	Dashboard         bool `json:"dashboard"`
	CollegeManagement bool `json:"collegeManagement"`
	ContentEditing    bool `json:"contentEditing"`
	ViewData          bool `json:"viewData"`
}

// Has returns the flag stored for the given permission
func (p Permissions) Has(perm Permission) bool {
	switch perm {
	case PermissionDashboard:
		return p.Dashboard
	case PermissionCollegeManagement:
		return p.CollegeManagement
	case PermissionContentEditing:
		return p.ContentEditing
	case PermissionViewData:
		return p.ViewData
	}
	return false
}

// AllPermissions returns a Permissions value with every flag set
func AllPermissions() Permissions {
	return Permissions{
		Dashboard:         true,
		CollegeManagement: true,
		ContentEditing:    true,
		ViewData:          true,
	}
}

// User represents an account in the system. The password hash is never
// serialized in responses.
type User struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	Name         string      `json:"name" db:"name"`
	Email        string      `json:"email" db:"email"`
	PasswordHash string      `json:"-" db:"password_hash"`
	Role         UserRole    `json:"role" db:"role"`
	Permissions  Permissions `json:"permissions"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// NewAdmin creates the admin User. The admin carries every permission flag.
func NewAdmin(name, email, passwordHash string) *User {
	now := time.Now()
	return &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         RoleAdmin,
		Permissions:  AllPermissions(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewSubAdmin creates a sub-admin User with the given permission flags
func NewSubAdmin(name, email, passwordHash string, perms Permissions) *User {
	now := time.Now()
	return &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         RoleSubAdmin,
		Permissions:  perms,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsAdmin returns true if the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasPermission reports whether the user may access the feature gated by
// perm. The admin role grants every permission regardless of stored flags.
func (u *User) HasPermission(perm Permission) bool {
	if u.Role == RoleAdmin {
		return true
	}
	return u.Permissions.Has(perm)
}
