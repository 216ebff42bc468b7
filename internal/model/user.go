package model

import "time"

// UserRole represents the role of a user in the marketplace
type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleSupplier UserRole = "supplier"
	UserRoleAdmin    UserRole = "admin"
)

// Valid user roles
func IsValidUserRole(role string) bool {
	switch UserRole(role) {
	case UserRoleCustomer, UserRoleSupplier, UserRoleAdmin:
		return true
	}
	return false
}

// User represents an application user. Authentication is handled by the
// identity provider; this record carries the identity and role the standing
// engine consumes.
type User struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	DisplayName *string  `json:"display_name,omitempty"`
	Hash        *string  `json:"-"` // bcrypt, absent for federated accounts
	Role        UserRole `json:"role"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// IsAdmin returns true if the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// IsSupplier returns true if the user has the supplier role
func (u *User) IsSupplier() bool {
	return u.Role == UserRoleSupplier
}
