package models

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleStudent UserRole = "student"
)

// Valid reports whether the role is one of the known roles.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}

// User represents an application user held in the record store.
// The password is compared in the clear against the stored value;
// credential hardening is explicitly outside this system's contract.
type User struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	Password string   `json:"-"`
}

// LoginRequest carries the credentials presented at login.
type LoginRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required"`
	Role     UserRole `json:"role" validate:"required,oneof=admin student"`
}

// UserInfo is the sanitized user payload returned to clients.
type UserInfo struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

// Info strips credentials from a user for responses.
func (u User) Info() UserInfo {
	return UserInfo{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
