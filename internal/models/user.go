// internal/models/user.go
package models

// Roles
const (
	RoleAdmin  = "Admin"
	RoleMember = "Pengguna"
)

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"` // empty means no delivery address
	Role  string `json:"role"`
}
