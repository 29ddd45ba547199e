package models

import "github.com/golang-jwt/jwt/v5"

// UserRole enumerates the roles understood by route guards. Tokens are
// issued by the central auth service; this API only validates them.
type UserRole string

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleScheduler UserRole = "SCHEDULER"
	RoleTeacher   UserRole = "TEACHER"
	RoleViewer    UserRole = "VIEWER"
)

// JWTClaims is the access-token payload shared with the auth service.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	BranchID string   `json:"branch_id,omitempty"`
	jwt.RegisteredClaims
}
