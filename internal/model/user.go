// Package model contain gorm model for recording data to database
package model

import (
	"time"

	"github.com/google/uuid"
)

var (
	// RoleUser is the default role for freshly registered accounts
	RoleUser = "user"
	// RoleAdmin grants access to admin endpoints once approved
	RoleAdmin = "admin"
	// RoleSuperAdmin is the bootstrap role with every admin capability
	RoleSuperAdmin = "super_admin"
)

var (
	// ApprovalPending means the account is waiting for an admin decision
	ApprovalPending = "pending"
	// ApprovalApproved means the account may sign in
	ApprovalApproved = "approved"
	// ApprovalRejected means the account is refused at login
	ApprovalRejected = "rejected"
)

// User is gorm model for an account with its recruiting profile fields
type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Email          *string   `gorm:"uniqueIndex" json:"email"`
	DisplayName    string    `gorm:"type:text" json:"display_name"`
	Password       string    `gorm:"type:text" json:"-"`
	GoogleID       string    `json:"-"`
	Role           string    `gorm:"type:text;default:'user'" json:"role"`
	ApprovalStatus string    `gorm:"type:text;default:'pending'" json:"approval_status"`
	CreatedAt      time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
	UpdatedAt      time.Time `gorm:"type:timestamp" json:"updated_at"`
}

// IsAdmin reports whether the user holds an approved admin or super_admin role.
// The bootstrap email allow-list is checked separately by the middleware.
func (u *User) IsAdmin() bool {
	if u.ApprovalStatus != ApprovalApproved {
		return false
	}
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// AuthResponse struct holds the response data for user login or registration
type AuthResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}

// SetAccessToken sets the access token in the AuthResponse
func (r *AuthResponse) SetAccessToken(accessToken string) {
	r.AccessToken = accessToken
}
