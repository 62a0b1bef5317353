package models

import (
	"time"
)

// Auth source constants
const (
	AuthSourceLocal   = "local"
	AuthSourceHTTPAPI = "http_api"
)

// User is the identity record the gate resolves credentials to.
// The authentication pipeline only ever reads it.
type User struct {
	ID           string `gorm:"primaryKey"           json:"id"`
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	Email        string `gorm:"index"                json:"email"`
	PasswordHash string `json:"password_hash,omitempty"` // Empty for externally managed accounts
	FullName     string `json:"full_name"`

	// External authentication support
	ExternalID string `gorm:"index"           json:"external_id,omitempty"` // External user ID (e.g., from HTTP API)
	AuthSource string `gorm:"default:'local'" json:"auth_source"`            // "local" or "http_api"

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsExternal returns true if user authenticates via external provider
func (u *User) IsExternal() bool {
	return u.AuthSource != AuthSourceLocal && u.AuthSource != ""
}

// HasPassword reports whether a local credential is stored for the user.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
