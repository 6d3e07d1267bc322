package models

import "time"

// User is an identity record keyed by the opaque external identity
// (open_id) supplied by the credential provider.
type User struct {
	ID           int64     `json:"id"`
	OpenID       string    `json:"open_id"`
	Email        string    `json:"email,omitempty"`
	Name         string    `json:"name,omitempty"`
	LoginMethod  string    `json:"login_method,omitempty"`
	Role         string    `json:"role"` // user, admin
	LastSignedIn time.Time `json:"last_signed_in"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserAttrs carries the fields an upsert may set. Empty strings are
// treated as "not supplied" and leave the stored value untouched.
type UserAttrs struct {
	Email       string
	Name        string
	LoginMethod string
	Role        string
}

// Claims is the verified output of a credential check: who the credential
// belongs to and until when the verification may be reused.
type Claims struct {
	Subject     string    `json:"subject"`
	Email       string    `json:"email,omitempty"`
	Name        string    `json:"name,omitempty"`
	LoginMethod string    `json:"login_method,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
}
