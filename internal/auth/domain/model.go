package domain

import "time"

// User is an admin credential. Email is the login identifier and is stored
// lower-cased; the password is only ever kept as a bcrypt hash.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	DisplayName  string     `json:"displayName"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// Session is an authenticated admin context. It is passed explicitly into
// every mutating project operation.
type Session struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	IssuedAt    time.Time `json:"issuedAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Valid reports whether s is present, bound to a user and not yet expired at now.
func (s *Session) Valid(now time.Time) bool {
	if s == nil || s.ID == "" || s.UserID == "" {
		return false
	}
	return now.Before(s.ExpiresAt)
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token   string   `json:"token"`
	Session *Session `json:"session"`
	User    *User    `json:"user"`
}
