package entity

import (
	"strings"
	"time"
)

type User struct {
	Base
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	FirstName    string `db:"first_name"`
	LastName     string `db:"last_name"`
	PhoneNumber  string `db:"phone_number"`
	IsActive     bool   `db:"is_active"`
	IsAdmin      bool   `db:"is_admin"`

	IsEmailVerified         bool       `db:"is_email_verified"`
	VerificationToken       *string    `db:"verification_token"`
	VerificationTokenExpiry *time.Time `db:"verification_token_expiry"`
}

// FullName joins first and last name for display and email greetings.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
