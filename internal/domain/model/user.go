package model

import "time"

// User represents a registered exchange customer.
type User struct {
	ID                    string
	Email                 string
	Name                  string
	PasswordHash          string
	VerificationCodeHash  string
	VerificationExpiresAt *time.Time
	VerifiedAt            *time.Time
	CreatedAt             time.Time
}

// Verified reports whether the user confirmed their email address.
func (u User) Verified() bool {
	return u.VerifiedAt != nil
}
