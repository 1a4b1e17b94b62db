package domain

import "time"

// User is the domain model for restaurant owners signing in via OTP.
// Accounts are created implicitly on first successful verification.
type User struct {
	ID        string
	Email     string
	Name      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
