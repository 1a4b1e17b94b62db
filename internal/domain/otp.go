package domain

import "time"

// OneTimeCode is a short-lived numeric login code issued to an email address.
// Several codes may coexist for one identifier; a successful verification
// deletes every code for that identifier.
type OneTimeCode struct {
	ID         string
	Identifier string
	Code       string
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// Expired reports whether the code is past its lifetime.
func (c OneTimeCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
