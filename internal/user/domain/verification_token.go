package domain

import "time"

// VerificationTokenTTL is how long a confirmation link stays valid.
const VerificationTokenTTL = 24 * time.Hour

// VerificationToken confirms the email address of a local account. A user has
// at most one; resending overwrites its value and expiry.
type VerificationToken struct {
	BaseEntity
	Value      string // UUID, unique
	ExpiryDate time.Time
	UserID     string
}

// Expired reports whether the token can no longer confirm the account.
func (t *VerificationToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiryDate)
}
