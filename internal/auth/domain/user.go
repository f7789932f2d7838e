package domain

import "time"

type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string

	MfaEnabled bool
	// MfaSecret is set when MFA has been provisioned. It may exist before
	// MfaEnabled flips true, while the enable flow awaits code confirmation.
	MfaSecret *string

	FailedLoginAttempts int
	LockUntil           *time.Time
	LastLogin           *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	IPAddress string
	UserAgent string
	ExpiresAt time.Time
	CreatedAt time.Time
}
