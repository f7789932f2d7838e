package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/akiliz/swedish-eco-property-hub-sub000/internal/auth/domain UserRepository

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error
	UpdateMFA(ctx context.Context, userID string, enabled bool, secret *string) error

	// IncrementFailedAttempts bumps the counter atomically and returns the
	// new value, so concurrent failures never under-count.
	IncrementFailedAttempts(ctx context.Context, userID string) (int, error)
	SetLock(ctx context.Context, userID string, until time.Time) error
	ClearLockAndTouchLogin(ctx context.Context, userID string, at time.Time) error

	StoreRefreshToken(ctx context.Context, rt *RefreshToken) error
	CountRefreshTokensByUserID(ctx context.Context, userID string) (int, error)
	DeleteOldestRefreshTokenByUserID(ctx context.Context, userID string) error
	// RotateRefreshToken deletes the stored row for oldToken and inserts
	// newToken in one transaction. It must fail when oldToken is absent,
	// which is what makes a refresh token single-use.
	RotateRefreshToken(ctx context.Context, oldToken string, newToken *RefreshToken) error
	DeleteRefreshToken(ctx context.Context, userID, token string) error
	DeleteAllRefreshTokensByUserID(ctx context.Context, userID string) error
}
