package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/akiliz/swedish-eco-property-hub-sub000/internal/auth/domain"
	autherror "github.com/akiliz/swedish-eco-property-hub-sub000/internal/errors"
)

// DB is the subset of pgxpool.Pool the repository uses; pgxmock satisfies
// it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, name, password_hash, mfa_enabled, mfa_secret,
		failed_login_attempts, lock_until, last_login, created_at, updated_at`

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
		LIMIT 1;
	`

	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
		LIMIT 1;
	`

	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *PostgresRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash,
		&user.MfaEnabled, &user.MfaSecret, &user.FailedLoginAttempts,
		&user.LockUntil, &user.LastLogin, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO users (id, email, name, password_hash, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, user.ID, user.Email, user.Name, user.PasswordHash, user.CreatedAt, user.UpdatedAt)

	return err
}

func (r *PostgresRepository) UpdateMFA(ctx context.Context, userID string, enabled bool, secret *string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET mfa_enabled = $2, mfa_secret = $3, updated_at = now()
		WHERE id = $1
	`, userID, enabled, secret)

	return err
}

func (r *PostgresRepository) IncrementFailedAttempts(ctx context.Context, userID string) (int, error) {
	// Single UPDATE with RETURNING so concurrent failures cannot lose an
	// increment.
	var count int
	err := r.db.QueryRow(ctx, `
		UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1, updated_at = now()
		WHERE id = $1
		RETURNING failed_login_attempts
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to increment failed attempts: %w", err)
	}

	return count, nil
}

func (r *PostgresRepository) SetLock(ctx context.Context, userID string, until time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET lock_until = $2, updated_at = now()
		WHERE id = $1
	`, userID, until)

	return err
}

func (r *PostgresRepository) ClearLockAndTouchLogin(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET failed_login_attempts = 0, lock_until = NULL, last_login = $2, updated_at = $2
		WHERE id = $1
	`, userID, at)

	return err
}

func (r *PostgresRepository) StoreRefreshToken(ctx context.Context, rt *domain.RefreshToken) error {
	query := `INSERT INTO refresh_tokens (id, user_id, token, ip_address, user_agent, expires_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		rt.ID, rt.UserID, rt.Token, rt.IPAddress, rt.UserAgent, rt.ExpiresAt, rt.CreatedAt)

	return err
}

func (r *PostgresRepository) CountRefreshTokensByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM refresh_tokens WHERE user_id = $1
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count refresh tokens: %w", err)
	}

	return count, nil
}

func (r *PostgresRepository) DeleteOldestRefreshTokenByUserID(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM refresh_tokens
		WHERE id = (
			SELECT id FROM refresh_tokens
			WHERE user_id = $1
			ORDER BY created_at ASC
			LIMIT 1
		)
	`, userID)

	return err
}

// RotateRefreshToken redeems oldToken and stores its replacement in one
// transaction. The DELETE doubles as the redemption check: when it touches
// no row the token was already rotated or revoked, and the presented copy
// must be rejected. Two concurrent redemptions of the same token can
// therefore never both succeed.
func (r *PostgresRepository) RotateRefreshToken(ctx context.Context, oldToken string, newToken *domain.RefreshToken) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin rotation: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, oldToken)
	if err != nil {
		return fmt.Errorf("failed to redeem refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return autherror.ErrInvalidToken
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token, ip_address, user_agent, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, newToken.ID, newToken.UserID, newToken.Token, newToken.IPAddress,
		newToken.UserAgent, newToken.ExpiresAt, newToken.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to store rotated refresh token: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *PostgresRepository) DeleteRefreshToken(ctx context.Context, userID, token string) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM refresh_tokens WHERE user_id = $1 AND token = $2
	`, userID, token)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return autherror.ErrInvalidToken
	}

	return nil
}

func (r *PostgresRepository) DeleteAllRefreshTokensByUserID(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM refresh_tokens WHERE user_id = $1
	`, userID)

	return err
}
