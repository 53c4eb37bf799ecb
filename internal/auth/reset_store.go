package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrResetInvalid is returned when a reset request is missing, expired, or
// already consumed.
var ErrResetInvalid = errors.New("password reset request invalid")

// PasswordResetRequest is a persisted, user-keyed reset record. Keeping it in
// the database means it survives restarts and works across server processes.
type PasswordResetRequest struct {
	UserID    string
	Code      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ResetStore persists password-reset requests, one active request per user.
type ResetStore struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

func NewResetStore(pool *pgxpool.Pool, ttl time.Duration) *ResetStore {
	return &ResetStore{pool: pool, ttl: ttl}
}

// Create records a reset request for the user, replacing any prior one.
func (s *ResetStore) Create(ctx context.Context, userID, code string) (*PasswordResetRequest, error) {
	now := time.Now().UTC()
	req := PasswordResetRequest{
		UserID:    userID,
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	query := `
		INSERT INTO password_reset_requests (user_id, code, issued_at, expires_at, consumed_at)
		VALUES ($1, $2, $3, $4, NULL)
		ON CONFLICT (user_id) DO UPDATE
		SET code = EXCLUDED.code,
		    issued_at = EXCLUDED.issued_at,
		    expires_at = EXCLUDED.expires_at,
		    consumed_at = NULL
	`

	if _, err := s.pool.Exec(ctx, query, req.UserID, req.Code, req.IssuedAt, req.ExpiresAt); err != nil {
		return nil, fmt.Errorf("insert password reset request: %w", err)
	}
	return &req, nil
}

// Consume atomically marks the request consumed if the code matches and the
// request has not expired. A second consume attempt fails.
func (s *ResetStore) Consume(ctx context.Context, userID, code string) error {
	query := `
		UPDATE password_reset_requests
		SET consumed_at = now()
		WHERE user_id = $1 AND code = $2 AND consumed_at IS NULL AND expires_at > now()
	`

	tag, err := s.pool.Exec(ctx, query, userID, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrResetInvalid
		}
		return fmt.Errorf("consume password reset request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrResetInvalid
	}
	return nil
}
