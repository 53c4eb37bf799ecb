package addresses

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) FindOwned(ctx context.Context, userID, addressID string) (*Address, error) {
	query := `
		SELECT id, user_id, street, city, state, zip_code, created_at
		FROM addresses
		WHERE id = $1 AND user_id = $2
	`

	var addr Address
	err := s.pool.QueryRow(ctx, query, addressID, userID).Scan(
		&addr.ID,
		&addr.UserID,
		&addr.Street,
		&addr.City,
		&addr.State,
		&addr.ZipCode,
		&addr.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select address: %w", err)
	}

	return &addr, nil
}
