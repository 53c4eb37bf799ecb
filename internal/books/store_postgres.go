package books

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

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*Book, error) {
	query := `
		SELECT id, title, author, price, discounted_price, quantity, created_at, updated_at
		FROM books
		WHERE id = $1 AND deleted_at IS NULL
	`

	var book Book
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Price,
		&book.DiscountedPrice,
		&book.Quantity,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select book: %w", err)
	}

	return &book, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Book, error) {
	query := `
		SELECT id, title, author, price, discounted_price, quantity, created_at, updated_at
		FROM books
		WHERE deleted_at IS NULL
		ORDER BY title
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	var result []Book
	for rows.Next() {
		var book Book
		if err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Author,
			&book.Price,
			&book.DiscountedPrice,
			&book.Quantity,
			&book.CreatedAt,
			&book.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		result = append(result, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}

	return result, nil
}

// AdjustStockTx applies a stock delta inside the caller's transaction.
// Negative deltas are conditional: zero rows affected means the book is
// missing or the decrement would drive stock negative, and the caller must
// roll back. Positive deltas (cancellation restock) apply even to
// soft-deleted books so inventory accounting is never lost.
func AdjustStockTx(ctx context.Context, tx pgx.Tx, bookID string, delta int) error {
	var query string
	if delta < 0 {
		query = `
			UPDATE books
			SET quantity = quantity + $2, updated_at = now()
			WHERE id = $1 AND deleted_at IS NULL AND quantity >= -$2
		`
	} else {
		query = `
			UPDATE books
			SET quantity = quantity + $2, updated_at = now()
			WHERE id = $1
		`
	}

	tag, err := tx.Exec(ctx, query, bookID, delta)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if tag.RowsAffected() != 0 {
		return nil
	}

	// Distinguish a missing book from a raced-away decrement.
	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM books WHERE id = $1 AND deleted_at IS NULL)`,
		bookID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check book existence: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrInsufficientStock
}
