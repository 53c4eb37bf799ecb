package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dvukovic/bookstore/internal/books"
	"github.com/dvukovic/bookstore/internal/orders/domain"
	"github.com/dvukovic/bookstore/internal/orders/ports"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const orderColumns = `id, user_id, book_id, address_id, quantity, price_at_purchase, total_price, status, created_at, updated_at`

// CreateWithStockDecrement inserts the order and decrements the book's stock
// in one transaction. The decrement is conditional on sufficient stock and is
// applied atomically relative to other writers, so two concurrent orders can
// never together drive stock negative.
func (r *Repository) CreateWithStockDecrement(ctx context.Context, order domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	insert := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = tx.Exec(ctx, insert,
		order.ID,
		order.UserID,
		order.BookID,
		order.AddressID,
		order.Quantity,
		order.PriceAtPurchase,
		order.TotalPrice,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if err := books.AdjustStockTx(ctx, tx, order.BookID, -order.Quantity); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order creation: %w", err)
	}

	return nil
}

func (r *Repository) GetOwned(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1 AND user_id = $2
	`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, orderID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	return order, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus transitions an owned pending order to the target status. The
// row is locked for the duration of the transaction; a cancellation restores
// the consumed stock before commit, serialized against concurrent decrements
// on the same book.
func (r *Repository) UpdateStatus(ctx context.Context, userID, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	lock := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1 AND user_id = $2
		FOR UPDATE
	`

	order, err := scanOrder(tx.QueryRow(ctx, lock, orderID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("lock order: %w", err)
	}

	if order.Status != domain.StatusPending {
		return nil, ports.ErrNotPending
	}

	now := time.Now().UTC()
	update := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	if _, err := tx.Exec(ctx, update, status, now, orderID); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	if status == domain.StatusCancelled {
		if err := books.AdjustStockTx(ctx, tx, order.BookID, order.Quantity); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit status update: %w", err)
	}

	order.Status = status
	order.UpdatedAt = now
	return order, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.BookID,
		&order.AddressID,
		&order.Quantity,
		&order.PriceAtPurchase,
		&order.TotalPrice,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}
