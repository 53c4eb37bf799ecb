//go:build integration

package postgres_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	testpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dvukovic/bookstore/internal/database"
	"github.com/dvukovic/bookstore/internal/idempotency/postgres"
	"github.com/dvukovic/bookstore/internal/orders/ports"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := testpostgres.Run(ctx,
		"postgres:16-alpine",
		testpostgres.WithDatabase("test"),
		testpostgres.WithUsername("test"),
		testpostgres.WithPassword("test"),
		testpostgres.BasicWaitStrategies(),
		testpostgres.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").WithOccurrence(2)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	projectRoot := findProjectRoot(t)
	migrationsPath := filepath.Join(projectRoot, "migrations")

	if err := database.RunMigrations(connStr, migrationsPath); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	pool, err := database.NewPool(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
	})

	return pool
}

func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

func TestStoreSaveAndGet(t *testing.T) {
	pool := setupTestDB(t)
	store := postgres.NewStore(pool)
	ctx := context.Background()

	orderID := uuid.NewString()
	response := ports.StoredResponse{
		StatusCode: 201,
		Body:       []byte(`{"order":{"status":"pending"}}`),
		OrderID:    orderID,
	}

	if err := store.Save(ctx, "test-key-1", response); err != nil {
		t.Fatalf("failed to save idempotency key: %v", err)
	}

	retrieved, err := store.Get(ctx, "test-key-1")
	if err != nil {
		t.Fatalf("failed to get idempotency key: %v", err)
	}
	if retrieved == nil {
		t.Fatal("expected response, got nil")
	}
	if retrieved.StatusCode != response.StatusCode {
		t.Errorf("expected status code %d, got %d", response.StatusCode, retrieved.StatusCode)
	}
	if string(retrieved.Body) != string(response.Body) {
		t.Errorf("expected body %s, got %s", response.Body, retrieved.Body)
	}
	if retrieved.OrderID != orderID {
		t.Errorf("expected order ID %s, got %s", orderID, retrieved.OrderID)
	}
}

func TestStoreGetMissing(t *testing.T) {
	pool := setupTestDB(t)
	store := postgres.NewStore(pool)

	retrieved, err := store.Get(context.Background(), "never-saved")
	if err != nil {
		t.Fatalf("failed to get idempotency key: %v", err)
	}
	if retrieved != nil {
		t.Errorf("expected nil for unknown key, got %+v", retrieved)
	}
}

func TestStoreSaveFirstWriteWins(t *testing.T) {
	pool := setupTestDB(t)
	store := postgres.NewStore(pool)
	ctx := context.Background()

	firstOrder := uuid.NewString()
	secondOrder := uuid.NewString()

	if err := store.Save(ctx, "test-key-1", ports.StoredResponse{StatusCode: 201, Body: []byte(`{}`), OrderID: firstOrder}); err != nil {
		t.Fatalf("failed to save idempotency key: %v", err)
	}
	if err := store.Save(ctx, "test-key-1", ports.StoredResponse{StatusCode: 201, Body: []byte(`{}`), OrderID: secondOrder}); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	retrieved, err := store.Get(ctx, "test-key-1")
	if err != nil {
		t.Fatalf("failed to get idempotency key: %v", err)
	}
	if retrieved.OrderID != firstOrder {
		t.Errorf("expected first write retained, got %s", retrieved.OrderID)
	}
}
