package memory

import (
	"context"
	"testing"

	"github.com/dvukovic/bookstore/internal/orders/ports"
)

func TestStore(t *testing.T) {
	t.Run("unknown key returns nil without error", func(t *testing.T) {
		store := NewStore()

		stored, err := store.Get(context.Background(), "missing")
		if err != nil {
			t.Fatalf("Get() failed: %v", err)
		}
		if stored != nil {
			t.Errorf("expected nil for unknown key, got %+v", stored)
		}
	})

	t.Run("saved response is returned", func(t *testing.T) {
		store := NewStore()
		response := ports.StoredResponse{StatusCode: 201, Body: []byte(`{"order":{}}`), OrderID: "order-1"}

		if err := store.Save(context.Background(), "key-1", response); err != nil {
			t.Fatalf("Save() failed: %v", err)
		}

		stored, err := store.Get(context.Background(), "key-1")
		if err != nil {
			t.Fatalf("Get() failed: %v", err)
		}
		if stored == nil || stored.StatusCode != 201 || stored.OrderID != "order-1" {
			t.Errorf("unexpected stored response: %+v", stored)
		}
	})

	t.Run("first write wins", func(t *testing.T) {
		store := NewStore()

		first := ports.StoredResponse{StatusCode: 201, OrderID: "order-1"}
		second := ports.StoredResponse{StatusCode: 201, OrderID: "order-2"}

		if err := store.Save(context.Background(), "key-1", first); err != nil {
			t.Fatalf("Save() failed: %v", err)
		}
		if err := store.Save(context.Background(), "key-1", second); err != nil {
			t.Fatalf("second Save() failed: %v", err)
		}

		stored, _ := store.Get(context.Background(), "key-1")
		if stored.OrderID != "order-1" {
			t.Errorf("expected first write retained, got %s", stored.OrderID)
		}
	})
}
