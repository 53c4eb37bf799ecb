package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dvukovic/bookstore/internal/auth"
	httpadapter "github.com/dvukovic/bookstore/internal/orders/adapters/http"
)

type mockVerifier struct {
	verifyFn func(ctx context.Context, token string) (*auth.UserRef, error)
}

func (m *mockVerifier) Verify(ctx context.Context, token string) (*auth.UserRef, error) {
	return m.verifyFn(ctx, token)
}

func TestRequireAuth(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := httpadapter.UserFrom(r.Context())
		if !ok {
			t.Error("expected user in request context")
		}
		if user.ID != "user-1" {
			t.Errorf("expected user-1, got %s", user.ID)
		}
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid bearer token passes through with user context", func(t *testing.T) {
		verifier := &mockVerifier{verifyFn: func(_ context.Context, token string) (*auth.UserRef, error) {
			if token != "good-token" {
				t.Errorf("expected bearer token extracted, got %q", token)
			}
			return &auth.UserRef{ID: "user-1", Email: "reader@example.com"}, nil
		}}

		req := httptest.NewRequest(http.MethodGet, "/v1/orders", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()

		httpadapter.RequireAuth(okHandler, verifier).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("invalid credential yields 401", func(t *testing.T) {
		verifier := &mockVerifier{verifyFn: func(context.Context, string) (*auth.UserRef, error) {
			return nil, auth.ErrInvalidCredential
		}}

		req := httptest.NewRequest(http.MethodGet, "/v1/orders", nil)
		req.Header.Set("Authorization", "Bearer expired")
		rec := httptest.NewRecorder()

		httpadapter.RequireAuth(okHandler, verifier).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("missing header yields 401", func(t *testing.T) {
		verifier := &mockVerifier{verifyFn: func(_ context.Context, token string) (*auth.UserRef, error) {
			if token != "" {
				t.Errorf("expected empty token, got %q", token)
			}
			return nil, auth.ErrInvalidCredential
		}}

		req := httptest.NewRequest(http.MethodGet, "/v1/orders", nil)
		rec := httptest.NewRecorder()

		httpadapter.RequireAuth(okHandler, verifier).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("token for vanished user yields 404", func(t *testing.T) {
		verifier := &mockVerifier{verifyFn: func(context.Context, string) (*auth.UserRef, error) {
			return nil, auth.ErrUserNotFound
		}}

		req := httptest.NewRequest(http.MethodGet, "/v1/orders", nil)
		req.Header.Set("Authorization", "Bearer orphan")
		rec := httptest.NewRecorder()

		httpadapter.RequireAuth(okHandler, verifier).ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("store failure yields 500", func(t *testing.T) {
		verifier := &mockVerifier{verifyFn: func(context.Context, string) (*auth.UserRef, error) {
			return nil, errors.New("connection reset")
		}}

		req := httptest.NewRequest(http.MethodGet, "/v1/orders", nil)
		req.Header.Set("Authorization", "Bearer whatever")
		rec := httptest.NewRecorder()

		httpadapter.RequireAuth(okHandler, verifier).ServeHTTP(rec, req)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})

	t.Run("non-bearer scheme treated as missing token", func(t *testing.T) {
		verifier := &mockVerifier{verifyFn: func(_ context.Context, token string) (*auth.UserRef, error) {
			if token != "" {
				t.Errorf("expected empty token, got %q", token)
			}
			return nil, auth.ErrInvalidCredential
		}}

		req := httptest.NewRequest(http.MethodGet, "/v1/orders", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()

		httpadapter.RequireAuth(okHandler, verifier).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})
}
