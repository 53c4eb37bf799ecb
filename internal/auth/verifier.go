package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dvukovic/bookstore/internal/users"
)

var (
	// ErrInvalidCredential is returned for expired, malformed, or unsigned
	// tokens. Surfaced as 401: the caller must re-authenticate.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrUserNotFound is returned when a structurally valid token references
	// a user that no longer exists. Surfaced as 404.
	ErrUserNotFound = errors.New("user not found")
)

// UserRef identifies the authenticated user for downstream operations.
type UserRef struct {
	ID    string
	Email string
}

// Verifier resolves a bearer credential to a persisted user.
type Verifier interface {
	Verify(ctx context.Context, token string) (*UserRef, error)
}

// JWTVerifier validates HS256 bearer tokens and resolves the subject against
// the user store.
type JWTVerifier struct {
	secret []byte
	users  users.Store
}

func NewJWTVerifier(secret []byte, store users.Store) *JWTVerifier {
	return &JWTVerifier{secret: secret, users: store}
}

func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (*UserRef, error) {
	if tokenString == "" {
		return nil, ErrInvalidCredential
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredential
	}

	if claims.Subject == "" {
		return nil, ErrInvalidCredential
	}

	user, err := v.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	return &UserRef{ID: user.ID, Email: user.Email}, nil
}

// IssueToken signs a token for the given user id. Used by tests and tooling;
// login itself lives in the user service.
func IssueToken(secret []byte, claims jwt.RegisteredClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
