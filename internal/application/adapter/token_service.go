package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/quickmate/backend/internal/domain/entity"
)

// AccessToken is a signed bearer token with its expiry.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenClaims represents the claims contained in a JWT token.
type TokenClaims struct {
	UserID    uuid.UUID
	Email     string
	Role      entity.Role
	ExpiresAt time.Time
}

// TokenService defines the interface for JWT token operations.
type TokenService interface {
	// GenerateAccessToken signs a token for the given user.
	GenerateAccessToken(ctx context.Context, user *entity.User) (*AccessToken, error)

	// ValidateAccessToken validates an access token and returns its claims.
	ValidateAccessToken(ctx context.Context, token string) (*TokenClaims, error)
}
