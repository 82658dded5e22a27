package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// TokenClaims identify the caller of an API request.
type TokenClaims struct {
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
}

// TokenService issues and verifies bearer access tokens. Accounts and logins
// live in another service; the ledger only needs to know who is calling.
type TokenService interface {
	GenerateAccessToken(ctx context.Context, userID uuid.UUID, email string) (string, error)

	// ValidateAccessToken returns an *error.AuthError when the token is
	// malformed, expired or not an access token.
	ValidateAccessToken(ctx context.Context, token string) (*TokenClaims, error)
}

// UserRepository loads the owner of a budget when an alert has to be
// addressed. The ledger never writes users.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}
