// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/dto"
)

const bearerPrefix = "Bearer "

// Gin context keys set by Authenticate.
const (
	userIDKey    = "user_id"
	userEmailKey = "user_email"
)

// AuthMiddleware resolves the calling user from a bearer access token.
type AuthMiddleware struct {
	tokens adapter.TokenService
}

func NewAuthMiddleware(tokens adapter.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate rejects requests without a valid access token with 401 and
// stores the caller's id for the handlers that follow.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		claims, err := m.tokens.ValidateAccessToken(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(userEmailKey, claims.Email)
		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", domainerror.NewAuthError(domainerror.ErrCodeMissingToken, "Authorization header is required", domainerror.ErrMissingToken)
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", domainerror.NewAuthError(domainerror.ErrCodeInvalidToken, "Invalid authorization header format", domainerror.ErrMalformedHeader)
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return "", domainerror.NewAuthError(domainerror.ErrCodeMissingToken, "Token is required", domainerror.ErrMissingToken)
	}
	return token, nil
}

func abortUnauthorized(c *gin.Context, err error) {
	code := domainerror.AuthCode(err)
	message := "Invalid or expired token"
	if code == domainerror.ErrCodeMissingToken {
		message = "Authorization header is required"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: message,
		Code:  string(code),
	})
}

// GetUserIDFromContext returns the id stored by Authenticate.
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(userIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
