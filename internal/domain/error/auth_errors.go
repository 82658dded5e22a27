package error

import "errors"

// Authentication domain errors.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrMissingToken    = errors.New("bearer token is required")
	ErrMalformedHeader = errors.New("authorization header must use the Bearer scheme")
	ErrInvalidToken    = errors.New("invalid token")
	ErrExpiredToken    = errors.New("token has expired")
)

// AuthErrorCode defines error codes for authentication errors.
// Format: AUTH-XXYYYY where XX is category and YYYY is specific error.
type AuthErrorCode string

const (
	// Caller errors (02XXXX)
	ErrCodeUserNotFound AuthErrorCode = "AUTH-020002"
	ErrCodeRateLimited  AuthErrorCode = "AUTH-020003"

	// Token errors (03XXXX)
	ErrCodeInvalidToken  AuthErrorCode = "AUTH-030001"
	ErrCodeExpiredToken  AuthErrorCode = "AUTH-030002"
	ErrCodeMissingToken  AuthErrorCode = "AUTH-030003"
	ErrCodeInvalidUserID AuthErrorCode = "AUTH-030004"
)

// AuthError is returned when a caller cannot be identified.
type AuthError struct {
	Code    AuthErrorCode
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError creates a new AuthError with the given code and message.
func NewAuthError(code AuthErrorCode, message string, err error) *AuthError {
	return &AuthError{Code: code, Message: message, Err: err}
}

// AuthCode returns the code carried by err, or ErrCodeInvalidToken when err
// is not an AuthError.
func AuthCode(err error) AuthErrorCode {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Code
	}
	return ErrCodeInvalidToken
}
