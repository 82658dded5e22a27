package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

type stubTokenService struct {
	userID uuid.UUID
	err    error
}

func (s *stubTokenService) GenerateAccessToken(ctx context.Context, userID uuid.UUID, email string) (string, error) {
	return "token", nil
}

func (s *stubTokenService) ValidateAccessToken(ctx context.Context, token string) (*adapter.TokenClaims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &adapter.TokenClaims{UserID: s.userID, Email: "ana@example.com"}, nil
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		userID, _ := GetUserIDFromContext(c)
		c.String(http.StatusOK, userID.String())
	})
	engine.GET("/", handlers...)
	return engine
}

func TestAuthenticate(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		header     string
		service    *stubTokenService
		wantStatus int
	}{
		{name: "missing header", header: "", service: &stubTokenService{userID: userID}, wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", service: &stubTokenService{userID: userID}, wantStatus: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", service: &stubTokenService{userID: userID}, wantStatus: http.StatusUnauthorized},
		{
			name:       "expired token",
			header:     "Bearer abc",
			service:    &stubTokenService{err: domainerror.NewAuthError(domainerror.ErrCodeExpiredToken, "token has expired", domainerror.ErrExpiredToken)},
			wantStatus: http.StatusUnauthorized,
		},
		{name: "valid token", header: "Bearer abc", service: &stubTokenService{userID: userID}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newEngine(NewAuthMiddleware(tt.service).Authenticate())
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantStatus == http.StatusOK && rec.Body.String() != userID.String() {
				t.Errorf("expected user id in context, got %q", rec.Body.String())
			}
		})
	}
}

func TestRateLimiter_PerUserWindow(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	service := &stubTokenService{userID: uuid.New()}
	engine := newEngine(NewAuthMiddleware(service).Authenticate(), limiter.Middleware())

	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer abc")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := do(); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, code)
		}
	}
	if code := do(); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}

	service.userID = uuid.New()
	if code := do(); code != http.StatusOK {
		t.Fatalf("another user should have its own window, got %d", code)
	}

	now = now.Add(time.Minute + time.Second)
	limiter.Cleanup()
	if len(limiter.entries) != 0 {
		t.Errorf("expected expired entries to be removed, got %d", len(limiter.entries))
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header   string
		want     string
		wantCode domainerror.AuthErrorCode
	}{
		{header: "", wantCode: domainerror.ErrCodeMissingToken},
		{header: "Basic abc", wantCode: domainerror.ErrCodeInvalidToken},
		{header: "Bearer  ", wantCode: domainerror.ErrCodeMissingToken},
		{header: "Bearer abc", want: "abc"},
	}

	for _, tt := range tests {
		token, err := bearerToken(tt.header)
		if tt.wantCode != "" {
			if err == nil || domainerror.AuthCode(err) != tt.wantCode {
				t.Errorf("bearerToken(%q): expected code %s, got %v", tt.header, tt.wantCode, err)
			}
			continue
		}
		if err != nil || token != tt.want {
			t.Errorf("bearerToken(%q) = %q, %v", tt.header, token, err)
		}
	}
}
