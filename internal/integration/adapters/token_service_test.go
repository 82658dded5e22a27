package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

func TestTokenService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := NewTokenService("secret", time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateAccessToken(ctx, userID, "ana@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := svc.ValidateAccessToken(ctx, token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != userID || claims.Email != "ana@example.com" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestTokenService_Rejects(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	expired, _ := NewTokenService("secret", -time.Hour).GenerateAccessToken(ctx, userID, "a@b.c")
	otherSecret, _ := NewTokenService("other", time.Hour).GenerateAccessToken(ctx, userID, "a@b.c")
	refresh, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, CustomClaims{
		Scope: "ledger:refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, CustomClaims{
		Scope:            accessScope,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer, Subject: userID.String()},
	}).SignedString([]byte("secret"))

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "expired", token: expired, wantErr: domainerror.ErrExpiredToken},
		{name: "wrong secret", token: otherSecret, wantErr: domainerror.ErrInvalidToken},
		{name: "not an access token", token: refresh, wantErr: domainerror.ErrInvalidToken},
		{name: "without expiry", token: noExpiry, wantErr: domainerror.ErrInvalidToken},
		{name: "garbage", token: "abc.def", wantErr: domainerror.ErrInvalidToken},
	}

	svc := NewTokenService("secret", time.Hour)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateAccessToken(ctx, tt.token)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTokenService_ToleratesClockSkew(t *testing.T) {
	ctx := context.Background()
	svc := NewTokenService("secret", time.Minute).(*tokenService)
	token, err := svc.GenerateAccessToken(ctx, uuid.New(), "a@b.c")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	issued := svc.now()
	svc.now = func() time.Time { return issued.Add(time.Minute + clockSkew/2) }
	if _, err := svc.ValidateAccessToken(ctx, token); err != nil {
		t.Errorf("expected a token just past expiry to pass within the skew, got %v", err)
	}

	svc.now = func() time.Time { return issued.Add(time.Minute + 2*clockSkew) }
	if _, err := svc.ValidateAccessToken(ctx, token); !errors.Is(err, domainerror.ErrExpiredToken) {
		t.Errorf("expected expiry beyond the skew, got %v", err)
	}
}
