package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/openhearth/charity-backend/internal/data/aggregates"
	"github.com/openhearth/charity-backend/internal/domain"
	"github.com/openhearth/charity-backend/internal/platform/ctxutil"
	"github.com/openhearth/charity-backend/internal/platform/logger"
)

func testAuth(t *testing.T, secret string, ttl time.Duration) *authService {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return &authService{
		log:          log.With("service", "AuthService"),
		jwtSecretKey: secret,
		accessTTL:    ttl,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	as := testAuth(t, "test-secret", time.Hour)
	user := &domain.User{
		ID:        uuid.New(),
		UserName:  "jporter",
		FirstName: "Jane",
		LastName:  "Porter",
		Role:      &domain.Role{Name: domain.RoleAdministrator},
	}

	token, err := as.generateAccessToken(user)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	ctx, err := as.SetContextFromToken(context.Background(), token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		t.Fatalf("expected request identity in context")
	}
	if rd.UserID != user.ID {
		t.Fatalf("expected user id %s, got %s", user.ID, rd.UserID)
	}
	if rd.DisplayName != "Jane Porter" {
		t.Fatalf("expected display name, got %q", rd.DisplayName)
	}
	if rd.Role != domain.RoleAdministrator {
		t.Fatalf("expected role in claims, got %q", rd.Role)
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	signer := testAuth(t, "secret-a", time.Hour)
	verifier := testAuth(t, "secret-b", time.Hour)

	token, err := signer.generateAccessToken(&domain.User{ID: uuid.New(), UserName: "x"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := verifier.SetContextFromToken(context.Background(), token); !aggregates.IsCode(err, aggregates.CodeForbidden) {
		t.Fatalf("foreign signature must be rejected, got %v", err)
	}
}

func TestTokenExpiredRejected(t *testing.T) {
	as := testAuth(t, "test-secret", -time.Minute)
	token, err := as.generateAccessToken(&domain.User{ID: uuid.New(), UserName: "x"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := as.SetContextFromToken(context.Background(), token); !aggregates.IsCode(err, aggregates.CodeForbidden) {
		t.Fatalf("expired token must be rejected, got %v", err)
	}
}

func TestEmptyTokenLeavesContextAnonymous(t *testing.T) {
	as := testAuth(t, "test-secret", time.Hour)
	ctx, err := as.SetContextFromToken(context.Background(), "")
	if err != nil {
		t.Fatalf("empty token must not error: %v", err)
	}
	if ctxutil.GetRequestData(ctx) != nil {
		t.Fatalf("empty token must leave the context anonymous")
	}
}
