package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/openhearth/charity-backend/internal/data/aggregates"
	"github.com/openhearth/charity-backend/internal/data/repos"
	"github.com/openhearth/charity-backend/internal/domain"
	"github.com/openhearth/charity-backend/internal/platform/ctxutil"
	"github.com/openhearth/charity-backend/internal/platform/dbctx"
	"github.com/openhearth/charity-backend/internal/platform/logger"
)

// JWTClaims carries the caller identity the auth middleware restores into
// request context. Role and display name ride in the token so request
// handling never needs a user lookup.
type JWTClaims struct {
	jwt.RegisteredClaims
	DisplayName string `json:"name,omitempty"`
	Role        string `json:"role,omitempty"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	AccessTTL() time.Duration
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	jwtSecretKey string
	accessTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
) AuthService {
	return &authService{
		db:           db,
		log:          log.With("service", "AuthService"),
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
	}
}

func (as *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	const op = "auth.login"
	email = domain.NormalizeUserKey(email)
	if email == "" || password == "" {
		return "", nil, aggregates.ValidationError(op, "email and password are required")
	}

	dbc := dbctx.Context{Ctx: ctx}
	user, err := as.userRepo.GetByNormalizedEmail(dbc, email)
	if err != nil {
		// Same answer for unknown email and bad password.
		return "", nil, aggregates.ValidationError(op, "invalid credentials")
	}
	if !user.IsActive {
		return "", nil, aggregates.ForbiddenError(op, "account is deactivated")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, aggregates.ValidationError(op, "invalid credentials")
	}

	token, err := as.generateAccessToken(user)
	if err != nil {
		as.log.Error("failed to sign access token", "error", err)
		return "", nil, aggregates.Wrap(aggregates.CodeInternal, op, err)
	}
	return token, user, nil
}

func (as *authService) generateAccessToken(user *domain.User) (string, error) {
	roleName := ""
	if user.Role != nil {
		roleName = user.Role.Name
	}
	now := time.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		DisplayName: user.DisplayName(),
		Role:        roleName,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	const op = "auth.token"
	if tokenString == "" {
		return ctx, nil
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, aggregates.ValidationError(op, "unexpected signing method")
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, aggregates.Wrap(aggregates.CodeForbidden, op, err)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, aggregates.ForbiddenError(op, "invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, aggregates.ForbiddenError(op, "invalid subject in token")
	}
	rd := &ctxutil.RequestData{
		UserID:      userID,
		DisplayName: claims.DisplayName,
		Role:        claims.Role,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) AccessTTL() time.Duration { return as.accessTTL }
