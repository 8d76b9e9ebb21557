package service

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/assignment-organizer/internal/models"
	appErrors "github.com/noah-isme/assignment-organizer/pkg/errors"
)

type identityUserRepository interface {
	Upsert(ctx context.Context, user *models.User) error
}

// IdentityService turns bearer tokens from the identity provider into callers
// and keeps the local user directory in sync for email resolution.
type IdentityService struct {
	users  identityUserRepository
	secret []byte
	logger *zap.Logger
}

// NewIdentityService constructs an IdentityService.
func NewIdentityService(users identityUserRepository, secret string, logger *zap.Logger) *IdentityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityService{users: users, secret: []byte(secret), logger: logger}
}

// ValidateToken parses and verifies an HS256 access token.
func (s *IdentityService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// Authenticate validates the token and records the caller's email.
func (s *IdentityService) Authenticate(ctx context.Context, tokenString string) (*models.JWTClaims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if s.users != nil {
		user := &models.User{ID: claims.UserID, Username: claims.Username, Email: claims.Email}
		if err := s.users.Upsert(ctx, user); err != nil {
			s.logger.Error("failed to sync identity", zap.Int64("user_id", claims.UserID), zap.Error(err))
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sync identity")
		}
	}
	return claims, nil
}
