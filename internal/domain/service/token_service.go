package service

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"guardpost/internal/domain/entity"
)

// Claims defines the custom claims carried by access tokens.
type Claims struct {
	AccountID uuid.UUID
	Role      entity.Role
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateToken creates a signed access token for an account.
	GenerateToken(accountID uuid.UUID, role entity.Role) (string, error)

	// ValidateToken checks the validity of a token string.
	ValidateToken(tokenString string) (*Claims, error)
}
