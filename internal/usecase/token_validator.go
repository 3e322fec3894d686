package usecase

import (
	"smart-parking/internal/domain/auth"
	"smart-parking/internal/pkg/jwt"
)

// TokenValidator turns a bearer token into the caller's principal
type TokenValidator interface {
	ValidateToken(tokenString string) (auth.Principal, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (auth.Principal, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return auth.Principal{}, err
	}

	return auth.NewPrincipal(claims.UserID, claims.Role)
}
