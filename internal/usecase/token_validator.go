package usecase

import (
	"fitting-scheduler/internal/domain/user"
	"fitting-scheduler/internal/pkg/jwt"

	"github.com/google/uuid"
)

// TokenValidator verifies identity tokens issued by the external auth
// service. This engine never issues tokens itself.
type TokenValidator interface {
	ValidateToken(token string) (uuid.UUID, user.Role, error)
}

type jwtTokenValidator struct {
	svc *jwt.Service
}

func NewTokenValidator(svc *jwt.Service) TokenValidator {
	return &jwtTokenValidator{svc: svc}
}

func (v *jwtTokenValidator) ValidateToken(token string) (uuid.UUID, user.Role, error) {
	claims, err := v.svc.ValidateToken(token)
	if err != nil {
		return uuid.Nil, "", err
	}
	role, err := user.NewRole(claims.Role)
	if err != nil {
		return uuid.Nil, "", err
	}
	return claims.UserID, role, nil
}
