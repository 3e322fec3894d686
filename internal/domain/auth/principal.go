package auth

import (
	"smart-parking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidRole      = errs.NewKind("invalid role", errs.ErrKindValidation)
	ErrMissingPrincipal = errs.NewKind("missing principal", errs.ErrKindValidation)
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// Principal is the authenticated caller on whose behalf an operation runs.
type Principal struct {
	userID uuid.UUID
	role   Role
}

func NewPrincipal(userID uuid.UUID, role string) (Principal, error) {
	if userID == uuid.Nil {
		return Principal{}, ErrMissingPrincipal
	}
	r, err := NewRole(role)
	if err != nil {
		return Principal{}, err
	}
	return Principal{userID: userID, role: r}, nil
}

func (p Principal) UserID() uuid.UUID { return p.userID }
func (p Principal) Role() Role        { return p.role }
func (p Principal) IsAdmin() bool     { return p.role == RoleAdmin }

// Actor is the audit label written to booking status logs.
func (p Principal) Actor() string {
	return p.role.String() + ":" + p.userID.String()
}

// CanAccess reports whether p may read or change a resource owned by ownerID.
func (p Principal) CanAccess(ownerID uuid.UUID) bool {
	return p.IsAdmin() || p.userID == ownerID
}
