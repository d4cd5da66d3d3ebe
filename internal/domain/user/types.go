package user

import "errors"

var ErrInvalidRole = errors.New("invalid role")

// Role is the verified caller role carried in the identity token. The engine
// never derives roles itself; it trusts the identity service that signed them.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleOwner    Role = "owner"
	RoleAdmin    Role = "admin"
)

func NewRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleOwner, RoleAdmin:
		return true
	default:
		return false
	}
}
