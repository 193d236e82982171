package domain

import (
	"errors"
	"strings"
)

// Role gates privileged operations: catalog mutation, viewing all orders,
// and refunds require RoleAdmin.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

var (
	ErrEmptyEmail   = errors.New("email is required")
	ErrInvalidEmail = errors.New("email must contain '@'")
	ErrEmptyHash    = errors.New("password hash is required")
	ErrInvalidRole  = errors.New("role is invalid")
)

// User represents an account. The core trusts resolved identities; the
// password hash never leaves this context.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         Role
}

// NewUser builds a user ensuring required invariants. An empty role
// defaults to customer.
func NewUser(email, passwordHash string, role Role) (*User, error) {
	user := &User{PasswordHash: passwordHash}
	if err := user.SetEmail(email); err != nil {
		return nil, err
	}
	if err := user.SetRole(role); err != nil {
		return nil, err
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// SetEmail trims and validates the email address.
func (u *User) SetEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ErrEmptyEmail
	}
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	u.Email = email
	return nil
}

// SetRole validates the role, defaulting empty to customer.
func (u *User) SetRole(role Role) error {
	if role == "" {
		role = RoleCustomer
	}
	switch role {
	case RoleCustomer, RoleAdmin:
		u.Role = role
		return nil
	default:
		return ErrInvalidRole
	}
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Validate re-applies core invariants for persistence.
func (u *User) Validate() error {
	if err := u.SetEmail(u.Email); err != nil {
		return err
	}
	if strings.TrimSpace(u.PasswordHash) == "" {
		return ErrEmptyHash
	}
	return u.SetRole(u.Role)
}
