package domain

import (
	"context"
	"time"
)

// Role is the closed set of account roles. Capability checks dispatch on it
// exhaustively so a new role is a compile-visible change.
type Role string

const (
	RoleJobSeeker Role = "job_seeker"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
)

// Known reports whether the role is one the client understands.
func (r Role) Known() bool {
	switch r {
	case RoleJobSeeker, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

// CanModerateApplications reports whether the role may change application
// statuses. Ownership of the job stays server-enforced.
func (r Role) CanModerateApplications() bool {
	switch r {
	case RoleEmployer, RoleAdmin:
		return true
	case RoleJobSeeker:
		return false
	}
	return false
}

// User is the authenticated identity as the server reports it. It is derived
// state: always re-fetched after credential establishment, never persisted.
type User struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	Role        Role      `json:"role"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	IsVerified  bool      `json:"is_verified"`
	DateJoined  time.Time `json:"date_joined"`
}

// Credentials is the access/refresh token pair. Both are opaque bearer
// strings owned by the TokenRepository; they appear elsewhere only as
// transient in-flight values handed to the network layer.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// AuthResult is what a successful credential exchange returns: tokens plus
// the identity issued alongside them, so no extra round trip is needed.
type AuthResult struct {
	User        *User
	Credentials Credentials
}

// RegisterInput is the self-service registration payload. The role is
// validated client-side before anything is sent: admin is never
// self-assignable.
type RegisterInput struct {
	Email       string `json:"email" validate:"required,email"`
	Username    string `json:"username" validate:"required,min=3,max=150"`
	Password    string `json:"password" validate:"required,min=8"`
	Role        Role   `json:"role" validate:"required,oneof=job_seeker employer"`
	PhoneNumber string `json:"phone_number,omitempty" validate:"omitempty,valid_phone"`
}

// AuthAPI is the server's authentication surface.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
	CurrentUser(ctx context.Context) (*User, error)
}

// TokenRepository persists the credential pair across client restarts.
// Save and Clear must be atomic: credentials never persist half-updated.
type TokenRepository interface {
	Load(ctx context.Context) (*Credentials, error)
	Save(ctx context.Context, creds Credentials) error
	Clear(ctx context.Context) error
}
