// Package identity signs shoppers and the shop owner in and out. Accounts live
// with an external provider; the back-office is reserved for one address.
package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yeremiapane/bakery-app/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrNotAdmin           = errors.New("this account has no access to the back-office")
	// ErrUnavailable wraps failures talking to the provider itself.
	ErrUnavailable = errors.New("sign-in service unavailable, please try again")
)

type User struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Admin bool   `json:"admin"`
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

type Provider interface {
	Register(ctx context.Context, email, password, name string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	Verify(ctx context.Context, token string) (*User, error)
	SignOut(ctx context.Context, token string) error
}

// AdminGate wraps a Provider and marks the configured admin address. It is a
// Provider itself, so middleware sees the Admin flag on every verified user.
type AdminGate struct {
	Provider
	adminEmail string
}

func NewAdminGate(p Provider, adminEmail string) *AdminGate {
	return &AdminGate{Provider: p, adminEmail: strings.ToLower(strings.TrimSpace(adminEmail))}
}

func (g *AdminGate) IsAdmin(email string) bool {
	return g.adminEmail != "" && strings.EqualFold(strings.TrimSpace(email), g.adminEmail)
}

func (g *AdminGate) Register(ctx context.Context, email, password, name string) (*Session, error) {
	s, err := g.Provider.Register(ctx, email, password, name)
	if err != nil {
		return nil, err
	}
	s.User.Admin = g.IsAdmin(s.User.Email)
	return s, nil
}

func (g *AdminGate) SignIn(ctx context.Context, email, password string) (*Session, error) {
	s, err := g.Provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.User.Admin = g.IsAdmin(s.User.Email)
	return s, nil
}

// SignInAdmin signs in and immediately signs back out anyone who is not the admin.
func (g *AdminGate) SignInAdmin(ctx context.Context, email, password string) (*Session, error) {
	s, err := g.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !s.User.Admin {
		if err := g.Provider.SignOut(ctx, s.Token); err != nil {
			utils.ErrorLogger.Printf("Failed to sign out non-admin %s: %v", s.User.Email, err)
		}
		utils.InfoLogger.Printf("Rejected back-office sign-in for %s", s.User.Email)
		return nil, ErrNotAdmin
	}
	return s, nil
}

func (g *AdminGate) Verify(ctx context.Context, token string) (*User, error) {
	u, err := g.Provider.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	u.Admin = g.IsAdmin(u.Email)
	return u, nil
}
