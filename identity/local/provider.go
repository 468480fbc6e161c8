// Package local keeps accounts in the application database and issues HS256 tokens.
package local

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yeremiapane/bakery-app/identity"
	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/utils"
)

const (
	tokenTTL          = 24 * time.Hour
	minPasswordLength = 6
)

type Provider struct {
	db        *gorm.DB
	secret    []byte
	blacklist *blacklist
	now       func() time.Time
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func NewProvider(db *gorm.DB, secret string) *Provider {
	return &Provider{db: db, secret: []byte(secret), blacklist: newBlacklist(), now: time.Now}
}

func (p *Provider) Register(ctx context.Context, email, password, name string) (*identity.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, models.NewValidationError("a valid email is required")
	}
	if len(password) < minPasswordLength {
		return nil, models.NewValidationError(fmt.Sprintf("password must have at least %d characters", minPasswordLength))
	}

	var count int64
	if err := p.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, identity.ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := models.User{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(name),
		Email:    email,
		Password: string(hashed),
	}
	if err := p.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("New user registered: %s", user.Email)

	return p.issue(user)
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	var user models.User
	err := p.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, identity.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, identity.ErrInvalidCredentials
	}
	return p.issue(user)
}

func (p *Provider) Verify(ctx context.Context, token string) (*identity.User, error) {
	if p.blacklist.contains(token, p.now()) {
		return nil, identity.ErrInvalidToken
	}
	claims, err := parseToken(p.secret, token)
	if err != nil {
		return nil, identity.ErrInvalidToken
	}

	var user models.User
	err = p.db.WithContext(ctx).First(&user, "id = ?", claims.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, identity.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return &identity.User{UID: user.ID, Email: user.Email, Name: user.Name}, nil
}

// SignOut blacklists the token until its own expiry.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	claims, err := parseToken(p.secret, token)
	if err != nil {
		return identity.ErrInvalidToken
	}
	now := p.now()
	p.blacklist.prune(now)
	p.blacklist.add(token, claims.ExpiresAt.Time)
	return nil
}

func (p *Provider) issue(user models.User) (*identity.Session, error) {
	token, expires, err := generateToken(p.secret, user.ID, user.Email, p.now(), tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &identity.Session{
		Token:     token,
		ExpiresAt: expires,
		User:      identity.User{UID: user.ID, Email: user.Email, Name: user.Name},
	}, nil
}
