package local

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/bakery-app/identity"
	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/utils"
)

func setupProvider(t *testing.T) *Provider {
	t.Helper()
	utils.SilenceLogger()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, Migrate(db))
	return NewProvider(db, "test-secret")
}

func TestRegisterSignInVerify(t *testing.T) {
	p := setupProvider(t)
	ctx := context.Background()

	s, err := p.Register(ctx, " Ana@Example.com ", "pass123", "Ana")
	require.NoError(t, err)
	assert.NotEmpty(t, s.Token)
	assert.Equal(t, "ana@example.com", s.User.Email)

	_, err = p.Register(ctx, "ana@example.com", "another", "Ana 2")
	assert.ErrorIs(t, err, identity.ErrEmailTaken)

	signed, err := p.SignIn(ctx, "ana@example.com", "pass123")
	require.NoError(t, err)
	assert.Equal(t, s.User.UID, signed.User.UID)

	u, err := p.Verify(ctx, signed.Token)
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)
}

func TestRegisterValidation(t *testing.T) {
	p := setupProvider(t)
	ctx := context.Background()

	_, err := p.Register(ctx, "not-an-email", "pass123", "")
	assert.True(t, models.IsValidation(err))
	_, err = p.Register(ctx, "ana@example.com", "123", "")
	assert.True(t, models.IsValidation(err))
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	p := setupProvider(t)
	ctx := context.Background()
	_, err := p.Register(ctx, "ana@example.com", "pass123", "Ana")
	require.NoError(t, err)

	_, err = p.SignIn(ctx, "ana@example.com", "wrong")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
	_, err = p.SignIn(ctx, "nobody@example.com", "pass123")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

func TestSignOutBlacklistsToken(t *testing.T) {
	p := setupProvider(t)
	ctx := context.Background()
	s, err := p.Register(ctx, "ana@example.com", "pass123", "Ana")
	require.NoError(t, err)

	require.NoError(t, p.SignOut(ctx, s.Token))
	_, err = p.Verify(ctx, s.Token)
	assert.ErrorIs(t, err, identity.ErrInvalidToken)
}

func TestVerifyRejectsForeignAndExpiredTokens(t *testing.T) {
	p := setupProvider(t)
	ctx := context.Background()
	s, err := p.Register(ctx, "ana@example.com", "pass123", "Ana")
	require.NoError(t, err)

	other := NewProvider(p.db, "other-secret")
	_, err = other.Verify(ctx, s.Token)
	assert.ErrorIs(t, err, identity.ErrInvalidToken)

	expired, _, err := generateToken(p.secret, s.User.UID, s.User.Email, time.Now().Add(-48*time.Hour), tokenTTL)
	require.NoError(t, err)
	_, err = p.Verify(ctx, expired)
	assert.ErrorIs(t, err, identity.ErrInvalidToken)

	_, err = p.Verify(ctx, "garbage")
	assert.ErrorIs(t, err, identity.ErrInvalidToken)
}

func TestBlacklistPrune(t *testing.T) {
	b := newBlacklist()
	now := time.Now()
	b.add("old", now.Add(-time.Minute))
	b.add("fresh", now.Add(time.Hour))

	assert.False(t, b.contains("old", now))
	assert.True(t, b.contains("fresh", now))

	b.prune(now)
	assert.Len(t, b.tokens, 1)
}
