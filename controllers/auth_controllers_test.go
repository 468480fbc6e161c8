package controllers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/bakery-app/identity"
	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/services"
	"github.com/yeremiapane/bakery-app/store"
)

func TestRegisterAndLogin(t *testing.T) {
	app := newTestApp(t)
	account := map[string]string{"name": "Ana", "email": "ana@example.com", "password": "segredo123"}

	w := app.do(t, request{method: "POST", path: "/register", body: account})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var session identity.Session
	decode(t, w, &session)
	assert.NotEmpty(t, session.Token)
	assert.False(t, session.User.Admin)

	w = app.do(t, request{method: "POST", path: "/register", body: account})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(t, request{method: "POST", path: "/login", body: map[string]string{"email": "ana@example.com", "password": "errada123"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, request{method: "POST", path: "/login", body: map[string]string{"email": "ana@example.com", "password": "segredo123"}})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &session)

	// Signing in mirrors the profile into the browser area.
	var mirrored models.CustomerProfile
	require.NoError(t, app.repos.Local.Load(context.Background(), services.ProfileKey(browser), &mirrored))
	assert.Equal(t, "ana@example.com", mirrored.Email)

	w = app.do(t, request{method: "POST", path: "/register", body: map[string]string{"name": "X", "email": "not-an-email", "password": "segredo123"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminLogin(t *testing.T) {
	app := newTestApp(t)
	app.signUp(t, "ana@example.com")
	app.signUp(t, adminEmail)

	w := app.do(t, request{method: "POST", path: "/admin/login", body: map[string]string{"email": "ana@example.com", "password": "segredo123"}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, request{method: "POST", path: "/admin/login", body: map[string]string{"email": adminEmail, "password": "segredo123"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var session identity.Session
	decode(t, w, &session)
	assert.True(t, session.User.Admin)
}

func TestLoginRateLimited(t *testing.T) {
	app := newTestApp(t)
	creds := map[string]string{"email": "ghost@example.com", "password": "segredo123"}

	for i := 0; i < 5; i++ {
		w := app.do(t, request{method: "POST", path: "/login", body: creds})
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w := app.do(t, request{method: "POST", path: "/login", body: creds})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	token := app.signUp(t, "ana@example.com")

	w := app.do(t, request{method: "PUT", path: "/account/profile", token: token, body: models.CustomerProfile{Name: "Ana Silva", PostalCode: "4480001"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(t, request{method: "POST", path: "/logout", token: token})
	require.Equal(t, http.StatusOK, w.Code)

	var mirrored models.CustomerProfile
	err := app.repos.Local.Load(context.Background(), services.ProfileKey(browser), &mirrored)
	assert.ErrorIs(t, err, store.ErrNotFound, "sign-out drops the browser copy")

	w = app.do(t, request{method: "GET", path: "/account/profile", token: token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, request{method: "POST", path: "/logout"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
