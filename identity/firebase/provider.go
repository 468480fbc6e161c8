// Package firebase signs users in against Firebase Authentication. The admin
// SDK verifies and revokes tokens; password sign-in goes through the Identity
// Toolkit REST API because the admin SDK cannot check passwords.
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/yeremiapane/bakery-app/identity"
	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/utils"
)

const DefaultSignInURL = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// authClient is the part of *auth.Client the provider uses.
type authClient interface {
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

type Provider struct {
	auth       authClient
	apiKey     string
	signInURL  string
	httpClient *http.Client
}

// NewAuthClient builds the admin SDK client from a project id and an optional
// service-account file.
func NewAuthClient(ctx context.Context, projectID, credentialsFile string) (*auth.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	return client, nil
}

func NewProvider(client authClient, apiKey string) *Provider {
	return &Provider{
		auth:       client,
		apiKey:     apiKey,
		signInURL:  DefaultSignInURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithSignInURL points password sign-in at another endpoint (emulator, tests).
func (p *Provider) WithSignInURL(url string, client *http.Client) *Provider {
	p.signInURL = url
	if client != nil {
		p.httpClient = client
	}
	return p
}

func (p *Provider) Register(ctx context.Context, email, password, name string) (*identity.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, models.NewValidationError("email and password are required")
	}
	params := (&auth.UserToCreate{}).Email(email).Password(password)
	if name = strings.TrimSpace(name); name != "" {
		params = params.DisplayName(name)
	}
	if _, err := p.auth.CreateUser(ctx, params); err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return nil, identity.ErrEmailTaken
		}
		return nil, fmt.Errorf("%w: %v", identity.ErrUnavailable, err)
	}
	utils.InfoLogger.Printf("New user registered: %s", email)
	return p.SignIn(ctx, email, password)
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	IDToken     string `json:"idToken"`
	Email       string `json:"email"`
	LocalID     string `json:"localId"`
	DisplayName string `json:"displayName"`
	ExpiresIn   string `json:"expiresIn"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	body, err := json.Marshal(signInRequest{Email: strings.TrimSpace(email), Password: password, ReturnSecureToken: true})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.signInURL+"?key="+p.apiKey, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", identity.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var fail errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&fail)
		switch {
		case strings.HasPrefix(fail.Error.Message, "INVALID_PASSWORD"),
			strings.HasPrefix(fail.Error.Message, "EMAIL_NOT_FOUND"),
			strings.HasPrefix(fail.Error.Message, "INVALID_LOGIN_CREDENTIALS"),
			strings.HasPrefix(fail.Error.Message, "INVALID_EMAIL"),
			strings.HasPrefix(fail.Error.Message, "USER_DISABLED"):
			return nil, identity.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: sign-in returned %d %s", identity.ErrUnavailable, resp.StatusCode, fail.Error.Message)
	}

	var ok signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&ok); err != nil {
		return nil, fmt.Errorf("%w: decode sign-in response: %v", identity.ErrUnavailable, err)
	}
	seconds, _ := strconv.Atoi(ok.ExpiresIn)
	if seconds == 0 {
		seconds = 3600
	}
	return &identity.Session{
		Token:     ok.IDToken,
		ExpiresAt: time.Now().Add(time.Duration(seconds) * time.Second),
		User:      identity.User{UID: ok.LocalID, Email: strings.ToLower(ok.Email), Name: ok.DisplayName},
	}, nil
}

func (p *Provider) Verify(ctx context.Context, token string) (*identity.User, error) {
	tok, err := p.auth.VerifyIDTokenAndCheckRevoked(ctx, token)
	if err != nil {
		return nil, identity.ErrInvalidToken
	}
	user := &identity.User{UID: tok.UID}
	if email, ok := tok.Claims["email"].(string); ok {
		user.Email = strings.ToLower(email)
	}
	if name, ok := tok.Claims["name"].(string); ok {
		user.Name = name
	}
	if user.Email == "" {
		record, err := p.auth.GetUser(ctx, tok.UID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", identity.ErrUnavailable, err)
		}
		user.Email = strings.ToLower(record.Email)
		user.Name = record.DisplayName
	}
	return user, nil
}

// SignOut revokes every refresh token of the user; the ID token then fails
// the revocation check in Verify.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	tok, err := p.auth.VerifyIDTokenAndCheckRevoked(ctx, token)
	if err != nil {
		return identity.ErrInvalidToken
	}
	if err := p.auth.RevokeRefreshTokens(ctx, tok.UID); err != nil {
		return fmt.Errorf("%w: %v", identity.ErrUnavailable, err)
	}
	return nil
}
