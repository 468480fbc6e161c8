package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bakery-app/identity"
	"github.com/yeremiapane/bakery-app/utils"
)

const (
	userKey  = "user"
	tokenKey = "token"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(p identity.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
			c.Abort()
			return
		}

		user, err := p.Verify(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, identity.ErrInvalidToken) {
				utils.ErrorLogger.Printf("Token verification failed: %v", err)
			}
			utils.RespondError(c, http.StatusUnauthorized, identity.ErrInvalidToken)
			c.Abort()
			return
		}

		c.Set(userKey, user)
		c.Set(tokenKey, token)
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present and lets
// anonymous requests through. The websocket feed passes the token as ?token=.
func OptionalAuth(p identity.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token = c.Query("token")
		}
		if token != "" {
			if user, err := p.Verify(c.Request.Context(), token); err == nil {
				c.Set(userKey, user)
				c.Set(tokenKey, token)
			}
		}
		c.Next()
	}
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
			c.Abort()
			return
		}
		if !user.Admin {
			utils.RespondError(c, http.StatusForbidden, identity.ErrNotAdmin)
			c.Abort()
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *identity.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*identity.User)
	return user
}

func CurrentToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}
