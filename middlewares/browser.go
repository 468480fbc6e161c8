package middlewares

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bakery-app/utils"
)

const (
	BrowserHeader = "X-Browser-ID"
	browserKey    = "browserID"
)

var browserIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

// BrowserID scopes cart, checkout and profile mirror to the calling browser.
func BrowserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(BrowserHeader)
		if id == "" {
			utils.RespondError(c, http.StatusBadRequest, errors.New("X-Browser-ID header missing"))
			c.Abort()
			return
		}
		if !browserIDPattern.MatchString(id) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid X-Browser-ID header"))
			c.Abort()
			return
		}
		c.Set(browserKey, id)
		c.Next()
	}
}

func CurrentBrowser(c *gin.Context) string {
	return c.GetString(browserKey)
}
