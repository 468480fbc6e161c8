package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/bakery-app/utils"
)

func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		fields := logrus.Fields{
			"method":  c.Request.Method,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
			"path":    path,
		}
		if browser := CurrentBrowser(c); browser != "" {
			fields["browser"] = browser
		}

		entry := utils.InfoLogger.WithFields(fields)
		if len(c.Errors) > 0 {
			utils.ErrorLogger.WithFields(fields).Error(c.Errors.String())
			return
		}
		entry.Info("request")
	}
}
