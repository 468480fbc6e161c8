package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bakery-app/checkout"
	"github.com/yeremiapane/bakery-app/identity"
	"github.com/yeremiapane/bakery-app/middlewares"
	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/store"
	"github.com/yeremiapane/bakery-app/utils"
)

var errInternal = errors.New("something went wrong, please try again")

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case models.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, checkout.ErrLoginRequired),
		errors.Is(err, identity.ErrInvalidToken),
		errors.Is(err, identity.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, identity.ErrNotAdmin):
		return http.StatusForbidden
	case errors.Is(err, checkout.ErrInvalidTransition),
		errors.Is(err, identity.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, identity.ErrUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// respondServiceError answers with the mapped status. Unexpected failures are
// logged and hidden behind a generic message.
func respondServiceError(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		utils.ErrorLogger.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.RespondError(c, code, errInternal)
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondError(c, code, errors.New("not found"))
		return
	}
	utils.RespondError(c, code, err)
}

// browserID is the X-Browser-ID of the request, set by the BrowserID
// middleware or read directly on routes where it is optional.
func browserID(c *gin.Context) string {
	if id := middlewares.CurrentBrowser(c); id != "" {
		return id
	}
	return c.GetHeader(middlewares.BrowserHeader)
}
