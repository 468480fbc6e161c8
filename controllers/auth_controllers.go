package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bakery-app/identity"
	"github.com/yeremiapane/bakery-app/middlewares"
	"github.com/yeremiapane/bakery-app/services"
	"github.com/yeremiapane/bakery-app/utils"
)

type AuthController struct {
	Identity *identity.AdminGate
	Profiles *services.ProfileService
}

func NewAuthController(gate *identity.AdminGate, profiles *services.ProfileService) *AuthController {
	return &AuthController{Identity: gate, Profiles: profiles}
}

type credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// mirrorProfile copies the account profile into the browser area so the
// checkout form can prefill without another round trip.
func (ac *AuthController) mirrorProfile(c *gin.Context, user identity.User) {
	browser := browserID(c)
	if browser == "" {
		return
	}
	profile, err := ac.Profiles.Get(c.Request.Context(), user)
	if err == nil {
		err = ac.Profiles.Mirror(c.Request.Context(), browser, profile)
	}
	if err != nil {
		utils.ErrorLogger.Printf("Failed to mirror profile of %s: %v", user.Email, err)
	}
}

// Register creates a shopper account and signs it in.
func (ac *AuthController) Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	session, err := ac.Identity.Register(c.Request.Context(), input.Email, input.Password, input.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("New account registered: %s", session.User.Email)
	ac.mirrorProfile(c, session.User)
	utils.RespondJSON(c, http.StatusCreated, "Account created", session)
}

func (ac *AuthController) Login(c *gin.Context) {
	var input credentials
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	session, err := ac.Identity.SignIn(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Login successful for %s", session.User.Email)
	ac.mirrorProfile(c, session.User)
	utils.RespondJSON(c, http.StatusOK, "Login successful", session)
}

// AdminLogin only lets the configured back-office account through.
func (ac *AuthController) AdminLogin(c *gin.Context) {
	var input credentials
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	session, err := ac.Identity.SignInAdmin(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Back-office login for %s", session.User.Email)
	utils.RespondJSON(c, http.StatusOK, "Login successful", session)
}

// Logout revokes the token and drops the browser's profile copy.
func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.Identity.SignOut(c.Request.Context(), middlewares.CurrentToken(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	if browser := browserID(c); browser != "" {
		if err := ac.Profiles.Forget(c.Request.Context(), browser); err != nil {
			utils.ErrorLogger.Printf("Failed to forget profile for browser %s: %v", browser, err)
		}
	}
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}
