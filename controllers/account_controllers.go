package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bakery-app/middlewares"
	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/reports"
	"github.com/yeremiapane/bakery-app/services"
	"github.com/yeremiapane/bakery-app/utils"
)

// AccountController is the signed-in shopper's area.
type AccountController struct {
	Profiles *services.ProfileService
	Orders   *services.OrderService
	Content  *services.ContentService
}

func NewAccountController(profiles *services.ProfileService, orders *services.OrderService, content *services.ContentService) *AccountController {
	return &AccountController{Profiles: profiles, Orders: orders, Content: content}
}

func (ac *AccountController) GetProfile(c *gin.Context) {
	profile, err := ac.Profiles.Get(c.Request.Context(), *middlewares.CurrentUser(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", profile)
}

func (ac *AccountController) UpdateProfile(c *gin.Context) {
	var input models.CustomerProfile
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	profile, err := ac.Profiles.Update(c.Request.Context(), *middlewares.CurrentUser(c), browserID(c), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile updated", profile)
}

func (ac *AccountController) GetOrders(c *gin.Context) {
	orders, err := ac.Orders.ListForCustomer(c.Request.Context(), middlewares.CurrentUser(c).UID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

func (ac *AccountController) GetOrderByID(c *gin.Context) {
	order, err := ac.Orders.GetForCustomer(c.Request.Context(), middlewares.CurrentUser(c).UID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetReceipt streams the order receipt as a PDF download.
func (ac *AccountController) GetReceipt(c *gin.Context) {
	order, err := ac.Orders.GetForCustomer(c.Request.Context(), middlewares.CurrentUser(c).UID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	site, err := ac.Content.SiteConfig(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	pdf, err := reports.Receipt(order, site)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Receipt generated for order %s", order.ID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=recibo-%s.pdf", order.ID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
