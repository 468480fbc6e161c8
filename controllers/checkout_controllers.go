package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bakery-app/checkout"
	"github.com/yeremiapane/bakery-app/middlewares"
	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/services"
	"github.com/yeremiapane/bakery-app/utils"
)

type CheckoutController struct {
	Checkout *services.CheckoutService
}

func NewCheckoutController(svc *services.CheckoutService) *CheckoutController {
	return &CheckoutController{Checkout: svc}
}

func (cc *CheckoutController) GetCheckout(c *gin.Context) {
	view, err := cc.Checkout.View(c.Request.Context(), browserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Checkout", view)
}

// Begin moves the cart into the delivery step. Anonymous shoppers get 401.
func (cc *CheckoutController) Begin(c *gin.Context) {
	view, err := cc.Checkout.Begin(c.Request.Context(), browserID(c), middlewares.CurrentUser(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Checkout started", view)
}

func (cc *CheckoutController) SetDelivery(c *gin.Context) {
	var sel checkout.DeliverySelection
	if err := c.ShouldBindJSON(&sel); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	view, err := cc.Checkout.SetDelivery(c.Request.Context(), browserID(c), sel)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Delivery details saved", view)
}

// VerifyAddress geocodes the saved address and prices the delivery.
func (cc *CheckoutController) VerifyAddress(c *gin.Context) {
	calc, err := cc.Checkout.VerifyAddress(c.Request.Context(), browserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, calc.Message, calc)
}

func (cc *CheckoutController) Advance(c *gin.Context) {
	view, err := cc.Checkout.Advance(c.Request.Context(), browserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Checkout advanced", view)
}

func (cc *CheckoutController) Back(c *gin.Context) {
	view, err := cc.Checkout.Back(c.Request.Context(), browserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Checkout moved back", view)
}

// Confirm places the order. The session stays on the payment step if the
// order could not be written.
func (cc *CheckoutController) Confirm(c *gin.Context) {
	var payment checkout.PaymentSelection
	if err := c.ShouldBindJSON(&payment); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := cc.Checkout.Confirm(c.Request.Context(), browserID(c), middlewares.CurrentUser(c), payment)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order placed", order)
}

func (cc *CheckoutController) GetDates(c *gin.Context) {
	dates, err := cc.Checkout.Dates(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Available dates", dates)
}

// GetSlots -> ?date=YYYY-MM-DD&type=pickup|delivery
func (cc *CheckoutController) GetSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("date is required"))
		return
	}
	kind := models.DeliveryType(c.DefaultQuery("type", string(models.DeliveryHome)))
	if !kind.Valid() {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid delivery type"))
		return
	}

	slots, err := cc.Checkout.Slots(c.Request.Context(), date, kind)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Available time slots", slots)
}
