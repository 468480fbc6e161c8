package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bakery-app/delivery"
	"github.com/yeremiapane/bakery-app/utils"
)

type DeliveryController struct {
	Calculator *delivery.Calculator
}

func NewDeliveryController(calculator *delivery.Calculator) *DeliveryController {
	return &DeliveryController{Calculator: calculator}
}

// Quote prices delivery to an address without touching the checkout session.
func (dc *DeliveryController) Quote(c *gin.Context) {
	var input struct {
		PostalCode string `json:"postal_code" binding:"required"`
		Street     string `json:"street"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	calc, err := dc.Calculator.Calculate(c.Request.Context(), input.PostalCode, input.Street)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, calc.Message, calc)
}
