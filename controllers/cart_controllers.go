package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bakery-app/cart"
	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/utils"
)

type CartController struct {
	Carts *cart.Service
}

func NewCartController(carts *cart.Service) *CartController {
	return &CartController{Carts: carts}
}

type cartResponse struct {
	*cart.Cart
	Count    int     `json:"count"`
	Subtotal float64 `json:"subtotal"`
}

func respondCart(c *gin.Context, message string, ct *cart.Cart) {
	utils.RespondJSON(c, http.StatusOK, message, cartResponse{Cart: ct, Count: ct.Count(), Subtotal: ct.Subtotal()})
}

func (cc *CartController) GetCart(c *gin.Context) {
	ct, err := cc.Carts.Get(c.Request.Context(), browserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCart(c, "Cart", ct)
}

func (cc *CartController) AddItem(c *gin.Context) {
	var input struct {
		ProductID string           `json:"product_id" binding:"required"`
		Quantity  int              `json:"quantity"`
		Selection models.Selection `json:"selection"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}

	ct, err := cc.Carts.Add(c.Request.Context(), browserID(c), input.ProductID, input.Selection, input.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCart(c, "Item added to cart", ct)
}

func lineIndex(c *gin.Context) (int, error) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, errors.New("invalid item index")
	}
	return index, nil
}

// UpdateItem sets the quantity of one cart line.
func (cc *CartController) UpdateItem(c *gin.Context) {
	index, err := lineIndex(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	var input struct {
		Quantity int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ct, err := cc.Carts.Update(c.Request.Context(), browserID(c), index, input.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCart(c, "Cart updated", ct)
}

func (cc *CartController) RemoveItem(c *gin.Context) {
	index, err := lineIndex(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ct, err := cc.Carts.Remove(c.Request.Context(), browserID(c), index)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCart(c, "Item removed from cart", ct)
}

func (cc *CartController) ClearCart(c *gin.Context) {
	if err := cc.Carts.Clear(c.Request.Context(), browserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart cleared", nil)
}
