package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/reports"
	"github.com/yeremiapane/bakery-app/services"
	"github.com/yeremiapane/bakery-app/utils"
)

// AdminController is the back-office. Every route sits behind RequireAdmin.
type AdminController struct {
	Catalog *services.CatalogService
	Content *services.ContentService
	Orders  *services.OrderService
	Quotes  *services.QuoteService
}

func NewAdminController(catalog *services.CatalogService, content *services.ContentService, orders *services.OrderService, quotes *services.QuoteService) *AdminController {
	return &AdminController{Catalog: catalog, Content: content, Orders: orders, Quotes: quotes}
}

// GetDashboardStats mengambil statistik untuk dashboard
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	stats, err := ac.Orders.Dashboard(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard statistics", stats)
}

// Products

func (ac *AdminController) GetProducts(c *gin.Context) {
	products, err := ac.Catalog.ListProducts(c.Request.Context(), services.ProductFilter{
		Category:        c.Query("category"),
		Query:           c.Query("q"),
		IncludeInactive: true,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of products", products)
}

func (ac *AdminController) GetProductByID(c *gin.Context) {
	product, err := ac.Catalog.GetProduct(c.Request.Context(), c.Param("id"), true)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product detail", product)
}

func (ac *AdminController) CreateProduct(c *gin.Context) {
	var input models.Product
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	product, err := ac.Catalog.CreateProduct(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Product created", product)
}

func (ac *AdminController) UpdateProduct(c *gin.Context) {
	var input models.Product
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	product, err := ac.Catalog.UpdateProduct(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product updated", product)
}

func (ac *AdminController) DeleteProduct(c *gin.Context) {
	if err := ac.Catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product deleted", nil)
}

// Categories

func (ac *AdminController) CreateCategory(c *gin.Context) {
	var input models.Category
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category, err := ac.Catalog.CreateCategory(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

func (ac *AdminController) UpdateCategory(c *gin.Context) {
	var input models.Category
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category, err := ac.Catalog.UpdateCategory(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

func (ac *AdminController) DeleteCategory(c *gin.Context) {
	if err := ac.Catalog.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category deleted", nil)
}

// Testimonials

func (ac *AdminController) GetTestimonials(c *gin.Context) {
	testimonials, err := ac.Content.Testimonials(c.Request.Context(), false)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of testimonials", testimonials)
}

func (ac *AdminController) CreateTestimonial(c *gin.Context) {
	var input models.Testimonial
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	input.ID = ""

	testimonial, err := ac.Content.SaveTestimonial(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Testimonial created", testimonial)
}

func (ac *AdminController) UpdateTestimonial(c *gin.Context) {
	var input models.Testimonial
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	input.ID = c.Param("id")

	testimonial, err := ac.Content.SaveTestimonial(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Testimonial updated", testimonial)
}

func (ac *AdminController) DeleteTestimonial(c *gin.Context) {
	if err := ac.Content.DeleteTestimonial(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Testimonial deleted", nil)
}

// Blog

func (ac *AdminController) GetPosts(c *gin.Context) {
	posts, err := ac.Content.Posts(c.Request.Context(), false)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of posts", posts)
}

func (ac *AdminController) CreatePost(c *gin.Context) {
	var input models.BlogPost
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	post, err := ac.Content.CreatePost(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Post created", post)
}

func (ac *AdminController) UpdatePost(c *gin.Context) {
	var input models.BlogPost
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	post, err := ac.Content.UpdatePost(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Post updated", post)
}

func (ac *AdminController) DeletePost(c *gin.Context) {
	if err := ac.Content.DeletePost(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Post deleted", nil)
}

func (ac *AdminController) UpdateSiteConfig(c *gin.Context) {
	var input models.SiteConfig
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	cfg, err := ac.Content.UpdateSiteConfig(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Site configuration updated", cfg)
}

// Orders

// GetOrders -> ?status=Pendente
func (ac *AdminController) GetOrders(c *gin.Context) {
	status := models.OrderStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown order status %q", status))
		return
	}

	orders, err := ac.Orders.List(c.Request.Context(), status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

func (ac *AdminController) GetOrderByID(c *gin.Context) {
	order, err := ac.Orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

func (ac *AdminController) UpdateOrderStatus(c *gin.Context) {
	var input struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := ac.Orders.UpdateStatus(c.Request.Context(), c.Param("id"), input.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

func (ac *AdminController) DeleteOrder(c *gin.Context) {
	if err := ac.Orders.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order deleted", nil)
}

// GetOrdersReport prints the (optionally filtered) order book as a PDF.
func (ac *AdminController) GetOrdersReport(c *gin.Context) {
	status := models.OrderStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		utils.RespondError(c, http.StatusBadRequest, errors.New("unknown order status"))
		return
	}

	orders, err := ac.Orders.List(c.Request.Context(), status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	site, err := ac.Content.SiteConfig(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	now := time.Now()
	pdf, err := reports.OrdersReport(orders, site, now)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=encomendas-%s.pdf", now.Format("20060102")))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (ac *AdminController) GetQuotes(c *gin.Context) {
	quotes, err := ac.Quotes.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of quote requests", quotes)
}
