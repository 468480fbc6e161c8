package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/services"
	"github.com/yeremiapane/bakery-app/utils"
)

// CatalogController serves the public storefront pages.
type CatalogController struct {
	Catalog *services.CatalogService
	Content *services.ContentService
	Quotes  *services.QuoteService
}

func NewCatalogController(catalog *services.CatalogService, content *services.ContentService, quotes *services.QuoteService) *CatalogController {
	return &CatalogController{Catalog: catalog, Content: content, Quotes: quotes}
}

// GetProducts -> ?category=&q=
func (cc *CatalogController) GetProducts(c *gin.Context) {
	products, err := cc.Catalog.ListProducts(c.Request.Context(), services.ProductFilter{
		Category: c.Query("category"),
		Query:    c.Query("q"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of products", products)
}

func (cc *CatalogController) GetProductByID(c *gin.Context) {
	product, err := cc.Catalog.GetProduct(c.Request.Context(), c.Param("id"), false)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product detail", product)
}

func (cc *CatalogController) GetCategories(c *gin.Context) {
	categories, err := cc.Catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of categories", categories)
}

func (cc *CatalogController) GetTestimonials(c *gin.Context) {
	testimonials, err := cc.Content.Testimonials(c.Request.Context(), true)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of testimonials", testimonials)
}

func (cc *CatalogController) GetPosts(c *gin.Context) {
	posts, err := cc.Content.Posts(c.Request.Context(), true)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of posts", posts)
}

func (cc *CatalogController) GetPostBySlug(c *gin.Context) {
	post, err := cc.Content.PostBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Post detail", post)
}

func (cc *CatalogController) GetSiteConfig(c *gin.Context) {
	cfg, err := cc.Content.SiteConfig(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Site configuration", cfg)
}

// RequestQuote records a price request for an Especiais product.
func (cc *CatalogController) RequestQuote(c *gin.Context) {
	var input struct {
		Name      string `json:"name" binding:"required"`
		Contact   string `json:"contact" binding:"required"`
		Message   string `json:"message"`
		EventDate string `json:"event_date"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := cc.Quotes.Request(c.Request.Context(), c.Param("id"), models.QuoteRequest{
		Name:      input.Name,
		Contact:   input.Contact,
		Message:   input.Message,
		EventDate: input.EventDate,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Quote request received", result)
}
