package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bakery-app/cart"
	"github.com/yeremiapane/bakery-app/controllers"
	"github.com/yeremiapane/bakery-app/delivery"
	"github.com/yeremiapane/bakery-app/identity"
	"github.com/yeremiapane/bakery-app/middlewares"
	"github.com/yeremiapane/bakery-app/realtime"
	"github.com/yeremiapane/bakery-app/services"
)

// Dependencies is everything the HTTP layer is wired to.
type Dependencies struct {
	Identity      *identity.AdminGate
	Catalog       *services.CatalogService
	Content       *services.ContentService
	Quotes        *services.QuoteService
	Carts         *cart.Service
	Calculator    *delivery.Calculator
	Checkout      *services.CheckoutService
	Orders        *services.OrderService
	Profiles      *services.ProfileService
	Hub           *realtime.Hub
	AllowedOrigin string
	Release       bool
}

func SetupRouter(d Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders(d.Release))
	r.Use(middlewares.CORSMiddlewares(d.AllowedOrigin))
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(120, 60).RateLimit())

	// Inisialisasi controller
	authCtrl := controllers.NewAuthController(d.Identity, d.Profiles)
	catalogCtrl := controllers.NewCatalogController(d.Catalog, d.Content, d.Quotes)
	cartCtrl := controllers.NewCartController(d.Carts)
	deliveryCtrl := controllers.NewDeliveryController(d.Calculator)
	checkoutCtrl := controllers.NewCheckoutController(d.Checkout)
	accountCtrl := controllers.NewAccountController(d.Profiles, d.Orders, d.Content)
	adminCtrl := controllers.NewAdminController(d.Catalog, d.Content, d.Orders, d.Quotes)
	realtimeCtrl := controllers.NewRealtimeController(d.Hub, d.AllowedOrigin)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/products", catalogCtrl.GetProducts)
	r.GET("/products/:id", catalogCtrl.GetProductByID)
	r.POST("/products/:id/quote", catalogCtrl.RequestQuote)
	r.GET("/categories", catalogCtrl.GetCategories)
	r.GET("/testimonials", catalogCtrl.GetTestimonials)
	r.GET("/blog", catalogCtrl.GetPosts)
	r.GET("/blog/:slug", catalogCtrl.GetPostBySlug)
	r.GET("/site-config", catalogCtrl.GetSiteConfig)

	// Rate limiter untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter().RateLimit())
	{
		public.POST("/register", authCtrl.Register)
		public.POST("/login", authCtrl.Login)
		public.POST("/admin/login", authCtrl.AdminLogin)
	}

	// Real-time feed; admins pass ?token= to also receive orders
	r.GET("/ws", middlewares.OptionalAuth(d.Identity), realtimeCtrl.Feed)

	// ----------------------------------------------------------------
	//                      BROWSER-SCOPED ROUTES
	// ----------------------------------------------------------------
	browser := r.Group("/")
	browser.Use(middlewares.BrowserID(), middlewares.OptionalAuth(d.Identity))
	{
		browser.GET("/cart", cartCtrl.GetCart)
		browser.POST("/cart/items", cartCtrl.AddItem)
		browser.PATCH("/cart/items/:index", cartCtrl.UpdateItem)
		browser.DELETE("/cart/items/:index", cartCtrl.RemoveItem)
		browser.DELETE("/cart", cartCtrl.ClearCart)

		browser.POST("/delivery/quote", deliveryCtrl.Quote)

		browser.GET("/checkout", checkoutCtrl.GetCheckout)
		browser.POST("/checkout/begin", checkoutCtrl.Begin)
		browser.PUT("/checkout/delivery", checkoutCtrl.SetDelivery)
		browser.POST("/checkout/verify-address", checkoutCtrl.VerifyAddress)
		browser.POST("/checkout/advance", checkoutCtrl.Advance)
		browser.POST("/checkout/back", checkoutCtrl.Back)
		browser.POST("/checkout/confirm", checkoutCtrl.Confirm)
		browser.GET("/checkout/dates", checkoutCtrl.GetDates)
		browser.GET("/checkout/slots", checkoutCtrl.GetSlots)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	account := r.Group("/")
	account.Use(middlewares.AuthMiddleware(d.Identity))
	{
		account.POST("/logout", authCtrl.Logout)
		account.GET("/account/profile", accountCtrl.GetProfile)
		account.PUT("/account/profile", accountCtrl.UpdateProfile)
		account.GET("/account/orders", accountCtrl.GetOrders)
		account.GET("/account/orders/:id", accountCtrl.GetOrderByID)
		account.GET("/account/orders/:id/receipt", accountCtrl.GetReceipt)
	}

	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware(d.Identity), middlewares.RequireAdmin())
	{
		admin.GET("/dashboard", adminCtrl.GetDashboardStats)

		admin.GET("/products", adminCtrl.GetProducts)
		admin.POST("/products", adminCtrl.CreateProduct)
		admin.GET("/products/:id", adminCtrl.GetProductByID)
		admin.PUT("/products/:id", adminCtrl.UpdateProduct)
		admin.DELETE("/products/:id", adminCtrl.DeleteProduct)

		admin.GET("/categories", catalogCtrl.GetCategories)
		admin.POST("/categories", adminCtrl.CreateCategory)
		admin.PUT("/categories/:id", adminCtrl.UpdateCategory)
		admin.DELETE("/categories/:id", adminCtrl.DeleteCategory)

		admin.GET("/testimonials", adminCtrl.GetTestimonials)
		admin.POST("/testimonials", adminCtrl.CreateTestimonial)
		admin.PUT("/testimonials/:id", adminCtrl.UpdateTestimonial)
		admin.DELETE("/testimonials/:id", adminCtrl.DeleteTestimonial)

		admin.GET("/blog", adminCtrl.GetPosts)
		admin.POST("/blog", adminCtrl.CreatePost)
		admin.PUT("/blog/:id", adminCtrl.UpdatePost)
		admin.DELETE("/blog/:id", adminCtrl.DeletePost)

		admin.PUT("/site-config", adminCtrl.UpdateSiteConfig)

		admin.GET("/orders", adminCtrl.GetOrders)
		admin.GET("/orders/:id", adminCtrl.GetOrderByID)
		admin.PATCH("/orders/:id/status", adminCtrl.UpdateOrderStatus)
		admin.DELETE("/orders/:id", adminCtrl.DeleteOrder)
		admin.GET("/reports/orders.pdf", adminCtrl.GetOrdersReport)

		admin.GET("/quotes", adminCtrl.GetQuotes)
	}

	return r
}
