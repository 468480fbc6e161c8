package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/bakery-app/cart"
	"github.com/yeremiapane/bakery-app/checkout"
	"github.com/yeremiapane/bakery-app/delivery"
	"github.com/yeremiapane/bakery-app/identity"
	"github.com/yeremiapane/bakery-app/identity/local"
	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/realtime"
	"github.com/yeremiapane/bakery-app/router"
	"github.com/yeremiapane/bakery-app/services"
	"github.com/yeremiapane/bakery-app/utils"
)

const (
	adminEmail = "dona@padaria.pt"
	browser    = "browser-test-0001"

	nearPostal = "4480-001" // about 15 km away
	farPostal  = "1000-001"
)

var shop = delivery.Point{Lat: 41.1579, Lon: -8.6291}

// fakeResolver answers from a fixed table instead of calling a geocoder.
type fakeResolver struct{}

func (fakeResolver) Resolve(ctx context.Context, postal, street string) (delivery.Resolution, error) {
	code, err := delivery.NormalizePostalCode(postal)
	if err != nil {
		return delivery.Resolution{}, err
	}
	switch code {
	case nearPostal:
		return delivery.Resolution{Found: true, Point: delivery.Point{Lat: 41.2929, Lon: -8.6291}, DisplayName: "Vila do Conde"}, nil
	case farPostal:
		return delivery.Resolution{Found: true, Point: delivery.Point{Lat: 38.7223, Lon: -9.1393}, DisplayName: "Lisboa"}, nil
	}
	return delivery.Resolution{Reason: delivery.ReasonNotFound}, nil
}

type testApp struct {
	router   *gin.Engine
	gate     *identity.AdminGate
	repos    *services.Repositories
	catalog  *services.CatalogService
	content  *services.ContentService
	orders   *services.OrderService
	hub      *realtime.Hub
	products map[string]models.Product
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	utils.SilenceLogger()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, local.Migrate(db))

	app := &testApp{repos: services.NewMemoryRepositories(), hub: realtime.NewHub()}
	app.gate = identity.NewAdminGate(local.NewProvider(db, "test-secret"), adminEmail)
	carts := cart.NewService(app.repos.Local, app.repos.Products, models.PriceMultipliers{HalfDose: 0.6, Frozen: 0.9})
	calculator := delivery.NewCalculator(fakeResolver{}, shop, delivery.DefaultFeePolicy())
	app.catalog = services.NewCatalogService(app.repos)
	app.content = services.NewContentService(app.repos, models.SiteConfig{ID: models.SiteConfigID, StoreName: "Padaria Teste", WhatsApp: "912345678"})
	app.orders = services.NewOrderService(app.repos, carts)
	profiles := services.NewProfileService(app.repos)
	quotes := services.NewQuoteService(app.repos, app.content)
	checkoutSvc := services.NewCheckoutService(services.CheckoutDeps{
		Repos:      app.repos,
		Carts:      carts,
		Calculator: calculator,
		Orders:     app.orders,
		Content:    app.content,
		Profiles:   profiles,
		// Never closed, so the first offered date is always tomorrow.
		Calendar:  checkout.Calendar{ClosedWeekday: time.Weekday(-1), HorizonDays: 30},
		TimeSlots: []string{"10:00", "11:00"},
	})

	app.router = router.SetupRouter(router.Dependencies{
		Identity:      app.gate,
		Catalog:       app.catalog,
		Content:       app.content,
		Quotes:        quotes,
		Carts:         carts,
		Calculator:    calculator,
		Checkout:      checkoutSvc,
		Orders:        app.orders,
		Profiles:      profiles,
		Hub:           app.hub,
		AllowedOrigin: "*",
	})
	app.seedCatalog(t)
	return app
}

func (a *testApp) seedCatalog(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	for _, name := range []string{"Bolos", "Pães", models.CategorySpecials} {
		_, err := a.catalog.CreateCategory(ctx, models.Category{Name: name})
		require.NoError(t, err)
	}
	a.products = map[string]models.Product{}
	for _, p := range []models.Product{
		{Name: "Pão de Ló", Price: 12.5, Category: "Bolos", Active: true},
		{Name: "Broa", Price: 2, Category: "Pães", Active: true},
		{Name: "Bolo Antigo", Price: 8, Category: "Bolos", Active: false},
		{Name: "Bolo de Casamento", Category: models.CategorySpecials, Active: true},
	} {
		saved, err := a.catalog.CreateProduct(ctx, p)
		require.NoError(t, err)
		a.products[saved.Name] = saved
	}
}

// signUp registers an account directly with the provider and returns its token.
func (a *testApp) signUp(t *testing.T, email string) string {
	t.Helper()
	session, err := a.gate.Register(context.Background(), email, "segredo123", "Cliente")
	require.NoError(t, err)
	return session.Token
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type request struct {
	method string
	path   string
	body   interface{}
	token  string
	// browser defaults to the shared test browser; "-" sends no header.
	browser string
}

func (a *testApp) do(t *testing.T, r request) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if r.body != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(r.body))
	}
	req, err := http.NewRequest(r.method, r.path, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	switch r.browser {
	case "":
		req.Header.Set("X-Browser-ID", browser)
	case "-":
	default:
		req.Header.Set("X-Browser-ID", r.browser)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// decode checks the envelope and unmarshals its data into out (when not nil).
func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out), string(env.Data))
	}
	return env
}
