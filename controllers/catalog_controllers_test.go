package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/services"
)

func TestGetProductsHidesInactive(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, request{method: "GET", path: "/products", browser: "-"})
	require.Equal(t, http.StatusOK, w.Code)

	var products []models.Product
	env := decode(t, w, &products)
	assert.True(t, env.Status)

	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Pão de Ló", "Bolo de Casamento", "Broa"}, names)
}

func TestGetProductsByCategory(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, request{method: "GET", path: "/products?category=P%C3%A3es", browser: "-"})
	require.Equal(t, http.StatusOK, w.Code)

	var products []models.Product
	decode(t, w, &products)
	require.Len(t, products, 1)
	assert.Equal(t, "Broa", products[0].Name)
}

func TestGetProductByID(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, request{method: "GET", path: "/products/" + app.products["Broa"].ID, browser: "-"})
	require.Equal(t, http.StatusOK, w.Code)
	var product models.Product
	decode(t, w, &product)
	assert.Equal(t, 2.0, product.Price)

	w = app.do(t, request{method: "GET", path: "/products/" + app.products["Bolo Antigo"].ID, browser: "-"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, request{method: "GET", path: "/products/nope", browser: "-"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decode(t, w, nil)
	assert.False(t, env.Status)
}

func TestGetSiteConfigDefaults(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, request{method: "GET", path: "/site-config", browser: "-"})
	require.Equal(t, http.StatusOK, w.Code)

	var cfg models.SiteConfig
	decode(t, w, &cfg)
	assert.Equal(t, "Padaria Teste", cfg.StoreName)
}

func TestRequestQuote(t *testing.T) {
	app := newTestApp(t)
	payload := map[string]interface{}{
		"name":       "Rita",
		"contact":    "rita@example.com",
		"event_date": "2026-12-12",
	}

	w := app.do(t, request{method: "POST", path: "/products/" + app.products["Bolo de Casamento"].ID + "/quote", body: payload, browser: "-"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var result services.QuoteResult
	decode(t, w, &result)
	assert.Equal(t, "Bolo de Casamento", result.Request.ProductName)
	assert.Contains(t, result.WhatsAppLink, "https://wa.me/351912345678")

	// Regular products go through the cart instead.
	w = app.do(t, request{method: "POST", path: "/products/" + app.products["Broa"].ID + "/quote", body: payload, browser: "-"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, request{method: "POST", path: "/products/" + app.products["Bolo de Casamento"].ID + "/quote", body: map[string]string{"name": "Rita"}, browser: "-"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublicContentLists(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/categories", "/testimonials", "/blog"} {
		w := app.do(t, request{method: "GET", path: path, browser: "-"})
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := app.do(t, request{method: "GET", path: "/blog/nao-existe", browser: "-"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
