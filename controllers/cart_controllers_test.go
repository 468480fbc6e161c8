package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/bakery-app/models"
)

type cartBody struct {
	Items    []models.CartItem `json:"items"`
	Count    int               `json:"count"`
	Subtotal float64           `json:"subtotal"`
}

func TestCartRequiresBrowserID(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, request{method: "GET", path: "/cart", browser: "-"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, request{method: "GET", path: "/cart", browser: "bad id!"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartLifecycle(t *testing.T) {
	app := newTestApp(t)
	add := func(name string, qty int) {
		w := app.do(t, request{method: "POST", path: "/cart/items", body: map[string]interface{}{
			"product_id": app.products[name].ID,
			"quantity":   qty,
		}})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w := app.do(t, request{method: "GET", path: "/cart"})
	require.Equal(t, http.StatusOK, w.Code)
	var ct cartBody
	decode(t, w, &ct)
	assert.Empty(t, ct.Items)

	add("Pão de Ló", 1)
	add("Broa", 3)
	add("Pão de Ló", 1)

	w = app.do(t, request{method: "GET", path: "/cart"})
	decode(t, w, &ct)
	require.Len(t, ct.Items, 2, "same product and selection merge into one line")
	assert.Equal(t, 5, ct.Count)
	assert.Equal(t, 31.0, ct.Subtotal)

	w = app.do(t, request{method: "PATCH", path: "/cart/items/1", body: map[string]int{"quantity": 1}})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &ct)
	assert.Equal(t, 27.0, ct.Subtotal)

	w = app.do(t, request{method: "DELETE", path: "/cart/items/5"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, request{method: "DELETE", path: "/cart/items/x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, request{method: "DELETE", path: "/cart/items/0"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &ct)
	require.Len(t, ct.Items, 1)
	assert.Equal(t, "Broa", ct.Items[0].Product.Name)

	// Another browser has its own cart.
	w = app.do(t, request{method: "GET", path: "/cart", browser: "browser-test-0002"})
	decode(t, w, &ct)
	assert.Empty(t, ct.Items)

	w = app.do(t, request{method: "DELETE", path: "/cart"})
	require.Equal(t, http.StatusOK, w.Code)
	w = app.do(t, request{method: "GET", path: "/cart"})
	decode(t, w, &ct)
	assert.Empty(t, ct.Items)
}

func TestCartRejectsInvalidItems(t *testing.T) {
	app := newTestApp(t)

	cases := map[string]map[string]interface{}{
		"quote only": {"product_id": app.products["Bolo de Casamento"].ID},
		"negative":   {"product_id": app.products["Broa"].ID, "quantity": -1},
		"missing id": {"quantity": 1},
	}
	for name, body := range cases {
		w := app.do(t, request{method: "POST", path: "/cart/items", body: body})
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}

	w := app.do(t, request{method: "POST", path: "/cart/items", body: map[string]interface{}{"product_id": app.products["Bolo Antigo"].ID}})
	assert.NotEqual(t, http.StatusOK, w.Code, "inactive products cannot be added")
}
