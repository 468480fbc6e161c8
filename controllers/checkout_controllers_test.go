package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/bakery-app/checkout"
	"github.com/yeremiapane/bakery-app/delivery"
	"github.com/yeremiapane/bakery-app/models"
)

type checkoutBody struct {
	Session     checkout.Session `json:"session"`
	Subtotal    float64          `json:"subtotal"`
	DeliveryFee float64          `json:"delivery_fee"`
	Total       float64          `json:"total"`
}

func (a *testApp) fillCart(t *testing.T, browserID string) {
	t.Helper()
	w := a.do(t, request{method: "POST", path: "/cart/items", browser: browserID, body: map[string]interface{}{
		"product_id": a.products["Pão de Ló"].ID,
		"quantity":   2,
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func (a *testApp) firstDate(t *testing.T) string {
	t.Helper()
	w := a.do(t, request{method: "GET", path: "/checkout/dates"})
	require.Equal(t, http.StatusOK, w.Code)
	var dates []string
	decode(t, w, &dates)
	require.NotEmpty(t, dates)
	return dates[0]
}

func homeDelivery(date, slot string) checkout.DeliverySelection {
	return checkout.DeliverySelection{
		Type:       models.DeliveryHome,
		Date:       date,
		Time:       slot,
		Street:     "Rua da Praia 1",
		PostalCode: nearPostal,
		City:       "Vila do Conde",
	}
}

func TestCheckoutRequiresLogin(t *testing.T) {
	app := newTestApp(t)
	app.fillCart(t, browser)

	w := app.do(t, request{method: "POST", path: "/checkout/begin"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, request{method: "GET", path: "/checkout"})
	require.Equal(t, http.StatusOK, w.Code)
	var view checkoutBody
	decode(t, w, &view)
	assert.Equal(t, checkout.StepCart, view.Session.Step, "a refused begin leaves the session alone")
}

func TestCheckoutEmptyCart(t *testing.T) {
	app := newTestApp(t)
	token := app.signUp(t, "ana@example.com")

	w := app.do(t, request{method: "POST", path: "/checkout/begin", token: token})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutHomeDelivery(t *testing.T) {
	app := newTestApp(t)
	token := app.signUp(t, "ana@example.com")
	app.fillCart(t, browser)

	w := app.do(t, request{method: "POST", path: "/checkout/begin", token: token})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var view checkoutBody
	decode(t, w, &view)
	assert.Equal(t, checkout.StepDelivery, view.Session.Step)

	date := app.firstDate(t)
	w = app.do(t, request{method: "PUT", path: "/checkout/delivery", token: token, body: homeDelivery(date, "10:00")})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(t, request{method: "POST", path: "/checkout/advance", token: token})
	assert.Equal(t, http.StatusBadRequest, w.Code, "address must be verified first")

	w = app.do(t, request{method: "POST", path: "/checkout/verify-address", token: token})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var calc delivery.Calculation
	decode(t, w, &calc)
	assert.Equal(t, 7.2, calc.Fee)

	w = app.do(t, request{method: "POST", path: "/checkout/advance", token: token})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &view)
	assert.Equal(t, checkout.StepCheckout, view.Session.Step)
	assert.Equal(t, 25.0, view.Subtotal)
	assert.Equal(t, 7.2, view.DeliveryFee)
	assert.Equal(t, 32.2, view.Total)

	w = app.do(t, request{method: "POST", path: "/checkout/confirm", token: token, body: checkout.PaymentSelection{Method: "Bitcoin"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, request{method: "POST", path: "/checkout/confirm", token: token, body: checkout.PaymentSelection{Method: "MB WAY", WantsInvoice: true, TaxID: "123 456 789"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order models.Order
	decode(t, w, &order)
	assert.Regexp(t, `^ORD-\d+-[0-9A-F]{4}$`, order.ID)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, 32.2, order.Total)
	assert.Equal(t, "Rua da Praia 1, Vila do Conde", order.Address)
	assert.Equal(t, "123456789", order.TaxID)
	assert.Equal(t, "ana@example.com", order.CustomerEmail)

	w = app.do(t, request{method: "GET", path: "/cart"})
	var ct cartBody
	decode(t, w, &ct)
	assert.Empty(t, ct.Items, "placing the order empties the cart")

	w = app.do(t, request{method: "GET", path: "/checkout"})
	decode(t, w, &view)
	assert.Equal(t, checkout.StepSuccess, view.Session.Step)
	assert.Equal(t, order.ID, view.Session.OrderID)

	// The delivery slot is now taken; pickup slots are not.
	w = app.do(t, request{method: "GET", path: "/checkout/slots?date=" + date})
	var slots []string
	decode(t, w, &slots)
	assert.Equal(t, []string{"11:00"}, slots)

	w = app.do(t, request{method: "GET", path: "/checkout/slots?date=" + date + "&type=pickup"})
	decode(t, w, &slots)
	assert.Equal(t, []string{"10:00", "11:00"}, slots)

	w = app.do(t, request{method: "GET", path: "/account/orders", token: token})
	require.Equal(t, http.StatusOK, w.Code)
	var orders []models.Order
	decode(t, w, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
}

func TestCheckoutTakenSlot(t *testing.T) {
	app := newTestApp(t)
	date := app.firstDate(t)

	place := func(browserID, email string) int {
		token := app.signUp(t, email)
		app.fillCart(t, browserID)
		steps := []request{
			{method: "POST", path: "/checkout/begin"},
			{method: "PUT", path: "/checkout/delivery", body: homeDelivery(date, "11:00")},
			{method: "POST", path: "/checkout/verify-address"},
		}
		for _, r := range steps {
			r.token, r.browser = token, browserID
			w := app.do(t, r)
			require.Equal(t, http.StatusOK, w.Code, r.path+": "+w.Body.String())
		}
		w := app.do(t, request{method: "POST", path: "/checkout/advance", token: token, browser: browserID})
		if w.Code != http.StatusOK {
			return w.Code
		}
		w = app.do(t, request{method: "POST", path: "/checkout/confirm", token: token, browser: browserID, body: checkout.PaymentSelection{Method: "Dinheiro"}})
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, place("browser-first-0001", "first@example.com"))
	assert.Equal(t, http.StatusBadRequest, place("browser-second-0002", "second@example.com"))
}

func TestCheckoutPickupAndBack(t *testing.T) {
	app := newTestApp(t)
	token := app.signUp(t, "ana@example.com")
	app.fillCart(t, browser)

	w := app.do(t, request{method: "POST", path: "/checkout/confirm", token: token, body: checkout.PaymentSelection{Method: "MB WAY"}})
	assert.Equal(t, http.StatusConflict, w.Code, "cannot confirm from the cart step")

	w = app.do(t, request{method: "POST", path: "/checkout/begin", token: token})
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, request{method: "PUT", path: "/checkout/delivery", token: token, body: checkout.DeliverySelection{
		Type: models.DeliveryPickup,
		Date: "2000-01-01",
		Time: "10:00",
	}})
	assert.Equal(t, http.StatusBadRequest, w.Code, "past dates are refused")

	date := app.firstDate(t)
	w = app.do(t, request{method: "PUT", path: "/checkout/delivery", token: token, body: checkout.DeliverySelection{
		Type: models.DeliveryPickup,
		Date: date,
		Time: "10:00",
	}})
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, request{method: "POST", path: "/checkout/advance", token: token})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var view checkoutBody
	decode(t, w, &view)
	assert.Zero(t, view.DeliveryFee)
	assert.Equal(t, 25.0, view.Total)

	w = app.do(t, request{method: "POST", path: "/checkout/back", token: token})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &view)
	assert.Equal(t, checkout.StepDelivery, view.Session.Step)

	w = app.do(t, request{method: "POST", path: "/checkout/back", token: token})
	require.Equal(t, http.StatusOK, w.Code)
	w = app.do(t, request{method: "POST", path: "/checkout/back", token: token})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCheckoutSlotsValidation(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, request{method: "GET", path: "/checkout/slots"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, request{method: "GET", path: "/checkout/slots?date=2026-01-01&type=drone"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
