package reports

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/bakery-app/models"
)

var site = models.SiteConfig{StoreName: "Padaria São João", Address: "Rua de Cedofeita, Porto", Phone: "912 345 678"}

func sampleOrder() models.Order {
	return models.Order{
		ID:            "ORD-1760000000000-AB12",
		CreatedAt:     time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC),
		CustomerName:  "Ana Conceição",
		CustomerEmail: "ana@example.com",
		DeliveryType:  models.DeliveryHome,
		DeliveryDate:  "2026-10-16",
		DeliveryTime:  "10:00",
		Address:       "Rua A 1, Porto",
		PostalCode:    "4000-123",
		PaymentMethod: "Transferência Bancária",
		Status:        models.StatusPending,
		TaxID:         "123456789",
		Items: []models.CartItem{
			{Product: models.Product{Name: "Pão de Ló"}, Selection: models.Selection{Dose: models.DoseHalf}, Quantity: 1, UnitPrice: 7},
			{Product: models.Product{Name: "Broa"}, Quantity: 2, UnitPrice: 2.5},
		},
		Subtotal:    12,
		DeliveryFee: 7.2,
		Total:       19.2,
	}
}

func TestReceipt(t *testing.T) {
	pdf, err := Receipt(sampleOrder(), site)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}

func TestOrdersReport(t *testing.T) {
	orders := []models.Order{sampleOrder(), sampleOrder()}
	orders[1].ID = "ORD-2"
	orders[1].DeliveryType = models.DeliveryPickup

	pdf, err := OrdersReport(orders, site, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))

	empty, err := OrdersReport(nil, site, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, empty)
}

func TestLabels(t *testing.T) {
	o := sampleOrder()
	assert.Equal(t, "Pão de Ló (meia dose)", itemLabel(o.Items[0]))
	assert.Contains(t, deliveryLabel(o), "4000-123")

	o.DeliveryType = models.DeliveryPickup
	assert.Equal(t, "Levantamento 2026-10-16 10:00", deliveryLabel(o))
}
