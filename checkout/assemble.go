package checkout

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yeremiapane/bakery-app/cart"
	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/utils"
)

// Customer is who the order is placed for.
type Customer struct {
	ID    string
	Email string
	Name  string
	Phone string
}

// NewOrderID derives an id from the clock. The suffix keeps two orders
// placed in the same millisecond apart.
func NewOrderID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), suffix)
}

// Assemble builds the order for a confirmed session. It does not persist it.
func Assemble(c *cart.Cart, s *Session, customer Customer, now time.Time) (models.Order, error) {
	if c == nil || c.IsEmpty() {
		return models.Order{}, ErrEmptyCart
	}

	subtotal := c.Subtotal()
	fee, distance := 0.0, 0.0
	order := models.Order{
		ID:            NewOrderID(now),
		CreatedAt:     now,
		UpdatedAt:     now,
		Items:         append([]models.CartItem(nil), c.Items...),
		DeliveryType:  s.Delivery.Type,
		DeliveryDate:  s.Delivery.Date,
		DeliveryTime:  s.Delivery.Time,
		PaymentMethod: s.Payment.Method,
		Status:        models.StatusPending,
		Notes:         s.Delivery.Notes,
		CustomerID:    customer.ID,
		CustomerEmail: customer.Email,
		CustomerName:  customer.Name,
		CustomerPhone: customer.Phone,
	}
	if s.Payment.WantsInvoice {
		order.TaxID = s.Payment.TaxID
	}

	if s.Delivery.Type == models.DeliveryHome {
		if s.Calculation == nil || !s.Calculation.Verified || !s.Calculation.Available {
			return models.Order{}, models.NewValidationError("verify your address first")
		}
		fee = s.Calculation.Fee
		distance = s.Calculation.DistanceKm
		order.Address = s.Delivery.Street
		if s.Delivery.City != "" {
			order.Address += ", " + s.Delivery.City
		}
		order.PostalCode = s.Delivery.PostalCode
	}

	order.Subtotal = subtotal
	order.DeliveryFee = fee
	order.DistanceKm = distance
	order.Total = utils.SumMoney(subtotal, fee)
	return order, nil
}
