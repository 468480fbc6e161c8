// Package checkout sequences a browser through cart review, delivery
// selection, payment and confirmation, and assembles the resulting order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/yeremiapane/bakery-app/delivery"
	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/store"
)

type Step string

const (
	StepCart     Step = "cart"
	StepDelivery Step = "delivery"
	StepCheckout Step = "checkout"
	StepSuccess  Step = "success"
)

var (
	// ErrLoginRequired diverts the shopper to sign-in; the session does not move.
	ErrLoginRequired     = errors.New("please sign in to continue to checkout")
	ErrEmptyCart         = models.NewValidationError("your cart is empty")
	ErrInvalidTransition = errors.New("that checkout step is not available from here")
)

type DeliverySelection struct {
	Type       models.DeliveryType `json:"type"`
	Date       string              `json:"date"`
	Time       string              `json:"time"`
	Street     string              `json:"street,omitempty"`
	PostalCode string              `json:"postal_code,omitempty"`
	City       string              `json:"city,omitempty"`
	Notes      string              `json:"notes,omitempty"`
}

type PaymentSelection struct {
	Method       string `json:"method"`
	WantsInvoice bool   `json:"wants_invoice"`
	TaxID        string `json:"tax_id,omitempty"`
}

// Session is one browser's progress through checkout.
type Session struct {
	Step        Step                  `json:"step"`
	Delivery    DeliverySelection     `json:"delivery"`
	Calculation *delivery.Calculation `json:"calculation,omitempty"`
	Payment     PaymentSelection      `json:"payment"`
	OrderID     string                `json:"order_id,omitempty"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

func NewSession() *Session {
	return &Session{Step: StepCart, Delivery: DeliverySelection{Type: models.DeliveryPickup}}
}

// Begin moves cart -> delivery. A finished session starts over.
func (s *Session) Begin(userID string, cartItems int) error {
	if s.Step == StepSuccess {
		*s = *NewSession()
	}
	if s.Step != StepCart {
		return ErrInvalidTransition
	}
	if userID == "" {
		return ErrLoginRequired
	}
	if cartItems == 0 {
		return ErrEmptyCart
	}
	s.Step = StepDelivery
	return nil
}

// SetDelivery records the shopper's choices. Changing the address or switching
// to pickup drops the previous fee calculation.
func (s *Session) SetDelivery(sel DeliverySelection) error {
	if s.Step != StepDelivery {
		return ErrInvalidTransition
	}
	if sel.Type == "" {
		sel.Type = models.DeliveryPickup
	}
	if !sel.Type.Valid() {
		return models.NewValidationError(fmt.Sprintf("unknown delivery type %q", sel.Type))
	}
	sel.Street = strings.TrimSpace(sel.Street)
	sel.PostalCode = strings.TrimSpace(sel.PostalCode)
	sel.City = strings.TrimSpace(sel.City)
	if sel.Type == models.DeliveryPickup {
		sel.Street, sel.PostalCode, sel.City = "", "", ""
	}

	prev := s.Delivery
	if sel.Type == models.DeliveryPickup || sel.Street != prev.Street || sel.PostalCode != prev.PostalCode {
		s.Calculation = nil
	}
	s.Delivery = sel
	return nil
}

// RecordCalculation stores the fee quote for the current address.
func (s *Session) RecordCalculation(calc delivery.Calculation) error {
	if s.Step != StepDelivery {
		return ErrInvalidTransition
	}
	if s.Delivery.Type != models.DeliveryHome {
		return models.NewValidationError("choose home delivery before verifying an address")
	}
	s.Calculation = &calc
	return nil
}

// Advance moves delivery -> checkout.
func (s *Session) Advance() error {
	if s.Step != StepDelivery {
		return ErrInvalidTransition
	}
	if s.Delivery.Date == "" {
		return models.NewValidationError("choose a date")
	}
	if s.Delivery.Time == "" {
		return models.NewValidationError("choose a time slot")
	}
	if s.Delivery.Type == models.DeliveryHome {
		if s.Delivery.Street == "" || s.Delivery.PostalCode == "" {
			return models.NewValidationError("street and postal code are required for delivery")
		}
		if s.Calculation == nil || !s.Calculation.Verified {
			return models.NewValidationError("verify your address first")
		}
		if !s.Calculation.Available {
			return models.NewValidationError(s.Calculation.Message)
		}
	}
	s.Step = StepCheckout
	return nil
}

// Back moves checkout -> delivery and delivery -> cart.
func (s *Session) Back() error {
	switch s.Step {
	case StepCheckout:
		s.Step = StepDelivery
	case StepDelivery:
		s.Step = StepCart
	default:
		return ErrInvalidTransition
	}
	return nil
}

// Confirm validates and records the payment choice. The step only moves to
// success once the order is stored, see Complete.
func (s *Session) Confirm(payment PaymentSelection) error {
	if s.Step != StepCheckout {
		return ErrInvalidTransition
	}
	payment.Method = strings.TrimSpace(payment.Method)
	if payment.Method == "" {
		return models.NewValidationError("choose a payment method")
	}
	if !slices.Contains(models.PaymentMethods, payment.Method) {
		return models.NewValidationError(fmt.Sprintf("unknown payment method %q", payment.Method))
	}
	if payment.WantsInvoice {
		taxID, err := ValidateTaxID(payment.TaxID)
		if err != nil {
			return err
		}
		payment.TaxID = taxID
	} else {
		payment.TaxID = ""
	}
	s.Payment = payment
	return nil
}

func (s *Session) Complete(orderID string) error {
	if s.Step != StepCheckout {
		return ErrInvalidTransition
	}
	s.Step = StepSuccess
	s.OrderID = orderID
	return nil
}

// ValidateTaxID accepts a 9-digit NIF, ignoring surrounding and inner spaces.
func ValidateTaxID(raw string) (string, error) {
	taxID := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	if len(taxID) != 9 {
		return "", models.NewValidationError("tax id (NIF) must have 9 digits")
	}
	for _, r := range taxID {
		if r < '0' || r > '9' {
			return "", models.NewValidationError("tax id (NIF) must have 9 digits")
		}
	}
	return taxID, nil
}

// SessionKey is the storage key of a browser's checkout session.
func SessionKey(browserID string) string { return "checkout:" + browserID }

// LoadSession returns the stored session or a fresh one.
func LoadSession(ctx context.Context, kv store.KV, browserID string) (*Session, error) {
	s := NewSession()
	err := kv.Load(ctx, SessionKey(browserID), s)
	if errors.Is(err, store.ErrNotFound) {
		return NewSession(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load checkout session: %w", err)
	}
	return s, nil
}

func SaveSession(ctx context.Context, kv store.KV, browserID string, s *Session) error {
	s.UpdatedAt = time.Now()
	if err := kv.Save(ctx, SessionKey(browserID), s); err != nil {
		return fmt.Errorf("save checkout session: %w", err)
	}
	return nil
}
