package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yeremiapane/bakery-app/cart"
	"github.com/yeremiapane/bakery-app/checkout"
	"github.com/yeremiapane/bakery-app/delivery"
	"github.com/yeremiapane/bakery-app/identity"
	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/store"
	"github.com/yeremiapane/bakery-app/utils"
)

// CheckoutView is what the checkout page renders.
type CheckoutView struct {
	Session     *checkout.Session `json:"session"`
	Cart        *cart.Cart        `json:"cart"`
	Subtotal    float64           `json:"subtotal"`
	DeliveryFee float64           `json:"delivery_fee"`
	Total       float64           `json:"total"`
}

// CheckoutService drives a browser's checkout session against the cart,
// the delivery calculator and the order book.
type CheckoutService struct {
	kv         store.KV
	carts      *cart.Service
	calculator *delivery.Calculator
	orders     *OrderService
	content    *ContentService
	profiles   *ProfileService
	calendar   checkout.Calendar
	slots      []string
	now        func() time.Time
}

type CheckoutDeps struct {
	Repos      *Repositories
	Carts      *cart.Service
	Calculator *delivery.Calculator
	Orders     *OrderService
	Content    *ContentService
	Profiles   *ProfileService
	Calendar   checkout.Calendar
	TimeSlots  []string
}

func NewCheckoutService(d CheckoutDeps) *CheckoutService {
	return &CheckoutService{
		kv:         d.Repos.Local,
		carts:      d.Carts,
		calculator: d.Calculator,
		orders:     d.Orders,
		content:    d.Content,
		profiles:   d.Profiles,
		calendar:   d.Calendar,
		slots:      append([]string(nil), d.TimeSlots...),
		now:        time.Now,
	}
}

func (s *CheckoutService) View(ctx context.Context, browserID string) (CheckoutView, error) {
	sess, err := checkout.LoadSession(ctx, s.kv, browserID)
	if err != nil {
		return CheckoutView{}, err
	}
	return s.view(ctx, browserID, sess)
}

func (s *CheckoutService) view(ctx context.Context, browserID string, sess *checkout.Session) (CheckoutView, error) {
	c, err := s.carts.Get(ctx, browserID)
	if err != nil {
		return CheckoutView{}, err
	}
	v := CheckoutView{Session: sess, Cart: c, Subtotal: c.Subtotal()}
	if sess.Delivery.Type == models.DeliveryHome && sess.Calculation != nil && sess.Calculation.Available {
		v.DeliveryFee = sess.Calculation.Fee
	}
	v.Total = utils.SumMoney(v.Subtotal, v.DeliveryFee)
	return v, nil
}

// Begin starts checkout. Without a signed-in user it returns checkout.ErrLoginRequired.
func (s *CheckoutService) Begin(ctx context.Context, browserID string, user *identity.User) (CheckoutView, error) {
	sess, err := checkout.LoadSession(ctx, s.kv, browserID)
	if err != nil {
		return CheckoutView{}, err
	}
	c, err := s.carts.Get(ctx, browserID)
	if err != nil {
		return CheckoutView{}, err
	}
	if sess.Step != checkout.StepCart && sess.Step != checkout.StepSuccess {
		// Re-entering an unfinished checkout resumes it.
		return s.view(ctx, browserID, sess)
	}

	uid := ""
	if user != nil {
		uid = user.UID
	}
	if err := sess.Begin(uid, len(c.Items)); err != nil {
		return CheckoutView{}, err
	}
	if sess.Delivery.Street == "" && sess.Delivery.PostalCode == "" {
		if p, err := s.profiles.Get(ctx, *user); err == nil {
			sess.Delivery.Street = p.Street
			sess.Delivery.PostalCode = p.PostalCode
			sess.Delivery.City = p.City
		}
	}
	if err := checkout.SaveSession(ctx, s.kv, browserID, sess); err != nil {
		return CheckoutView{}, err
	}
	return s.view(ctx, browserID, sess)
}

func (s *CheckoutService) SetDelivery(ctx context.Context, browserID string, sel checkout.DeliverySelection) (CheckoutView, error) {
	sess, err := checkout.LoadSession(ctx, s.kv, browserID)
	if err != nil {
		return CheckoutView{}, err
	}
	if sel.Date != "" {
		cal, err := s.Calendar(ctx)
		if err != nil {
			return CheckoutView{}, err
		}
		if !cal.Selectable(sel.Date, s.now()) {
			return CheckoutView{}, models.NewValidationError(fmt.Sprintf("%s is not available, please choose another day", sel.Date))
		}
	}
	if err := sess.SetDelivery(sel); err != nil {
		return CheckoutView{}, err
	}
	if err := checkout.SaveSession(ctx, s.kv, browserID, sess); err != nil {
		return CheckoutView{}, err
	}
	return s.view(ctx, browserID, sess)
}

// VerifyAddress geocodes the session's address and records the fee quote.
func (s *CheckoutService) VerifyAddress(ctx context.Context, browserID string) (delivery.Calculation, error) {
	sess, err := checkout.LoadSession(ctx, s.kv, browserID)
	if err != nil {
		return delivery.Calculation{}, err
	}
	if sess.Step != checkout.StepDelivery {
		return delivery.Calculation{}, checkout.ErrInvalidTransition
	}
	if sess.Delivery.Type != models.DeliveryHome {
		return delivery.Calculation{}, models.NewValidationError("choose home delivery before verifying an address")
	}
	if sess.Delivery.Street == "" {
		return delivery.Calculation{}, models.NewValidationError("street is required")
	}
	postal, err := delivery.NormalizePostalCode(sess.Delivery.PostalCode)
	if err != nil {
		return delivery.Calculation{}, err
	}
	sess.Delivery.PostalCode = postal

	calc, err := s.calculator.Calculate(ctx, postal, sess.Delivery.Street)
	if err != nil {
		return delivery.Calculation{}, err
	}
	if err := sess.RecordCalculation(calc); err != nil {
		return delivery.Calculation{}, err
	}
	if err := checkout.SaveSession(ctx, s.kv, browserID, sess); err != nil {
		return delivery.Calculation{}, err
	}
	return calc, nil
}

func (s *CheckoutService) Advance(ctx context.Context, browserID string) (CheckoutView, error) {
	sess, err := checkout.LoadSession(ctx, s.kv, browserID)
	if err != nil {
		return CheckoutView{}, err
	}
	if sess.Step == checkout.StepDelivery && sess.Delivery.Date != "" && sess.Delivery.Time != "" {
		if err := s.checkSlot(ctx, sess.Delivery); err != nil {
			return CheckoutView{}, err
		}
	}
	if err := sess.Advance(); err != nil {
		return CheckoutView{}, err
	}
	if err := checkout.SaveSession(ctx, s.kv, browserID, sess); err != nil {
		return CheckoutView{}, err
	}
	return s.view(ctx, browserID, sess)
}

func (s *CheckoutService) Back(ctx context.Context, browserID string) (CheckoutView, error) {
	sess, err := checkout.LoadSession(ctx, s.kv, browserID)
	if err != nil {
		return CheckoutView{}, err
	}
	if err := sess.Back(); err != nil {
		return CheckoutView{}, err
	}
	if err := checkout.SaveSession(ctx, s.kv, browserID, sess); err != nil {
		return CheckoutView{}, err
	}
	return s.view(ctx, browserID, sess)
}

// Confirm assembles and places the order. On failure the session stays on the
// payment step and the cart is untouched.
func (s *CheckoutService) Confirm(ctx context.Context, browserID string, user *identity.User, payment checkout.PaymentSelection) (models.Order, error) {
	if user == nil {
		return models.Order{}, checkout.ErrLoginRequired
	}
	sess, err := checkout.LoadSession(ctx, s.kv, browserID)
	if err != nil {
		return models.Order{}, err
	}
	if err := sess.Confirm(payment); err != nil {
		return models.Order{}, err
	}
	if err := s.checkSlot(ctx, sess.Delivery); err != nil {
		return models.Order{}, err
	}

	c, err := s.carts.Get(ctx, browserID)
	if err != nil {
		return models.Order{}, err
	}
	profile, err := s.profiles.Get(ctx, *user)
	if err != nil {
		return models.Order{}, err
	}
	name := profile.Name
	if name == "" {
		name = user.Name
	}
	order, err := checkout.Assemble(c, sess, checkout.Customer{
		ID:    user.UID,
		Email: user.Email,
		Name:  name,
		Phone: profile.Phone,
	}, s.now())
	if err != nil {
		return models.Order{}, err
	}

	if err := s.orders.Place(ctx, browserID, order); err != nil {
		return models.Order{}, err
	}
	if err := sess.Complete(order.ID); err != nil {
		return order, err
	}
	if err := checkout.SaveSession(ctx, s.kv, browserID, sess); err != nil {
		utils.ErrorLogger.Printf("Order %s placed but checkout session not saved: %v", order.ID, err)
	}
	return order, nil
}

// Calendar applies the back-office closed-day override on top of the configured calendar.
func (s *CheckoutService) Calendar(ctx context.Context) (checkout.Calendar, error) {
	cal := s.calendar
	site, err := s.content.SiteConfig(ctx)
	if err != nil {
		return cal, err
	}
	if site.ClosedWeekday != nil {
		cal.ClosedWeekday = time.Weekday(*site.ClosedWeekday)
	}
	return cal, nil
}

func (s *CheckoutService) Dates(ctx context.Context) ([]string, error) {
	cal, err := s.Calendar(ctx)
	if err != nil {
		return nil, err
	}
	days := cal.Dates(s.now())
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.Format(models.DateLayout))
	}
	return out, nil
}

// Slots lists the free time slots on date for the given delivery type.
func (s *CheckoutService) Slots(ctx context.Context, date string, kind models.DeliveryType) ([]string, error) {
	cal, err := s.Calendar(ctx)
	if err != nil {
		return nil, err
	}
	if !cal.Selectable(date, s.now()) {
		return []string{}, nil
	}
	if kind == models.DeliveryPickup {
		return append([]string(nil), s.slots...), nil
	}
	orders, err := s.orders.List(ctx, "")
	if err != nil {
		return nil, err
	}
	return checkout.AvailableSlots(s.slots, orders, date), nil
}

func (s *CheckoutService) checkSlot(ctx context.Context, sel checkout.DeliverySelection) error {
	cal, err := s.Calendar(ctx)
	if err != nil {
		return err
	}
	if !cal.Selectable(sel.Date, s.now()) {
		return models.NewValidationError(fmt.Sprintf("%s is not available, please choose another day", sel.Date))
	}
	orders, err := s.orders.List(ctx, "")
	if err != nil {
		return err
	}
	if !checkout.SlotAvailable(s.slots, orders, sel.Date, sel.Time, sel.Type) {
		return models.NewValidationError(fmt.Sprintf("the %s slot on %s is no longer available", sel.Time, sel.Date))
	}
	return nil
}
