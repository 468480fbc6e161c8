// Package cart keeps each browser's shopping cart in the per-browser storage area.
package cart

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/store"
	"github.com/yeremiapane/bakery-app/utils"
)

// MaxLineQuantity caps the units on one cart line.
const MaxLineQuantity = 999

// Key is the storage key of a browser's cart.
func Key(browserID string) string { return "cart:" + browserID }

type Cart struct {
	Items     []models.CartItem `json:"items"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (c *Cart) IsEmpty() bool { return len(c.Items) == 0 }

// Count is the number of units, not lines.
func (c *Cart) Count() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

func (c *Cart) Subtotal() float64 {
	lines := make([]float64, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, item.LineTotal())
	}
	return utils.SumMoney(lines...)
}

// Service mutates carts. Every change is written back immediately.
type Service struct {
	kv          store.KV
	products    store.Repository[models.Product]
	multipliers models.PriceMultipliers
}

func NewService(kv store.KV, products store.Repository[models.Product], m models.PriceMultipliers) *Service {
	return &Service{kv: kv, products: products, multipliers: m}
}

// Get rehydrates the cart. A browser without one gets an empty cart.
func (s *Service) Get(ctx context.Context, browserID string) (*Cart, error) {
	var c Cart
	err := s.kv.Load(ctx, Key(browserID), &c)
	if errors.Is(err, store.ErrNotFound) {
		return &Cart{Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	return &c, nil
}

// Add prices the selection and appends it, merging with an identical line.
func (s *Service) Add(ctx context.Context, browserID, productID string, sel models.Selection, qty int) (*Cart, error) {
	if err := checkQuantity(qty); err != nil {
		return nil, err
	}
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, models.NewValidationError("this product is not available")
	}
	if product.IsQuoteOnly() {
		return nil, models.NewValidationError("this product is made to order, please request a quote")
	}
	price, err := product.UnitPrice(sel, s.multipliers)
	if err != nil {
		return nil, err
	}

	c, err := s.Get(ctx, browserID)
	if err != nil {
		return nil, err
	}
	item := models.CartItem{Product: product, Selection: normalizeSelection(product, sel), Quantity: qty, UnitPrice: price}
	merged := false
	for i := range c.Items {
		if sameLine(c.Items[i], item) {
			if err := checkQuantity(c.Items[i].Quantity + qty); err != nil {
				return nil, err
			}
			c.Items[i].Quantity += qty
			c.Items[i].UnitPrice = price
			merged = true
			break
		}
	}
	if !merged {
		c.Items = append(c.Items, item)
	}
	return c, s.save(ctx, browserID, c)
}

// Update sets the quantity of the line at index.
func (s *Service) Update(ctx context.Context, browserID string, index, qty int) (*Cart, error) {
	if err := checkQuantity(qty); err != nil {
		return nil, err
	}
	c, err := s.Get(ctx, browserID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(c.Items) {
		return nil, store.ErrNotFound
	}
	c.Items[index].Quantity = qty
	return c, s.save(ctx, browserID, c)
}

func (s *Service) Remove(ctx context.Context, browserID string, index int) (*Cart, error) {
	c, err := s.Get(ctx, browserID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(c.Items) {
		return nil, store.ErrNotFound
	}
	c.Items = slices.Delete(c.Items, index, index+1)
	return c, s.save(ctx, browserID, c)
}

func (s *Service) Clear(ctx context.Context, browserID string) error {
	err := s.kv.Delete(ctx, Key(browserID))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func checkQuantity(qty int) error {
	if qty < 1 {
		return models.NewValidationError("quantity must be at least 1")
	}
	if qty > MaxLineQuantity {
		return models.NewValidationError(fmt.Sprintf("quantity must be at most %d", MaxLineQuantity))
	}
	return nil
}

func (s *Service) save(ctx context.Context, browserID string, c *Cart) error {
	c.UpdatedAt = time.Now()
	if err := s.kv.Save(ctx, Key(browserID), c); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// normalizeSelection drops choices that do not apply to the product kind and
// fills the defaults, so equal choices compare equal.
func normalizeSelection(p models.Product, sel models.Selection) models.Selection {
	out := models.Selection{}
	switch p.Kind {
	case models.KindDosed:
		out.Dose = sel.Dose
		if out.Dose == "" {
			out.Dose = models.DoseFull
		}
	case models.KindStateful:
		out.State = sel.State
		if out.State == "" {
			out.State = models.StateReady
		}
	case models.KindPack:
		out.Flavors = append([]string(nil), sel.Flavors...)
	}
	return out
}

func sameLine(a, b models.CartItem) bool {
	if a.Product.ID != b.Product.ID || a.Selection.Dose != b.Selection.Dose || a.Selection.State != b.Selection.State {
		return false
	}
	fa := slices.Clone(a.Selection.Flavors)
	fb := slices.Clone(b.Selection.Flavors)
	slices.Sort(fa)
	slices.Sort(fb)
	return strings.Join(fa, "\x00") == strings.Join(fb, "\x00")
}
