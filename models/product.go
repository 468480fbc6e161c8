package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CategorySpecials is the quote-only category: no fixed price, no cart checkout.
const CategorySpecials = "Especiais"

type ProductKind string

const (
	KindSimple   ProductKind = "simple"
	KindDosed    ProductKind = "dosed"
	KindStateful ProductKind = "stateful"
	KindPack     ProductKind = "pack"
)

const (
	DoseFull    = "full"
	DoseHalf    = "half"
	StateReady  = "ready"
	StateFrozen = "frozen"
)

// DoseOptions prices a product sold as full or half dose.
type DoseOptions struct {
	HalfPrice *float64 `json:"half_price,omitempty" firestore:"half_price,omitempty"`
}

// StateOptions prices a product sold ready to eat or frozen.
type StateOptions struct {
	FrozenPrice *float64 `json:"frozen_price,omitempty" firestore:"frozen_price,omitempty"`
}

// PackOptions describes a bundle of Size units picked from AllowedProductIDs.
type PackOptions struct {
	Size              int      `json:"size" firestore:"size"`
	AllowedProductIDs []string `json:"allowed_product_ids" firestore:"allowed_product_ids"`
}

type Product struct {
	ID          string        `json:"id" firestore:"id"`
	Name        string        `json:"name" firestore:"name"`
	Description string        `json:"description" firestore:"description"`
	Price       float64       `json:"price" firestore:"price"`
	ImageURL    string        `json:"image_url" firestore:"image_url"`
	Category    string        `json:"category" firestore:"category"`
	Kind        ProductKind   `json:"kind" firestore:"kind"`
	Dose        *DoseOptions  `json:"dose,omitempty" firestore:"dose,omitempty"`
	State       *StateOptions `json:"state,omitempty" firestore:"state,omitempty"`
	Pack        *PackOptions  `json:"pack,omitempty" firestore:"pack,omitempty"`
	Active      bool          `json:"active" firestore:"active"`
	CreatedAt   time.Time     `json:"created_at" firestore:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" firestore:"updated_at"`
}

func (p Product) DocumentID() string { return p.ID }

// Selection is what the shopper picked on the product page.
type Selection struct {
	Dose    string   `json:"dose,omitempty" firestore:"dose,omitempty"`
	State   string   `json:"state,omitempty" firestore:"state,omitempty"`
	Flavors []string `json:"flavors,omitempty" firestore:"flavors,omitempty"`
}

// PriceMultipliers are the fallback ratios applied when a variant has no explicit price.
type PriceMultipliers struct {
	HalfDose float64
	Frozen   float64
}

func (p Product) IsQuoteOnly() bool {
	return strings.EqualFold(p.Category, CategorySpecials)
}

// Normalize enforces the kind/options pairing and the Especiais price rule.
func (p *Product) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	if p.Kind == "" {
		p.Kind = KindSimple
	}
	if p.IsQuoteOnly() {
		p.Category = CategorySpecials
		p.Price = 0
		p.Kind = KindSimple
	}
	if p.Kind != KindDosed {
		p.Dose = nil
	} else if p.Dose == nil {
		p.Dose = &DoseOptions{}
	}
	if p.Kind != KindStateful {
		p.State = nil
	} else if p.State == nil {
		p.State = &StateOptions{}
	}
	if p.Kind != KindPack {
		p.Pack = nil
	}
}

func (p Product) Validate() error {
	if p.Name == "" {
		return NewValidationError("product name is required")
	}
	if p.Category == "" {
		return NewValidationError("product category is required")
	}
	if p.Price < 0 {
		return NewValidationError("product price must not be negative")
	}
	switch p.Kind {
	case KindSimple, KindDosed, KindStateful:
	case KindPack:
		if p.Pack == nil || p.Pack.Size < 1 {
			return NewValidationError("pack size must be at least 1")
		}
		if len(p.Pack.AllowedProductIDs) == 0 {
			return NewValidationError("pack needs at least one allowed product")
		}
	default:
		return NewValidationError(fmt.Sprintf("unknown product kind %q", p.Kind))
	}
	if p.Dose != nil && p.Dose.HalfPrice != nil && *p.Dose.HalfPrice < 0 {
		return NewValidationError("half dose price must not be negative")
	}
	if p.State != nil && p.State.FrozenPrice != nil && *p.State.FrozenPrice < 0 {
		return NewValidationError("frozen price must not be negative")
	}
	return nil
}

// UnitPrice prices one unit of the product for the given selection.
func (p Product) UnitPrice(sel Selection, m PriceMultipliers) (float64, error) {
	if p.IsQuoteOnly() {
		return 0, NewValidationError(fmt.Sprintf("%s is sold on request only", p.Name))
	}
	switch p.Kind {
	case KindSimple, "":
		return p.Price, nil
	case KindDosed:
		switch sel.Dose {
		case "", DoseFull:
			return p.Price, nil
		case DoseHalf:
			if p.Dose != nil && p.Dose.HalfPrice != nil {
				return *p.Dose.HalfPrice, nil
			}
			return scale(p.Price, m.HalfDose), nil
		default:
			return 0, NewValidationError(fmt.Sprintf("unknown dose %q", sel.Dose))
		}
	case KindStateful:
		switch sel.State {
		case "", StateReady:
			return p.Price, nil
		case StateFrozen:
			if p.State != nil && p.State.FrozenPrice != nil {
				return *p.State.FrozenPrice, nil
			}
			return scale(p.Price, m.Frozen), nil
		default:
			return 0, NewValidationError(fmt.Sprintf("unknown state %q", sel.State))
		}
	case KindPack:
		if err := p.checkPack(sel.Flavors); err != nil {
			return 0, err
		}
		return p.Price, nil
	}
	return 0, NewValidationError(fmt.Sprintf("unknown product kind %q", p.Kind))
}

func (p Product) checkPack(flavors []string) error {
	if p.Pack == nil {
		return NewValidationError("pack is not configured")
	}
	if len(flavors) != p.Pack.Size {
		return NewValidationError(fmt.Sprintf("choose exactly %d flavours for %s (got %d)", p.Pack.Size, p.Name, len(flavors)))
	}
	for _, f := range flavors {
		if !slices.Contains(p.Pack.AllowedProductIDs, f) {
			return NewValidationError(fmt.Sprintf("%s is not available in this pack", f))
		}
	}
	return nil
}

func scale(price, factor float64) float64 {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromFloat(factor)).Round(2).InexactFloat64()
}
