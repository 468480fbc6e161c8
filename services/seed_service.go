package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yeremiapane/bakery-app/config"
	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/utils"
)

// ApplySeed fills an empty catalogue from the seed file. A store that already
// has products is left alone.
func ApplySeed(ctx context.Context, repos *Repositories, seed *config.Seed) error {
	existing, err := repos.Products.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 || seed == nil || len(seed.Products)+len(seed.Categories) == 0 {
		return nil
	}
	now := time.Now()

	for i, name := range seed.Categories {
		c := models.Category{ID: uuid.NewString(), Name: name, Position: i + 1, CreatedAt: now, UpdatedAt: now}
		if err := repos.Categories.Put(ctx, c); err != nil {
			return fmt.Errorf("seed category %s: %w", name, err)
		}
	}

	// Plain products first so packs can reference them by name.
	ids := make(map[string]string, len(seed.Products))
	for _, sp := range seed.Products {
		ids[sp.Name] = uuid.NewString()
	}
	for _, sp := range seed.Products {
		p := models.Product{
			ID:          ids[sp.Name],
			Name:        sp.Name,
			Description: sp.Description,
			Price:       sp.Price,
			ImageURL:    sp.ImageURL,
			Category:    sp.Category,
			Kind:        models.ProductKind(sp.Kind),
			Active:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if sp.HalfPrice != nil {
			p.Dose = &models.DoseOptions{HalfPrice: sp.HalfPrice}
		}
		if sp.FrozenPrice != nil {
			p.State = &models.StateOptions{FrozenPrice: sp.FrozenPrice}
		}
		if p.Kind == models.KindPack {
			p.Pack = &models.PackOptions{Size: sp.PackSize}
			for _, name := range sp.PackOf {
				id, ok := ids[name]
				if !ok {
					return fmt.Errorf("seed pack %s references unknown product %s", sp.Name, name)
				}
				p.Pack.AllowedProductIDs = append(p.Pack.AllowedProductIDs, id)
			}
		}
		p.Normalize()
		if err := p.Validate(); err != nil {
			return fmt.Errorf("seed product %s: %w", sp.Name, err)
		}
		if err := repos.Products.Put(ctx, p); err != nil {
			return fmt.Errorf("seed product %s: %w", sp.Name, err)
		}
	}

	for _, st := range seed.Testimonials {
		t := models.Testimonial{ID: uuid.NewString(), Author: st.Author, Text: st.Text, Rating: st.Rating, Approved: true, CreatedAt: now}
		if err := repos.Testimonials.Put(ctx, t); err != nil {
			return fmt.Errorf("seed testimonial: %w", err)
		}
	}

	sc := seed.SiteConfig
	if sc.StoreName != "" {
		site := models.SiteConfig{
			ID:           models.SiteConfigID,
			StoreName:    sc.StoreName,
			Phone:        sc.Phone,
			WhatsApp:     sc.WhatsApp,
			Email:        sc.Email,
			Address:      sc.Address,
			OpeningHours: sc.OpeningHours,
			HeroTitle:    sc.HeroTitle,
			HeroSubtitle: sc.HeroSubtitle,
			UpdatedAt:    now,
		}
		if err := repos.SiteConfig.Put(ctx, site); err != nil {
			return fmt.Errorf("seed site config: %w", err)
		}
	}

	utils.InfoLogger.Printf("Seeded %d categories and %d products", len(seed.Categories), len(seed.Products))
	return nil
}
