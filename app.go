package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bakery-app/cart"
	"github.com/yeremiapane/bakery-app/checkout"
	"github.com/yeremiapane/bakery-app/config"
	"github.com/yeremiapane/bakery-app/delivery"
	"github.com/yeremiapane/bakery-app/identity"
	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/realtime"
	"github.com/yeremiapane/bakery-app/router"
	"github.com/yeremiapane/bakery-app/services"
	"github.com/yeremiapane/bakery-app/store"
)

// buildApp wires services, seed data and the real-time feed on top of an
// opened store and identity provider. The returned func stops the feed.
func buildApp(ctx context.Context, cfg *config.Config, repos *services.Repositories, provider identity.Provider, resolver delivery.Resolver) (*gin.Engine, func(), error) {
	gate := identity.NewAdminGate(provider, cfg.AdminEmail)

	calculator := delivery.NewCalculator(
		resolver,
		delivery.Point{Lat: cfg.Store.Lat, Lon: cfg.Store.Lon},
		delivery.FeePolicy{
			FreeRadiusKm: cfg.Delivery.FreeRadiusKm,
			MaxRadiusKm:  cfg.Delivery.MaxRadiusKm,
			PerKmRate:    cfg.Delivery.PerKmRate,
		},
	)

	carts := cart.NewService(repos.Local, repos.Products, models.PriceMultipliers{
		HalfDose: cfg.Pricing.HalfDoseMultiplier,
		Frozen:   cfg.Pricing.FrozenMultiplier,
	})
	catalog := services.NewCatalogService(repos)
	content := services.NewContentService(repos, models.SiteConfig{
		ID:        models.SiteConfigID,
		StoreName: cfg.Store.Name,
	})
	orders := services.NewOrderService(repos, carts)
	profiles := services.NewProfileService(repos)
	quotes := services.NewQuoteService(repos, content)
	checkoutSvc := services.NewCheckoutService(services.CheckoutDeps{
		Repos:      repos,
		Carts:      carts,
		Calculator: calculator,
		Orders:     orders,
		Content:    content,
		Profiles:   profiles,
		Calendar: checkout.Calendar{
			ClosedWeekday: cfg.Checkout.ClosedWeekday,
			HorizonDays:   cfg.Checkout.HorizonDays,
		},
		TimeSlots: cfg.Checkout.TimeSlots,
	})

	seed, err := config.LoadSeed(cfg.SeedFile)
	if err != nil {
		return nil, nil, err
	}
	if err := services.ApplySeed(ctx, repos, seed); err != nil {
		return nil, nil, err
	}

	hub := realtime.NewHub()
	unsubscribers := []func(){
		realtime.Watch(ctx, hub, store.Products, repos.Products, realtime.Everyone),
		realtime.Watch(ctx, hub, store.Categories, repos.Categories, realtime.Everyone),
		realtime.Watch(ctx, hub, store.SiteConfig, repos.SiteConfig, realtime.Everyone),
		realtime.Watch(ctx, hub, store.Testimonials, repos.Testimonials, realtime.Everyone),
		realtime.Watch(ctx, hub, store.BlogPosts, repos.BlogPosts, realtime.Everyone),
		realtime.Watch(ctx, hub, store.Orders, repos.Orders, realtime.AdminsOnly),
	}
	shutdown := func() {
		for _, unsubscribe := range unsubscribers {
			unsubscribe()
		}
	}

	r := router.SetupRouter(router.Dependencies{
		Identity:      gate,
		Catalog:       catalog,
		Content:       content,
		Quotes:        quotes,
		Carts:         carts,
		Calculator:    calculator,
		Checkout:      checkoutSvc,
		Orders:        orders,
		Profiles:      profiles,
		Hub:           hub,
		AllowedOrigin: cfg.AllowedOrigin,
		Release:       cfg.GinMode == gin.ReleaseMode,
	})
	return r, shutdown, nil
}
