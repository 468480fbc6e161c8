package services

import (
	gcfirestore "cloud.google.com/go/firestore"
	"gorm.io/gorm"

	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/store"
	"github.com/yeremiapane/bakery-app/store/firestore"
	"github.com/yeremiapane/bakery-app/store/gormstore"
	"github.com/yeremiapane/bakery-app/store/memory"
)

// Repositories groups one repository per collection plus the browser storage area.
type Repositories struct {
	Products     store.Repository[models.Product]
	Categories   store.Repository[models.Category]
	Orders       store.Repository[models.Order]
	Testimonials store.Repository[models.Testimonial]
	BlogPosts    store.Repository[models.BlogPost]
	SiteConfig   store.Repository[models.SiteConfig]
	Customers    store.Repository[models.CustomerProfile]
	Quotes       store.Repository[models.QuoteRequest]
	Local        store.KV
}

func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Products:     memory.NewCollection[models.Product](),
		Categories:   memory.NewCollection[models.Category](),
		Orders:       memory.NewCollection[models.Order](),
		Testimonials: memory.NewCollection[models.Testimonial](),
		BlogPosts:    memory.NewCollection[models.BlogPost](),
		SiteConfig:   memory.NewCollection[models.SiteConfig](),
		Customers:    memory.NewCollection[models.CustomerProfile](),
		Quotes:       memory.NewCollection[models.QuoteRequest](),
		Local:        memory.NewKV(),
	}
}

func NewGormRepositories(db *gorm.DB, monitor *gormstore.ChangeMonitor) *Repositories {
	return &Repositories{
		Products:     gormstore.NewCollection[models.Product](db, store.Products, monitor),
		Categories:   gormstore.NewCollection[models.Category](db, store.Categories, monitor),
		Orders:       gormstore.NewCollection[models.Order](db, store.Orders, monitor),
		Testimonials: gormstore.NewCollection[models.Testimonial](db, store.Testimonials, monitor),
		BlogPosts:    gormstore.NewCollection[models.BlogPost](db, store.BlogPosts, monitor),
		SiteConfig:   gormstore.NewCollection[models.SiteConfig](db, store.SiteConfig, monitor),
		Customers:    gormstore.NewCollection[models.CustomerProfile](db, store.Customers, monitor),
		Quotes:       gormstore.NewCollection[models.QuoteRequest](db, store.Quotes, monitor),
		Local:        gormstore.NewKV(db),
	}
}

func NewFirestoreRepositories(client *gcfirestore.Client) *Repositories {
	return &Repositories{
		Products:     firestore.NewCollection[models.Product](client, store.Products),
		Categories:   firestore.NewCollection[models.Category](client, store.Categories),
		Orders:       firestore.NewCollection[models.Order](client, store.Orders),
		Testimonials: firestore.NewCollection[models.Testimonial](client, store.Testimonials),
		BlogPosts:    firestore.NewCollection[models.BlogPost](client, store.BlogPosts),
		SiteConfig:   firestore.NewCollection[models.SiteConfig](client, store.SiteConfig),
		Customers:    firestore.NewCollection[models.CustomerProfile](client, store.Customers),
		Quotes:       firestore.NewCollection[models.QuoteRequest](client, store.Quotes),
		Local:        firestore.NewKV(client),
	}
}
