// Package store abstracts the document database behind a small repository
// contract. Every change notification carries the whole collection, the same
// way the storefront replaces its local copy on each push.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// Collection names shared by every backend.
const (
	Products     = "products"
	Categories   = "categories"
	Orders       = "orders"
	Testimonials = "testimonials"
	BlogPosts    = "blog_posts"
	SiteConfig   = "site_config"
	Customers    = "customers"
	Quotes       = "quote_requests"
)

var ErrNotFound = errors.New("document not found")

// Document is anything stored under a stable id.
type Document interface {
	DocumentID() string
}

type Repository[T Document] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Put(ctx context.Context, record T) error
	Delete(ctx context.Context, id string) error
	// OnChange registers fn to receive the full collection after every write.
	OnChange(fn func([]T)) (cancel func())
}

// KV is the per-browser key-value area (cart, checkout session, mirrored profile).
// Values are JSON encoded by the implementation.
type KV interface {
	Load(ctx context.Context, key string, v any) error
	Save(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
}

// Listeners is a registry of change callbacks shared by the backends.
type Listeners[T any] struct {
	mu   sync.Mutex
	next int
	fns  map[int]func([]T)
}

func (l *Listeners[T]) Add(fn func([]T)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[int]func([]T))
	}
	id := l.next
	l.next++
	l.fns[id] = fn
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.fns, id)
	}
}

func (l *Listeners[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fns)
}

// Notify calls every listener outside the lock, in registration order.
func (l *Listeners[T]) Notify(list []T) {
	l.mu.Lock()
	ids := make([]int, 0, len(l.fns))
	for id := range l.fns {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func([]T), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, l.fns[id])
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(list)
	}
}
