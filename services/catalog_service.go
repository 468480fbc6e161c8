package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/store"
	"github.com/yeremiapane/bakery-app/utils"
)

// ProductFilter narrows the public catalogue.
type ProductFilter struct {
	Category        string
	Query           string
	IncludeInactive bool
}

// CatalogService manages products and categories.
type CatalogService struct {
	products   store.Repository[models.Product]
	categories store.Repository[models.Category]
	now        func() time.Time
}

func NewCatalogService(repos *Repositories) *CatalogService {
	return &CatalogService{products: repos.Products, categories: repos.Categories, now: time.Now}
}

func (s *CatalogService) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	all, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]models.Product, 0, len(all))
	for _, p := range all {
		if !p.Active && !f.IncludeInactive {
			continue
		}
		if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.Description), query) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// GetProduct returns an active product. Inactive products are not found publicly.
func (s *CatalogService) GetProduct(ctx context.Context, id string, includeInactive bool) (models.Product, error) {
	p, err := s.products.Get(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	if !p.Active && !includeInactive {
		return models.Product{}, store.ErrNotFound
	}
	return p, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	p.ID = uuid.NewString()
	p.CreatedAt = s.now()
	return s.saveProduct(ctx, p)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, p models.Product) (models.Product, error) {
	existing, err := s.products.Get(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	return s.saveProduct(ctx, p)
}

func (s *CatalogService) saveProduct(ctx context.Context, p models.Product) (models.Product, error) {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return models.Product{}, err
	}
	cat, err := s.findCategory(ctx, p.Category)
	if err != nil {
		return models.Product{}, err
	}
	p.Category = cat.Name
	if p.Kind == models.KindPack {
		for _, id := range p.Pack.AllowedProductIDs {
			if id == p.ID {
				return models.Product{}, models.NewValidationError("a pack cannot contain itself")
			}
			if _, err := s.products.Get(ctx, id); errors.Is(err, store.ErrNotFound) {
				return models.Product{}, models.NewValidationError(fmt.Sprintf("pack flavour %q does not exist", id))
			} else if err != nil {
				return models.Product{}, err
			}
		}
	}
	p.UpdatedAt = s.now()
	if err := s.products.Put(ctx, p); err != nil {
		return models.Product{}, err
	}
	utils.InfoLogger.Printf("Product saved: %s (%s)", p.Name, p.ID)
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(cats, func(i, j int) bool {
		if cats[i].Position != cats[j].Position {
			return cats[i].Position < cats[j].Position
		}
		return cats[i].Name < cats[j].Name
	})
	return cats, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	c.ID = uuid.NewString()
	c.CreatedAt = s.now()
	return s.saveCategory(ctx, c, "")
}

// UpdateCategory renames a category and moves its products along.
func (s *CatalogService) UpdateCategory(ctx context.Context, id string, c models.Category) (models.Category, error) {
	existing, err := s.categories.Get(ctx, id)
	if err != nil {
		return models.Category{}, err
	}
	c.ID = existing.ID
	c.CreatedAt = existing.CreatedAt
	saved, err := s.saveCategory(ctx, c, existing.Name)
	if err != nil {
		return models.Category{}, err
	}

	if existing.Name != saved.Name {
		products, err := s.products.List(ctx)
		if err != nil {
			return saved, err
		}
		for _, p := range products {
			if p.Category != existing.Name {
				continue
			}
			p.Category = saved.Name
			p.UpdatedAt = s.now()
			if err := s.products.Put(ctx, p); err != nil {
				return saved, fmt.Errorf("move product %s to %s: %w", p.ID, saved.Name, err)
			}
		}
	}
	return saved, nil
}

func (s *CatalogService) saveCategory(ctx context.Context, c models.Category, currentName string) (models.Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return models.Category{}, models.NewValidationError("category name is required")
	}
	cats, err := s.categories.List(ctx)
	if err != nil {
		return models.Category{}, err
	}
	for _, other := range cats {
		if other.ID != c.ID && strings.EqualFold(other.Name, c.Name) {
			return models.Category{}, models.NewValidationError(fmt.Sprintf("category %q already exists", c.Name))
		}
	}
	if strings.EqualFold(currentName, models.CategorySpecials) && !strings.EqualFold(c.Name, models.CategorySpecials) {
		return models.Category{}, models.NewValidationError("the Especiais category cannot be renamed")
	}
	c.UpdatedAt = s.now()
	if err := s.categories.Put(ctx, c); err != nil {
		return models.Category{}, err
	}
	return c, nil
}

// DeleteCategory refuses while products still use the category.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	c, err := s.categories.Get(ctx, id)
	if err != nil {
		return err
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return err
	}
	if slices.ContainsFunc(products, func(p models.Product) bool { return p.Category == c.Name }) {
		return models.NewValidationError(fmt.Sprintf("category %q still has products", c.Name))
	}
	return s.categories.Delete(ctx, id)
}

func (s *CatalogService) findCategory(ctx context.Context, name string) (models.Category, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return models.Category{}, err
	}
	for _, c := range cats {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return models.Category{}, models.NewValidationError(fmt.Sprintf("category %q does not exist", name))
}
