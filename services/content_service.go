package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/store"
)

// ContentService manages testimonials, blog posts and the site configuration.
type ContentService struct {
	testimonials store.Repository[models.Testimonial]
	posts        store.Repository[models.BlogPost]
	site         store.Repository[models.SiteConfig]
	defaults     models.SiteConfig
	now          func() time.Time
}

func NewContentService(repos *Repositories, defaults models.SiteConfig) *ContentService {
	defaults.ID = models.SiteConfigID
	return &ContentService{
		testimonials: repos.Testimonials,
		posts:        repos.BlogPosts,
		site:         repos.SiteConfig,
		defaults:     defaults,
		now:          time.Now,
	}
}

// Testimonials lists newest first; the public site only sees approved ones.
func (s *ContentService) Testimonials(ctx context.Context, onlyApproved bool) ([]models.Testimonial, error) {
	all, err := s.testimonials.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Testimonial, 0, len(all))
	for _, t := range all {
		if onlyApproved && !t.Approved {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *ContentService) SaveTestimonial(ctx context.Context, t models.Testimonial) (models.Testimonial, error) {
	t.Author = strings.TrimSpace(t.Author)
	t.Text = strings.TrimSpace(t.Text)
	if t.Author == "" || t.Text == "" {
		return models.Testimonial{}, models.NewValidationError("author and text are required")
	}
	if t.Rating < 1 || t.Rating > 5 {
		return models.Testimonial{}, models.NewValidationError("rating must be between 1 and 5")
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
		t.CreatedAt = s.now()
	} else {
		existing, err := s.testimonials.Get(ctx, t.ID)
		if err != nil {
			return models.Testimonial{}, err
		}
		t.CreatedAt = existing.CreatedAt
	}
	return t, s.testimonials.Put(ctx, t)
}

func (s *ContentService) DeleteTestimonial(ctx context.Context, id string) error {
	return s.testimonials.Delete(ctx, id)
}

// Posts lists newest first.
func (s *ContentService) Posts(ctx context.Context, onlyPublished bool) ([]models.BlogPost, error) {
	all, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.BlogPost, 0, len(all))
	for _, p := range all {
		if onlyPublished && !p.Published {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return postDate(out[i]).After(postDate(out[j])) })
	return out, nil
}

func postDate(p models.BlogPost) time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.CreatedAt
}

func (s *ContentService) PostBySlug(ctx context.Context, slug string) (models.BlogPost, error) {
	posts, err := s.Posts(ctx, true)
	if err != nil {
		return models.BlogPost{}, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return models.BlogPost{}, store.ErrNotFound
}

func (s *ContentService) CreatePost(ctx context.Context, p models.BlogPost) (models.BlogPost, error) {
	p.ID = uuid.NewString()
	p.CreatedAt = s.now()
	p.PublishedAt = nil
	return s.savePost(ctx, p, nil)
}

func (s *ContentService) UpdatePost(ctx context.Context, id string, p models.BlogPost) (models.BlogPost, error) {
	existing, err := s.posts.Get(ctx, id)
	if err != nil {
		return models.BlogPost{}, err
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	return s.savePost(ctx, p, &existing)
}

func (s *ContentService) savePost(ctx context.Context, p models.BlogPost, existing *models.BlogPost) (models.BlogPost, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return models.BlogPost{}, models.NewValidationError("post title is required")
	}
	if p.Slug = Slugify(p.Slug); p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	if p.Slug == "" {
		return models.BlogPost{}, models.NewValidationError("post title must contain letters or digits")
	}

	all, err := s.posts.List(ctx)
	if err != nil {
		return models.BlogPost{}, err
	}
	for _, other := range all {
		if other.ID != p.ID && other.Slug == p.Slug {
			return models.BlogPost{}, models.NewValidationError(fmt.Sprintf("another post already uses %q", p.Slug))
		}
	}

	now := s.now()
	switch {
	case !p.Published:
		p.PublishedAt = nil
	case existing != nil && existing.PublishedAt != nil:
		p.PublishedAt = existing.PublishedAt
	default:
		p.PublishedAt = &now
	}
	p.UpdatedAt = now
	return p, s.posts.Put(ctx, p)
}

func (s *ContentService) DeletePost(ctx context.Context, id string) error {
	return s.posts.Delete(ctx, id)
}

// SiteConfig returns the stored configuration or the defaults when none was saved yet.
func (s *ContentService) SiteConfig(ctx context.Context) (models.SiteConfig, error) {
	cfg, err := s.site.Get(ctx, models.SiteConfigID)
	if errors.Is(err, store.ErrNotFound) {
		return s.defaults, nil
	}
	return cfg, err
}

func (s *ContentService) UpdateSiteConfig(ctx context.Context, cfg models.SiteConfig) (models.SiteConfig, error) {
	cfg.ID = models.SiteConfigID
	cfg.StoreName = strings.TrimSpace(cfg.StoreName)
	if cfg.StoreName == "" {
		return models.SiteConfig{}, models.NewValidationError("store name is required")
	}
	if cfg.ClosedWeekday != nil && (*cfg.ClosedWeekday < 0 || *cfg.ClosedWeekday > 6) {
		return models.SiteConfig{}, models.NewValidationError("closed weekday must be between 0 (Sunday) and 6 (Saturday)")
	}
	cfg.UpdatedAt = s.now()
	return cfg, s.site.Put(ctx, cfg)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns "Pão de Ló" into "pao-de-lo".
func Slugify(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, strings.ToLower(text))
	if err != nil {
		plain = strings.ToLower(text)
	}
	return strings.Trim(nonSlug.ReplaceAllString(plain, "-"), "-")
}
