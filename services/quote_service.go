package services

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/store"
	"github.com/yeremiapane/bakery-app/utils"
)

// QuoteService records price requests for made-to-order products and hands
// back a WhatsApp link to continue the conversation with the shop.
type QuoteService struct {
	quotes   store.Repository[models.QuoteRequest]
	products store.Repository[models.Product]
	content  *ContentService
	now      func() time.Time
}

func NewQuoteService(repos *Repositories, content *ContentService) *QuoteService {
	return &QuoteService{quotes: repos.Quotes, products: repos.Products, content: content, now: time.Now}
}

type QuoteResult struct {
	Request      models.QuoteRequest `json:"request"`
	WhatsAppLink string              `json:"whatsapp_link,omitempty"`
}

func (s *QuoteService) Request(ctx context.Context, productID string, q models.QuoteRequest) (QuoteResult, error) {
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return QuoteResult{}, err
	}
	if !product.IsQuoteOnly() {
		return QuoteResult{}, models.NewValidationError(fmt.Sprintf("%s can be ordered directly", product.Name))
	}
	q.Name = strings.TrimSpace(q.Name)
	q.Contact = strings.TrimSpace(q.Contact)
	q.Message = strings.TrimSpace(q.Message)
	if q.Name == "" || q.Contact == "" {
		return QuoteResult{}, models.NewValidationError("name and contact are required")
	}

	q.ID = uuid.NewString()
	q.ProductID = product.ID
	q.ProductName = product.Name
	q.CreatedAt = s.now()
	if err := s.quotes.Put(ctx, q); err != nil {
		return QuoteResult{}, err
	}
	utils.InfoLogger.Printf("Quote request for %s from %s", product.Name, q.Contact)

	site, err := s.content.SiteConfig(ctx)
	if err != nil {
		return QuoteResult{Request: q}, nil
	}
	return QuoteResult{Request: q, WhatsAppLink: WhatsAppLink(site.WhatsApp, quoteText(q))}, nil
}

func (s *QuoteService) List(ctx context.Context) ([]models.QuoteRequest, error) {
	all, err := s.quotes.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return all, nil
}

func quoteText(q models.QuoteRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Olá! Gostaria de um orçamento para %s.", q.ProductName)
	if q.EventDate != "" {
		fmt.Fprintf(&b, " Data: %s.", q.EventDate)
	}
	if q.Message != "" {
		fmt.Fprintf(&b, " %s", q.Message)
	}
	fmt.Fprintf(&b, " (%s, %s)", q.Name, q.Contact)
	return b.String()
}

// WhatsAppLink builds a wa.me deep link. Numbers without a country code are
// taken as Portuguese.
func WhatsAppLink(number, text string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if digits == "" {
		return ""
	}
	if len(digits) == 9 {
		digits = "351" + digits
	}
	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(text)
}
