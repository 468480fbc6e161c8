package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yeremiapane/bakery-app/checkout"
	"github.com/yeremiapane/bakery-app/delivery"
	"github.com/yeremiapane/bakery-app/identity"
	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/store"
)

// ProfileKey is where a browser keeps its convenience copy of the profile.
func ProfileKey(browserID string) string { return "profile:" + browserID }

// ProfileService keeps customer profiles. The stored document is authoritative;
// the browser copy is only a mirror.
type ProfileService struct {
	customers store.Repository[models.CustomerProfile]
	kv        store.KV
	now       func() time.Time
}

func NewProfileService(repos *Repositories) *ProfileService {
	return &ProfileService{customers: repos.Customers, kv: repos.Local, now: time.Now}
}

// Get returns the profile, or one seeded from the account when none was saved yet.
func (s *ProfileService) Get(ctx context.Context, user identity.User) (models.CustomerProfile, error) {
	p, err := s.customers.Get(ctx, user.UID)
	if errors.Is(err, store.ErrNotFound) {
		return models.CustomerProfile{ID: user.UID, Email: user.Email, Name: user.Name}, nil
	}
	if err != nil {
		return models.CustomerProfile{}, err
	}
	return p, nil
}

func (s *ProfileService) Update(ctx context.Context, user identity.User, browserID string, p models.CustomerProfile) (models.CustomerProfile, error) {
	p.ID = user.UID
	p.Email = user.Email
	p.Name = strings.TrimSpace(p.Name)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Street = strings.TrimSpace(p.Street)
	p.City = strings.TrimSpace(p.City)
	if p.Name == "" {
		return models.CustomerProfile{}, models.NewValidationError("name is required")
	}
	if strings.TrimSpace(p.PostalCode) != "" {
		code, err := delivery.NormalizePostalCode(p.PostalCode)
		if err != nil {
			return models.CustomerProfile{}, err
		}
		p.PostalCode = code
	} else {
		p.PostalCode = ""
	}
	if strings.TrimSpace(p.TaxID) != "" {
		taxID, err := checkout.ValidateTaxID(p.TaxID)
		if err != nil {
			return models.CustomerProfile{}, err
		}
		p.TaxID = taxID
	} else {
		p.TaxID = ""
	}
	p.UpdatedAt = s.now()

	if err := s.customers.Put(ctx, p); err != nil {
		return models.CustomerProfile{}, err
	}
	if browserID != "" {
		if err := s.Mirror(ctx, browserID, p); err != nil {
			return p, err
		}
	}
	return p, nil
}

func (s *ProfileService) Mirror(ctx context.Context, browserID string, p models.CustomerProfile) error {
	if err := s.kv.Save(ctx, ProfileKey(browserID), p); err != nil {
		return fmt.Errorf("mirror profile: %w", err)
	}
	return nil
}

// Forget drops the browser copy, used on sign-out.
func (s *ProfileService) Forget(ctx context.Context, browserID string) error {
	err := s.kv.Delete(ctx, ProfileKey(browserID))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}
