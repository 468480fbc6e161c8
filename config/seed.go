package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Seed is the starter catalogue applied to an empty store.
type Seed struct {
	SiteConfig   SeedSiteConfig    `yaml:"site_config"`
	Categories   []string          `yaml:"categories"`
	Products     []SeedProduct     `yaml:"products"`
	Testimonials []SeedTestimonial `yaml:"testimonials"`
}

type SeedSiteConfig struct {
	StoreName    string `yaml:"store_name"`
	Phone        string `yaml:"phone"`
	WhatsApp     string `yaml:"whatsapp"`
	Email        string `yaml:"email"`
	Address      string `yaml:"address"`
	OpeningHours string `yaml:"opening_hours"`
	HeroTitle    string `yaml:"hero_title"`
	HeroSubtitle string `yaml:"hero_subtitle"`
}

type SeedProduct struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Price       float64  `yaml:"price"`
	ImageURL    string   `yaml:"image_url"`
	Category    string   `yaml:"category"`
	Kind        string   `yaml:"kind"`
	HalfPrice   *float64 `yaml:"half_price"`
	FrozenPrice *float64 `yaml:"frozen_price"`
	PackSize    int      `yaml:"pack_size"`
	// PackOf lists product names allowed as pack flavours.
	PackOf []string `yaml:"pack_of"`
}

type SeedTestimonial struct {
	Author string `yaml:"author"`
	Text   string `yaml:"text"`
	Rating int    `yaml:"rating"`
}

// LoadSeed reads a YAML seed file. An empty path yields an empty seed.
func LoadSeed(path string) (*Seed, error) {
	if path == "" {
		return &Seed{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(raw)
}

func ParseSeed(raw []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	for i, p := range seed.Products {
		if p.Name == "" || p.Category == "" {
			return nil, fmt.Errorf("seed product #%d needs a name and a category", i+1)
		}
	}
	return &seed, nil
}
