package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yeremiapane/bakery-app/utils"
)

// Config is everything the bakery service reads from the environment.
type Config struct {
	Port          string
	GinMode       string
	AllowedOrigin string

	DBDriver string
	DBDSN    string

	// StoreBackend selects the document store: gorm, firestore or memory.
	StoreBackend    string
	IdentityBackend string
	ChangeInterval  time.Duration

	FirebaseProjectID       string
	FirebaseCredentialsFile string
	FirebaseAPIKey          string

	AdminEmail string
	JWTSecret  string
	SeedFile   string

	Store    StoreLocation
	Delivery DeliveryPolicy
	Geocoder GeocoderConfig
	Checkout CheckoutConfig
	Pricing  PricingConfig
}

// StoreLocation is the shop the delivery distance is measured from.
type StoreLocation struct {
	Name    string
	Lat     float64
	Lon     float64
	City    string
	Country string
}

type DeliveryPolicy struct {
	FreeRadiusKm float64
	MaxRadiusKm  float64
	PerKmRate    float64
}

type GeocoderConfig struct {
	BaseURL   string
	UserAgent string
	Language  string
	Interval  time.Duration
	Timeout   time.Duration
}

type CheckoutConfig struct {
	ClosedWeekday time.Weekday
	HorizonDays   int
	TimeSlots     []string
}

// PricingConfig holds the fallback ratios used when a product has no explicit variant price.
type PricingConfig struct {
	HalfDoseMultiplier float64
	FrozenMultiplier   float64
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Printf("Warning: .env file not found, using system environment variables")
	}

	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		GinMode:                 getEnv("GIN_MODE", "debug"),
		AllowedOrigin:           getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:5500"),
		DBDriver:                getEnv("DB_DRIVER", "sqlite"),
		DBDSN:                   getEnv("DB_DSN", "bakery.db"),
		StoreBackend:            getEnv("STORE_BACKEND", "gorm"),
		IdentityBackend:         getEnv("IDENTITY_BACKEND", "local"),
		FirebaseProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseCredentialsFile: os.Getenv("FIREBASE_CREDENTIALS_FILE"),
		FirebaseAPIKey:          os.Getenv("FIREBASE_API_KEY"),
		AdminEmail:              strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))),
		JWTSecret:               os.Getenv("JWT_SECRET"),
		SeedFile:                os.Getenv("SEED_FILE"),
		Store: StoreLocation{
			Name:    getEnv("STORE_NAME", "Padaria"),
			City:    getEnv("STORE_CITY", "Porto"),
			Country: getEnv("STORE_COUNTRY", "Portugal"),
		},
		Geocoder: GeocoderConfig{
			BaseURL:   getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
			UserAgent: getEnv("GEOCODER_USER_AGENT", "bakery-app/1.0"),
			Language:  getEnv("GEOCODER_LANGUAGE", "pt-PT"),
		},
	}

	var err error
	if cfg.ChangeInterval, err = getDuration("CHANGE_INTERVAL", 500*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.Store.Lat, err = getFloat("STORE_LAT", 41.1579); err != nil {
		return nil, err
	}
	if cfg.Store.Lon, err = getFloat("STORE_LON", -8.6291); err != nil {
		return nil, err
	}
	if cfg.Delivery.FreeRadiusKm, err = getFloat("DELIVERY_FREE_RADIUS_KM", 9); err != nil {
		return nil, err
	}
	if cfg.Delivery.MaxRadiusKm, err = getFloat("DELIVERY_MAX_RADIUS_KM", 30); err != nil {
		return nil, err
	}
	if cfg.Delivery.PerKmRate, err = getFloat("DELIVERY_PER_KM_RATE", 1.20); err != nil {
		return nil, err
	}
	if cfg.Geocoder.Interval, err = getDuration("GEOCODER_INTERVAL", time.Second); err != nil {
		return nil, err
	}
	if cfg.Geocoder.Timeout, err = getDuration("GEOCODER_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.Checkout.ClosedWeekday, err = getWeekday("CLOSED_WEEKDAY", time.Monday); err != nil {
		return nil, err
	}
	if cfg.Checkout.HorizonDays, err = getInt("CHECKOUT_HORIZON_DAYS", 30); err != nil {
		return nil, err
	}
	cfg.Checkout.TimeSlots = getList("CHECKOUT_TIME_SLOTS", DefaultTimeSlots)
	if cfg.Pricing.HalfDoseMultiplier, err = getFloat("HALF_DOSE_MULTIPLIER", 0.6); err != nil {
		return nil, err
	}
	if cfg.Pricing.FrozenMultiplier, err = getFloat("FROZEN_MULTIPLIER", 0.9); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		utils.InfoLogger.Printf("Warning: JWT_SECRET not found in environment, using development secret")
		cfg.JWTSecret = "bakery-dev-secret"
	}
	if cfg.AdminEmail == "" {
		utils.InfoLogger.Printf("Warning: ADMIN_EMAIL is not set, the back-office will reject every sign-in")
	}

	return cfg, cfg.Validate()
}

// DefaultTimeSlots are the delivery/pickup windows offered per day.
var DefaultTimeSlots = []string{"09:00", "10:00", "11:00", "12:00", "15:00", "16:00", "17:00", "18:00"}

// Validate catches settings that would make the fee policy or calendar meaningless.
func (c *Config) Validate() error {
	if c.Delivery.FreeRadiusKm < 0 || c.Delivery.MaxRadiusKm <= 0 {
		return fmt.Errorf("delivery radii must be positive")
	}
	if c.Delivery.FreeRadiusKm > c.Delivery.MaxRadiusKm {
		return fmt.Errorf("free delivery radius (%.1f km) exceeds max radius (%.1f km)", c.Delivery.FreeRadiusKm, c.Delivery.MaxRadiusKm)
	}
	if c.Delivery.PerKmRate < 0 {
		return fmt.Errorf("per-km rate must not be negative")
	}
	if c.Checkout.HorizonDays < 1 {
		return fmt.Errorf("CHECKOUT_HORIZON_DAYS must be at least 1")
	}
	if len(c.Checkout.TimeSlots) == 0 {
		return fmt.Errorf("at least one checkout time slot is required")
	}
	switch c.StoreBackend {
	case "gorm", "firestore", "memory":
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	switch c.IdentityBackend {
	case "local", "firebase":
	default:
		return fmt.Errorf("unknown IDENTITY_BACKEND %q", c.IdentityBackend)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getWeekday accepts either an English day name or 0-6 (Sunday = 0).
func getWeekday(key string, fallback time.Weekday) (time.Weekday, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	return ParseWeekday(raw)
}

func ParseWeekday(raw string) (time.Weekday, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("weekday %d out of range", n)
		}
		return time.Weekday(n), nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), raw) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", raw)
}
