package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/utils"
)

const (
	ReasonNotFound    = "address not found"
	ReasonUnavailable = "address lookup is unavailable right now, please try again"
)

var postalCodePattern = regexp.MustCompile(`^\d{4}-\d{3}$`)

// NormalizePostalCode accepts "4000-123" or "4000123" and returns "4000-123".
func NormalizePostalCode(raw string) (string, error) {
	code := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	if len(code) == 7 && !strings.Contains(code, "-") {
		code = code[:4] + "-" + code[4:]
	}
	if !postalCodePattern.MatchString(code) {
		return "", models.NewValidationError("postal code must look like 1234-567")
	}
	return code, nil
}

// Resolution is the outcome of an address lookup. A miss is a normal result,
// not an error.
type Resolution struct {
	Found       bool   `json:"found"`
	Point       Point  `json:"point"`
	DisplayName string `json:"display_name,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

type Resolver interface {
	Resolve(ctx context.Context, postalCode, street string) (Resolution, error)
}

type GeocoderConfig struct {
	BaseURL   string
	UserAgent string
	Language  string
	City      string
	Country   string
	// Interval is the minimum pause between two requests to the service.
	Interval time.Duration
	Timeout  time.Duration
}

// Geocoder resolves addresses against a Nominatim-compatible search API.
type Geocoder struct {
	cfg        GeocoderConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewGeocoder(cfg GeocoderConfig, httpClient *http.Client) *Geocoder {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	limit := rate.Inf
	if cfg.Interval > 0 {
		limit = rate.Every(cfg.Interval)
	}
	return &Geocoder{
		cfg:        cfg,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Resolve tries street+postal, street+city and postal-only, in that order,
// and returns the first match.
func (g *Geocoder) Resolve(ctx context.Context, postalCode, street string) (Resolution, error) {
	postal, err := NormalizePostalCode(postalCode)
	if err != nil {
		return Resolution{}, err
	}
	street = strings.TrimSpace(street)

	serviceFailed := false
	for _, query := range g.variants(postal, street) {
		if err := g.limiter.Wait(ctx); err != nil {
			return Resolution{Reason: ReasonUnavailable}, nil
		}
		res, err := g.search(ctx, query)
		entry := utils.InfoLogger.WithFields(logrus.Fields{"query": query.Encode()})
		if err != nil {
			serviceFailed = true
			entry.WithError(err).Warn("geocoding attempt failed")
			continue
		}
		if res == nil {
			entry.Debug("geocoding attempt had no match")
			continue
		}
		entry.WithField("match", res.DisplayName).Info("address resolved")
		return *res, nil
	}

	if serviceFailed {
		return Resolution{Reason: ReasonUnavailable}, nil
	}
	return Resolution{Reason: ReasonNotFound}, nil
}

func (g *Geocoder) variants(postal, street string) []url.Values {
	var out []url.Values
	if street != "" {
		out = append(out,
			url.Values{"q": {fmt.Sprintf("%s, %s, %s", street, postal, g.cfg.Country)}},
			url.Values{"q": {fmt.Sprintf("%s, %s, %s", street, g.cfg.City, g.cfg.Country)}},
		)
	}
	out = append(out, url.Values{"postalcode": {postal}, "country": {g.cfg.Country}})
	return out
}

func (g *Geocoder) search(ctx context.Context, query url.Values) (*Resolution, error) {
	query.Set("format", "json")
	query.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(g.cfg.BaseURL, "/")+"/search?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", g.cfg.UserAgent)
	if g.cfg.Language != "" {
		req.Header.Set("Accept-Language", g.cfg.Language)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode geocoder response: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", results[0].Lon, err)
	}
	return &Resolution{
		Found:       true,
		Point:       Point{Lat: lat, Lon: lon},
		DisplayName: results[0].DisplayName,
	}, nil
}
