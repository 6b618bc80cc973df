package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"gopkg.in/yaml.v3"

	"grocery-route-service/internal/domain"
	"grocery-route-service/internal/platform/obs"
)

// SiteConfig describes how to search one store's website.
type SiteConfig struct {
	// SearchURL contains "{query}", replaced by the escaped ingredient.
	SearchURL          string    `yaml:"search_url"`
	Selectors          Selectors `yaml:"selectors"`
	DisallowedKeywords []string  `yaml:"disallowed_keywords"`
}

type Selectors struct {
	ProductRow string `yaml:"product_row"`
	Name       string `yaml:"name"`
	Price      string `yaml:"price"`
	OutOfStock string `yaml:"out_of_stock"`
}

type sitesFile struct {
	Sites map[string]SiteConfig `yaml:"sites"`
}

// LoadSiteConfigs reads per-store scraping settings from YAML, keyed by store name.
func LoadSiteConfigs(path string) (map[string]SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sites config at '%s': %w", path, err)
	}

	var f sitesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse sites config: %w", err)
	}
	for name, site := range f.Sites {
		if !strings.Contains(site.SearchURL, "{query}") || site.Selectors.ProductRow == "" || site.Selectors.Price == "" {
			return nil, fmt.Errorf("sites config %q: search_url with {query}, product_row and price are required", name)
		}
	}
	return f.Sites, nil
}

// ErrNoSiteConfig is returned for stores without a scraping configuration.
var ErrNoSiteConfig = errors.New("no site config for store")

// HTMLSource scrapes search result pages of store websites.
type HTMLSource struct {
	session *http.Client
	sites   map[string]SiteConfig
}

func NewHTMLSource(sites map[string]SiteConfig, client *http.Client) *HTMLSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTMLSource{session: client, sites: sites}
}

func (h *HTMLSource) StorePrices(ctx context.Context, store domain.Store, ingredients []string) (_ map[string]float64, err error) {
	defer obs.Time(ctx, "html.StorePrices")(&err)

	site, ok := h.sites[store.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSiteConfig, store.Name)
	}

	logger := obs.Component("scraper")
	out := make(map[string]float64, len(ingredients))
	var lastErr error

	for _, ing := range ingredients {
		p, err := h.fetchIngredient(ctx, site, ing)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn().Str("store", store.Name).Str("ingredient", ing).Err(err).Msg("scrape failed")
			lastErr = err
			continue
		}
		out[ing] = p
	}

	if len(out) == 0 && lastErr != nil {
		return nil, fmt.Errorf("scrape %q: %w", store.Name, lastErr)
	}
	return out, nil
}

func (h *HTMLSource) fetchIngredient(ctx context.Context, site SiteConfig, ingredient string) (float64, error) {
	u := strings.ReplaceAll(site.SearchURL, "{query}", url.QueryEscape(ingredient))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := h.session.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("parse html: %w", err)
	}

	return cheapestOnPage(doc, site, ingredient), nil
}

// cheapestOnPage returns the lowest in-stock price among rows whose name
// mentions ingredient, or +Inf when none does.
func cheapestOnPage(doc *goquery.Document, site SiteConfig, ingredient string) float64 {
	sel := site.Selectors
	want := normalizeName(ingredient)
	best := math.Inf(1)

	doc.Find(sel.ProductRow).Each(func(_ int, s *goquery.Selection) {
		name := s.Text()
		if sel.Name != "" {
			name = s.Find(sel.Name).First().Text()
		}
		name = normalizeName(name)
		if !strings.Contains(name, want) {
			return
		}

		for _, kw := range site.DisallowedKeywords {
			if strings.Contains(name, strings.ToLower(kw)) {
				return
			}
		}

		if sel.OutOfStock != "" && s.Find(sel.OutOfStock).Length() > 0 {
			return
		}

		p, ok := parsePrice(s.Find(sel.Price).First().Text())
		if ok && p < best {
			best = p
		}
	})

	return best
}
