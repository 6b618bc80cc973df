package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"grocery-route-service/internal/domain"
	"grocery-route-service/internal/platform/obs"
)

const (
	serpBaseURL     = "https://serpapi.com/search"
	serpBatchSize   = 5
	serpMaxAttempts = 3
	// DefaultSerpLocation keeps results inside the San Francisco Bay Area.
	DefaultSerpLocation = "San Francisco, CA 94103"
)

// ErrRateLimited is returned when SerpAPI answers 429 before any price was fetched.
var ErrRateLimited = errors.New("serpapi: rate limited")

type shoppingResponse struct {
	ShoppingResults []struct {
		Title          string   `json:"title"`
		Source         string   `json:"source"`
		Price          string   `json:"price"`
		ExtractedPrice *float64 `json:"extracted_price"`
	} `json:"shopping_results"`
	Error string `json:"error"`
}

type serpStatusError struct {
	Code       int
	RetryAfter string
}

func (e *serpStatusError) Error() string {
	return fmt.Sprintf("serpapi: status %d", e.Code)
}

// SerpAPISource looks up Google Shopping offers through SerpAPI and keeps
// the cheapest offer sold by the requested store.
type SerpAPISource struct {
	session  *http.Client
	apiKey   string
	baseURL  string
	location string
	limiter  *rate.Limiter
	backoff  time.Duration
}

type SerpOption func(*SerpAPISource)

func WithSerpBaseURL(u string) SerpOption { return func(s *SerpAPISource) { s.baseURL = u } }

func WithSerpLocation(loc string) SerpOption { return func(s *SerpAPISource) { s.location = loc } }

func WithSerpRateLimit(l *rate.Limiter) SerpOption { return func(s *SerpAPISource) { s.limiter = l } }

func WithSerpBackoff(d time.Duration) SerpOption { return func(s *SerpAPISource) { s.backoff = d } }

func NewSerpAPISource(apiKey string, opts ...SerpOption) (*SerpAPISource, error) {
	if apiKey == "" {
		return nil, errors.New("serpapi api key is empty")
	}

	s := &SerpAPISource{
		session:  &http.Client{Timeout: 10 * time.Second},
		apiKey:   apiKey,
		baseURL:  serpBaseURL,
		location: DefaultSerpLocation,
		limiter:  rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		backoff:  time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// StorePrices fetches ingredients in batches. A 429 stops further batches
// and the prices fetched so far are returned without error; other
// per-ingredient failures are logged and leave that ingredient out.
func (s *SerpAPISource) StorePrices(ctx context.Context, store domain.Store, ingredients []string) (_ map[string]float64, err error) {
	defer obs.Time(ctx, "serpapi.StorePrices")(&err)
	logger := obs.Component("serpapi")

	var mu sync.Mutex
	out := make(map[string]float64, len(ingredients))
	var failures []error
	limited := false

	for start := 0; start < len(ingredients) && !limited; start += serpBatchSize {
		batch := ingredients[start:min(start+serpBatchSize, len(ingredients))]

		var eg errgroup.Group
		for _, ing := range batch {
			eg.Go(func() error {
				p, err := s.fetchIngredient(ctx, store.Name, ing)

				mu.Lock()
				defer mu.Unlock()

				var se *serpStatusError
				switch {
				case errors.As(err, &se) && se.Code == http.StatusTooManyRequests:
					limited = true
					failures = append(failures, err)
				case err != nil:
					failures = append(failures, fmt.Errorf("%s: %w", ing, err))
				default:
					out[ing] = p
				}
				return nil
			})
		}
		_ = eg.Wait()

		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	if limited {
		logger.Warn().Str("store", store.Name).Int("fetched", len(out)).Msg("rate limited, returning partial prices")
		if len(out) == 0 {
			return nil, ErrRateLimited
		}
		return out, nil
	}

	if len(failures) > 0 {
		logger.Warn().Str("store", store.Name).Int("errors", len(failures)).Err(failures[0]).Msg("some prices could not be fetched")
		if len(out) == 0 {
			return nil, fmt.Errorf("serpapi %q: %w", store.Name, errors.Join(failures...))
		}
	}
	return out, nil
}

// fetchIngredient returns the cheapest offer from storeName, or +Inf when the
// search succeeded but that store sells no match.
func (s *SerpAPISource) fetchIngredient(ctx context.Context, storeName, ingredient string) (float64, error) {
	backoff := s.backoff

	var lastErr error
	for attempt := 1; attempt <= serpMaxAttempts; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return 0, err
		}

		res, err := s.search(ctx, ingredient+" "+storeName)
		if err == nil {
			return cheapestFrom(res, storeName), nil
		}
		lastErr = err

		var se *serpStatusError
		if !errors.As(err, &se) || se.Code < 500 || attempt == serpMaxAttempts {
			return 0, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return 0, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}
	return 0, lastErr
}

func (s *SerpAPISource) search(ctx context.Context, query string) (*shoppingResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("engine", "google_shopping")
	q.Set("q", query)
	q.Set("api_key", s.apiKey)
	q.Set("google_domain", "google.com")
	q.Set("hl", "en")
	q.Set("gl", "us")
	q.Set("location", s.location)
	req.URL.RawQuery = q.Encode()

	resp, err := s.session.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &serpStatusError{Code: resp.StatusCode, RetryAfter: resp.Header.Get("Retry-After")}
	}

	var decoded shoppingResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode shopping response: %w", err)
	}
	if decoded.Error != "" && !strings.Contains(strings.ToLower(decoded.Error), "hasn't returned any results") {
		return nil, fmt.Errorf("serpapi: %s", decoded.Error)
	}
	return &decoded, nil
}

func cheapestFrom(res *shoppingResponse, storeName string) float64 {
	want := normalizeName(storeName)
	best := math.Inf(1)

	for _, r := range res.ShoppingResults {
		if !strings.Contains(normalizeName(r.Source), want) {
			continue
		}

		var p float64
		if r.ExtractedPrice != nil {
			p = *r.ExtractedPrice
		} else {
			var ok bool
			if p, ok = parsePrice(r.Price); !ok {
				continue
			}
		}
		if p >= 0 && p < best {
			best = p
		}
	}
	return best
}
