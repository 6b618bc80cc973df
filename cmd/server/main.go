package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"grocery-route-service/internal/adapters/cache"
	"grocery-route-service/internal/adapters/pricing"
	"grocery-route-service/internal/adapters/repositories"
	"grocery-route-service/internal/adapters/routing"
	"grocery-route-service/internal/api"
	"grocery-route-service/internal/api/handlers"
	"grocery-route-service/internal/config"
	"grocery-route-service/internal/domain"
	"grocery-route-service/internal/platform/db"
	"grocery-route-service/internal/platform/obs"
	"grocery-route-service/internal/ports"
)

// main is the application composition root.
// It wires concrete adapters (SQL, routing and price providers) behind ports
// and starts the HTTP server.
func main() {
	config.Load()
	cfg := config.FromEnv()
	obs.Setup(cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, dialect, err := openDB(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer conn.Close()

	travel, err := newRouting(cfg, conn, dialect)
	if err != nil {
		log.Fatal().Err(err).Msg("configure routing")
	}

	prices, err := newPrices(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("configure prices")
	}

	penalty := cfg.MissingItemPenalty
	optimize := &handlers.OptimizeHandler{
		Prices:             prices,
		Routing:            travel,
		Geocoder:           newGeocoder(cfg, conn, dialect),
		DefaultHourlyRate:  cfg.DefaultHourlyRate,
		MissingItemPenalty: &penalty,
		MaxStores:          cfg.MaxStores,
	}
	if cfg.ServiceAreaOnly {
		optimize.ServiceArea = domain.WestBayBounds
	}

	repo := repositories.NewSQLStoreRepository(conn)
	router := api.NewRouter(repo, optimize)

	// Timeouts are tuned for cold-cache planning (external API latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("server shutdown")
		}
	}()

	log.Info().
		Str("addr", srv.Addr).
		Str("db", dialect.String()).
		Str("routing", cfg.RoutingProvider).
		Str("prices", cfg.PriceProvider).
		Msg("server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// openDB prefers Postgres when DATABASE_URL is set and falls back to a local
// SQLite file, which is initialized and seeded on startup.
func openDB(ctx context.Context, cfg config.AppConfig) (*sql.DB, db.Dialect, error) {
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, db.Postgres, err
		}
		if err := repositories.InitSchema(ctx, conn, db.Postgres); err != nil {
			conn.Close()
			return nil, db.Postgres, err
		}
		return conn, db.Postgres, nil
	}

	conn, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, db.SQLite, err
	}
	if err := initAndSeed(ctx, conn, db.SQLite, cfg.SeedPath); err != nil {
		conn.Close()
		return nil, db.SQLite, err
	}
	return conn, db.SQLite, nil
}

func initAndSeed(ctx context.Context, conn *sql.DB, dialect db.Dialect, seedPath string) error {
	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(ctx, conn, dialect, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

// newRouting picks the travel provider. Remote providers sit behind the
// persistent travel cache; the haversine estimate is cheap enough to skip it.
func newRouting(cfg config.AppConfig, conn *sql.DB, dialect db.Dialect) (ports.RoutingSource, error) {
	var remote ports.RoutingSource
	switch cfg.RoutingProvider {
	case "", "haversine":
		return routing.NewHaversineRouter(), nil
	case "google":
		g, err := routing.NewGoogleMapsRouter(cfg.GoogleMapsAPIKey)
		if err != nil {
			return nil, err
		}
		remote = g
	case "ors":
		o, err := routing.NewORSRouter(cfg.ORSAPIKey)
		if err != nil {
			return nil, err
		}
		remote = o
	default:
		return nil, fmt.Errorf("unknown routing provider %q", cfg.RoutingProvider)
	}

	travelCache := cache.NewSQLTravelCache(conn, dialect, cfg.TravelCacheMaxAge)
	return routing.NewCachedRouter(remote, travelCache), nil
}

// newGeocoder returns nil when no geocoding key is configured; the API then
// only accepts home coordinates.
func newGeocoder(cfg config.AppConfig, conn *sql.DB, dialect db.Dialect) ports.Geocoder {
	if strings.TrimSpace(cfg.ORSAPIKey) == "" {
		return nil
	}
	g, err := routing.NewORSGeocoder(cfg.ORSAPIKey)
	if err != nil {
		log.Warn().Err(err).Msg("geocoding disabled")
		return nil
	}
	return routing.NewCachedGeocoder(g, cache.NewSQLGeocodeCache(conn, dialect))
}

// newPrices builds the price chain: the live provider first, then the local
// fixture for whatever it could not price. Redis caching wraps the chain.
func newPrices(ctx context.Context, cfg config.AppConfig) (ports.PriceSource, error) {
	fixture, fixtureErr := pricing.LoadFixtureSource(cfg.PriceFixturePath)

	var source ports.PriceSource
	switch cfg.PriceProvider {
	case "", "fixture":
		if fixtureErr != nil {
			return nil, fixtureErr
		}
		return fixture, nil
	case "serpapi":
		s, err := pricing.NewSerpAPISource(cfg.SerpAPIKey)
		if err != nil {
			return nil, err
		}
		source = s
	case "html":
		sites, err := pricing.LoadSiteConfigs(cfg.HTMLSitesPath)
		if err != nil {
			return nil, err
		}
		source = pricing.NewHTMLSource(sites, &http.Client{Timeout: 10 * time.Second})
	default:
		return nil, fmt.Errorf("unknown price provider %q", cfg.PriceProvider)
	}

	if fixtureErr != nil {
		log.Warn().Err(fixtureErr).Msg("price fixture unavailable, no fallback prices")
	} else {
		source = pricing.ChainSource{source, fixture}
	}

	if cfg.RedisURL == "" {
		return source, nil
	}
	client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	return pricing.NewCachedSource(source, cache.NewRedisPriceCache(client, cfg.PriceCacheTTL)), nil
}
