package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Load reads a .env file into the process environment when one exists.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found (using environment variables)")
	}
}

// Get returns the trimmed value of key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetFloat(key string, fallback float64) float64 {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid float in environment, using default")
		return fallback
	}
	return f
}

func GetInt(key string, fallback int) int {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid int in environment, using default")
		return fallback
	}
	return n
}

func GetBool(key string, fallback bool) bool {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid duration in environment, using default")
		return fallback
	}
	return d
}

// AppConfig holds every setting the binaries read from the environment.
type AppConfig struct {
	Port        string
	DatabaseURL string // postgres; takes precedence over DBPath
	DBPath      string // sqlite
	SeedPath    string
	RedisURL    string

	RoutingProvider  string // haversine | google | ors
	GoogleMapsAPIKey string
	ORSAPIKey        string

	PriceProvider    string // fixture | serpapi | html
	PriceFixturePath string
	SerpAPIKey       string
	HTMLSitesPath    string
	PriceCacheTTL    time.Duration

	TravelCacheMaxAge time.Duration

	DefaultHourlyRate  float64
	MissingItemPenalty float64
	MaxStores          int
	ServiceAreaOnly    bool

	LogLevel  string
	LogPretty bool
}

func FromEnv() AppConfig {
	return AppConfig{
		Port:        Get("PORT", "8080"),
		DatabaseURL: Get("DATABASE_URL", ""),
		DBPath:      Get("DB_PATH", "data/app.db"),
		SeedPath:    Get("SEED_PATH", "data/seeds/stores.json"),
		RedisURL:    Get("REDIS_URL", ""),

		RoutingProvider:  strings.ToLower(Get("ROUTING_PROVIDER", "haversine")),
		GoogleMapsAPIKey: Get("GOOGLE_MAPS_API_KEY", ""),
		ORSAPIKey:        Get("ORS_API_KEY", ""),

		PriceProvider:    strings.ToLower(Get("PRICE_PROVIDER", "fixture")),
		PriceFixturePath: Get("PRICE_FIXTURE_PATH", "data/seeds/prices.yaml"),
		SerpAPIKey:       Get("SERPAPI_API_KEY", ""),
		HTMLSitesPath:    Get("HTML_SITES_PATH", "data/sites.yaml"),
		PriceCacheTTL:    GetDuration("PRICE_CACHE_TTL", 4*time.Hour),

		TravelCacheMaxAge: GetDuration("TRAVEL_CACHE_MAX_AGE", 7*24*time.Hour),

		DefaultHourlyRate:  GetFloat("DEFAULT_HOURLY_RATE", 20),
		MissingItemPenalty: GetFloat("MISSING_ITEM_PENALTY", 10),
		MaxStores:          GetInt("MAX_STORES", 5),
		ServiceAreaOnly:    GetBool("SERVICE_AREA_ONLY", false),

		LogLevel:  Get("LOG_LEVEL", "info"),
		LogPretty: GetBool("LOG_PRETTY", false),
	}
}
