package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Warehouse drivers.
const (
	DriverBigQuery = "bigquery"
	DriverPostgres = "postgres"
	DriverFixture  = "fixture"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Warehouse selection and connection settings.
	WarehouseDriver    string
	BigQueryProject    string
	BigQueryTable      string
	ServiceAccountJSON []byte
	ServiceAccountFile string
	PostgresURL        string
	PostgresTable      string
	FixturePath        string
	QueryTimeout       time.Duration

	// Dataset cache. A zero TTL disables caching.
	CacheTTL     time.Duration
	CacheBackend string
	CacheSize    int
	RedisURL     string

	// Map view.
	MapCenterLat   float64
	MapCenterLon   float64
	MapZoom        int
	MapCenterPlace string

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Render event publishing. Empty brokers disables it.
	KafkaBrokers     []string
	KafkaRenderTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	queryTimeout, err := parseDuration("QUERY_TIMEOUT", "0s", true)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration("CACHE_TTL", "0s", true)
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := parseDuration("MAPBOX_TIMEOUT", "5s", false)
	if err != nil {
		return nil, err
	}

	cacheSize, err := parsePositiveInt("CACHE_SIZE", 16)
	if err != nil {
		return nil, err
	}
	mapZoom, err := parsePositiveInt("MAP_ZOOM", 12)
	if err != nil {
		return nil, err
	}
	centerLat, err := parseFloat("MAP_CENTER_LAT", 37.3382)
	if err != nil {
		return nil, err
	}
	centerLon, err := parseFloat("MAP_CENTER_LON", -121.8863)
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		WarehouseDriver:    strings.ToLower(sharedcfg.EnvOrDefault("WAREHOUSE_DRIVER", DriverBigQuery)),
		BigQueryProject:    sharedcfg.EnvOrDefault("BIGQUERY_PROJECT", "homework-1-452605"),
		BigQueryTable:      sharedcfg.EnvOrDefault("BIGQUERY_TABLE", "homework-1-452605.survery_1309.survey_table"),
		ServiceAccountJSON: []byte(os.Getenv("GCP_SERVICE_ACCOUNT_JSON")),
		ServiceAccountFile: os.Getenv("GCP_SERVICE_ACCOUNT_FILE"),
		PostgresURL:        os.Getenv("POSTGRES_URL"),
		PostgresTable:      sharedcfg.EnvOrDefault("POSTGRES_TABLE", "facilities"),
		FixturePath:        sharedcfg.EnvOrDefault("FIXTURE_PATH", "data/mock/facilities.json"),
		QueryTimeout:       queryTimeout,

		CacheTTL:     cacheTTL,
		CacheBackend: strings.ToLower(sharedcfg.EnvOrDefault("CACHE_BACKEND", CacheMemory)),
		CacheSize:    cacheSize,
		RedisURL:     os.Getenv("REDIS_URL"),

		MapCenterLat:   centerLat,
		MapCenterLon:   centerLon,
		MapZoom:        mapZoom,
		MapCenterPlace: os.Getenv("MAP_CENTER_PLACE"),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),

		KafkaBrokers:     brokers,
		KafkaRenderTopic: sharedcfg.EnvOrDefault("KAFKA_RENDER_TOPIC", "dashboard-render-passes"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.WarehouseDriver {
	case DriverBigQuery:
		if c.BigQueryProject == "" {
			return errors.New("BIGQUERY_PROJECT is required")
		}
		if c.BigQueryTable == "" {
			return errors.New("BIGQUERY_TABLE is required")
		}
	case DriverPostgres:
		if c.PostgresURL == "" {
			return errors.New("WAREHOUSE_DRIVER is postgres but POSTGRES_URL is not set")
		}
		if c.PostgresTable == "" {
			return errors.New("POSTGRES_TABLE is required")
		}
	case DriverFixture:
		if c.FixturePath == "" {
			return errors.New("FIXTURE_PATH is required")
		}
	default:
		return fmt.Errorf("invalid WAREHOUSE_DRIVER %q", c.WarehouseDriver)
	}

	switch c.CacheBackend {
	case CacheMemory:
	case CacheRedis:
		if c.CacheTTL > 0 && c.RedisURL == "" {
			return errors.New("CACHE_BACKEND is redis but REDIS_URL is not set")
		}
	default:
		return fmt.Errorf("invalid CACHE_BACKEND %q", c.CacheBackend)
	}

	if c.MapCenterLat < -90 || c.MapCenterLat > 90 {
		return errors.New("MAP_CENTER_LAT must be within [-90, 90]")
	}
	if c.MapCenterLon < -180 || c.MapCenterLon > 180 {
		return errors.New("MAP_CENTER_LON must be within [-180, 180]")
	}
	if c.MapboxEnabled && c.MapboxToken == "" {
		return errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	return nil
}

// ServiceAccount returns the credential blob, reading GCP_SERVICE_ACCOUNT_FILE
// when no inline JSON is configured. An empty result is left for the
// warehouse adapter to reject.
func (c *Config) ServiceAccount() ([]byte, error) {
	if len(c.ServiceAccountJSON) > 0 || c.ServiceAccountFile == "" {
		return c.ServiceAccountJSON, nil
	}
	b, err := os.ReadFile(c.ServiceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("read GCP_SERVICE_ACCOUNT_FILE: %w", err)
	}
	return b, nil
}

func parseDuration(key, def string, allowZero bool) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d < 0 || (!allowZero && d == 0) {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return f, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
