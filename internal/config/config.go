package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds the runtime configuration for the service. Values come
// from environment variables with defaults matching the BoM products this
// deployment tracks (Saltwater River district, Dunalley station).
type AppConfig struct {
	// BaseURL is the BoM fwo file area serving both products.
	BaseURL string

	// ForecastAreaID identifies the précis forecast district; stored as
	// the station_id of every forecast row.
	ForecastAreaID string

	// ObservationStationID identifies the observing station; stored as
	// the station_id of every observation row.
	ObservationStationID string

	// RetentionDays is the retention horizon. Read once at pipeline
	// start; rows older than now minus this many days are purged.
	RetentionDays int

	// HTTPTimeout bounds every outbound fetch.
	HTTPTimeout time.Duration

	// IngestInterval controls how often serve mode runs an ingestion
	// cycle.
	IngestInterval time.Duration

	// DatabasePath is the sqlite file backing the record store.
	DatabasePath string

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		BaseURL:              getenvDefault("BOM_BASE_URL", "http://www.bom.gov.au/fwo"),
		ForecastAreaID:       getenvDefault("FORECAST_AREA_ID", "IDT16710"),
		ObservationStationID: getenvDefault("OBSERVATION_STATION_ID", "94951"),
		RetentionDays:        getenvInt("RETENTION_DAYS", 14),
		DatabasePath:         getenvDefault("DATABASE_PATH", "weather_data.db"),
		Port:                 getenvDefault("PORT", "8080"),
	}

	if cfg.RetentionDays <= 0 {
		return nil, fmt.Errorf("RETENTION_DAYS must be positive, got %d", cfg.RetentionDays)
	}

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "15s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	intervalStr := getenvDefault("INGEST_INTERVAL", "1h")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid INGEST_INTERVAL: %w", err)
	}
	cfg.IngestInterval = interval

	return cfg, nil
}

// RetentionHorizon returns the retention window as a duration.
func (c *AppConfig) RetentionHorizon() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
