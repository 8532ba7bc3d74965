package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// defaultCities is the tracked set when WEATHER_CITIES is not provided.
var defaultCities = []string{"Delhi", "Mumbai", "Chennai", "Bangalore", "Kolkata", "Hyderabad"}

type AppConfig struct {
	OpenWeatherAPIKey string

	// Cities is the fixed city list both cycles walk, in order.
	Cities []string

	// FetchInterval controls how often the fetch cycle runs.
	FetchInterval time.Duration
	// AggregateInterval controls how often the daily aggregation runs.
	AggregateInterval time.Duration

	// AlertThresholdC is the Celsius value above which an alert is logged.
	AlertThresholdC float64

	// HTTPTimeout bounds outbound provider calls.
	HTTPTimeout time.Duration

	// SQLitePath selects the durable store; empty means in-memory.
	SQLitePath string

	Port      string
	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")

	fetchInterval, err := getenvDuration("FETCH_INTERVAL", "5m")
	if err != nil {
		return nil, err
	}
	cfg.FetchInterval = fetchInterval

	aggregateInterval, err := getenvDuration("AGGREGATE_INTERVAL", "24h")
	if err != nil {
		return nil, err
	}
	cfg.AggregateInterval = aggregateInterval

	threshold, err := getenvFloat("ALERT_THRESHOLD_C", 32.0)
	if err != nil {
		return nil, err
	}
	cfg.AlertThresholdC = threshold

	httpTimeout, err := getenvDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = httpTimeout

	cfg.SQLitePath = os.Getenv("SQLITE_PATH")
	cfg.Port = getenvDefault("PORT", "8080")
	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.LogFormat = getenvDefault("LOG_FORMAT", "console")

	cfg.Cities = loadCities()
	if len(cfg.Cities) == 0 {
		return nil, fmt.Errorf("no cities configured")
	}

	return cfg, nil
}

func loadCities() []string {
	raw := os.Getenv("WEATHER_CITIES")
	if raw == "" {
		return defaultCities
	}
	var cities []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			cities = append(cities, c)
		}
	}
	return cities
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
