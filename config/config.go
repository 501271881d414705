package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultRequestTimeout = 30 * time.Second
	defaultPort           = "8080"
)

// Regions accepted by both marketing APIs.
var Regions = []string{"us", "in", "eu"}

// Endpoints maps a region code to the base URL of one marketing API.
type Endpoints map[string]string

// Config holds everything the service reads from the environment, plus the
// fixed regional endpoint tables. Handlers receive it by value and treat it
// as immutable.
type Config struct {
	Port              string
	DatabaseURL       string
	RequestTimeout    time.Duration
	ContactEndpoints  Endpoints
	ActivityEndpoints Endpoints
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:           defaultPort,
		RequestTimeout: defaultRequestTimeout,
		ContactEndpoints: Endpoints{
			"us": "https://api.netcoresmartech.com/apiv2",
			"in": "https://apiin.netcoresmartech.com/apiv2",
			"eu": "https://jsonapi.eu-north-1.eu.netcoresmartech.com/apiv2",
		},
		ActivityEndpoints: Endpoints{
			"us": "https://api2.netcoresmartech.com/v1/activity/upload",
			"in": "https://api2in.netcoresmartech.com/v1/activity/upload",
			"eu": "https://api2eu.netcoresmartech.com/v1/activity/upload",
		},
	}

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		cfg.Port = v
	}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	if v := strings.TrimSpace(os.Getenv("API_REQUEST_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid API_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}

	// Per-region endpoint overrides, e.g. CONTACT_ENDPOINT_US for staging.
	for _, region := range Regions {
		upper := strings.ToUpper(region)
		if v := strings.TrimSpace(os.Getenv("CONTACT_ENDPOINT_" + upper)); v != "" {
			cfg.ContactEndpoints[region] = v
		}
		if v := strings.TrimSpace(os.Getenv("ACTIVITY_ENDPOINT_" + upper)); v != "" {
			cfg.ActivityEndpoints[region] = v
		}
	}

	return cfg, nil
}

// Resolve returns the endpoint for region, falling back to "us" the way the
// original console did for unknown region codes.
func (e Endpoints) Resolve(region string) string {
	if url, ok := e[region]; ok {
		return url
	}
	return e["us"]
}

// IsValidRegion reports whether region names one of the supported API regions.
func IsValidRegion(region string) bool {
	switch region {
	case "us", "in", "eu":
		return true
	default:
		return false
	}
}
