package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every tunable the service reads from the environment.
type Config struct {
	Service Service
	Sheets  Sheets
	Scraper Scraper
	Dedup   Dedup
}

type Service struct {
	Environment string `envconfig:"SERVICE_ENVIRONMENT" default:"development"`
	APIPort     string `envconfig:"SERVICE_API_PORT" default:"8000"`
}

type Sheets struct {
	SpreadsheetID   string `envconfig:"SPREADSHEET_ID" required:"true"`
	CredentialsJSON string `envconfig:"GOOGLE_CREDENTIALS_JSON"`
	CredentialsPath string `envconfig:"GOOGLE_CREDENTIALS_PATH" default:"credentials.json"`
}

type Scraper struct {
	Cities        []string `envconfig:"SCRAPER_CITIES" default:"Mumbai,Delhi,Bangalore,Pune"`
	Categories    []string `envconfig:"SCRAPER_CATEGORIES" default:"technology,music,business"`
	IntervalHours int      `envconfig:"SCRAPE_INTERVAL_HOURS" default:"2"`
	Concurrency   int      `envconfig:"SCRAPER_CONCURRENCY" default:"5"`
	DemoFallback  bool     `envconfig:"SCRAPER_DEMO_FALLBACK" default:"true"`
}

type Dedup struct {
	FuzzyThreshold int `envconfig:"FUZZY_MATCH_THRESHOLD" default:"85"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
