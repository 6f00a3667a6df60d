// Command pipeline runs one ingestion cycle and exits. Useful for cron-style
// deployments and for ad-hoc backfills.
package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Rajsingh66/event-scraper/internal/config"
	"github.com/Rajsingh66/event-scraper/internal/dedup"
	"github.com/Rajsingh66/event-scraper/internal/logger"
	"github.com/Rajsingh66/event-scraper/internal/pipeline"
	"github.com/Rajsingh66/event-scraper/internal/scraper"
	"github.com/Rajsingh66/event-scraper/internal/store/sheets"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		_ = log.Sync()
	}(log)

	ctx := context.Background()

	sheetsClient, err := sheets.NewClient(ctx, cfg.Sheets, log)
	if err != nil {
		log.Fatal("Failed to create Sheets client", zap.Error(err))
	}

	eventStore := sheets.NewStore(sheetsClient, log)
	if err := eventStore.EnsureSheets(ctx); err != nil {
		log.Fatal("Worksheet setup failed", zap.Error(err))
	}

	fallback := scraper.FallbackNone
	if cfg.Scraper.DemoFallback {
		fallback = scraper.FallbackDemo
	}
	opts := scraper.Options{Fallback: fallback, Log: log}

	p := pipeline.New(pipeline.Config{
		Scrapers: []scraper.Scraper{
			scraper.NewEventbrite(opts),
			scraper.NewMeetup(opts),
			scraper.NewAllevents(opts),
		},
		Store:       eventStore,
		Matcher:     dedup.NewMatcher(cfg.Dedup.FuzzyThreshold),
		Cities:      cfg.Scraper.Cities,
		Categories:  cfg.Scraper.Categories,
		Concurrency: cfg.Scraper.Concurrency,
	}, log)

	summary, err := p.Run(ctx)
	if err != nil {
		log.Fatal("Pipeline run failed", zap.Error(err))
	}

	log.Info("Pipeline run complete",
		zap.String("run_id", summary.RunID),
		zap.Int("scraped", summary.Scraped),
		zap.Int("new", summary.New),
		zap.Float64("dup_rate", summary.DupRate))
}
