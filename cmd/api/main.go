package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Rajsingh66/event-scraper/internal/config"
	"github.com/Rajsingh66/event-scraper/internal/dedup"
	"github.com/Rajsingh66/event-scraper/internal/handler"
	"github.com/Rajsingh66/event-scraper/internal/logger"
	"github.com/Rajsingh66/event-scraper/internal/pipeline"
	"github.com/Rajsingh66/event-scraper/internal/scheduler"
	"github.com/Rajsingh66/event-scraper/internal/scraper"
	"github.com/Rajsingh66/event-scraper/internal/service"
	"github.com/Rajsingh66/event-scraper/internal/store/sheets"
)

func main() {
	// .env is optional; real deployments set the environment directly.
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

	log.Info("Starting API service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sheetsClient, err := sheets.NewClient(ctx, cfg.Sheets, log)
	if err != nil {
		log.Fatal("Failed to create Sheets client", zap.Error(err))
	}

	eventStore := sheets.NewStore(sheetsClient, log)
	if err := eventStore.EnsureSheets(ctx); err != nil {
		log.Warn("Worksheet setup failed, continuing with existing layout", zap.Error(err))
	}

	fallback := scraper.FallbackNone
	if cfg.Scraper.DemoFallback {
		fallback = scraper.FallbackDemo
	}
	opts := scraper.Options{Fallback: fallback, Log: log}
	scrapers := []scraper.Scraper{
		scraper.NewEventbrite(opts),
		scraper.NewMeetup(opts),
		scraper.NewAllevents(opts),
	}

	platforms := make([]string, 0, len(scrapers))
	for _, s := range scrapers {
		platforms = append(platforms, s.Platform())
	}

	p := pipeline.New(pipeline.Config{
		Scrapers:    scrapers,
		Store:       eventStore,
		Matcher:     dedup.NewMatcher(cfg.Dedup.FuzzyThreshold),
		Cities:      cfg.Scraper.Cities,
		Categories:  cfg.Scraper.Categories,
		Concurrency: cfg.Scraper.Concurrency,
	}, log)

	eventService := service.NewEventService(eventStore, p,
		cfg.Scraper.Cities, cfg.Scraper.Categories, platforms,
		cfg.Scraper.IntervalHours, log)

	h := handler.NewHandler(eventService, log)

	sched := scheduler.New(p, cfg.Scraper.IntervalHours, log)
	if err := sched.Start(ctx); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Service.APIPort),
		Handler: h,
	}

	go func() {
		log.Info("API server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start API server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
}
