// Package service implements the read-side operations behind the HTTP API.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Rajsingh66/event-scraper/internal/analytics"
	"github.com/Rajsingh66/event-scraper/internal/dto"
	"github.com/Rajsingh66/event-scraper/internal/pipeline"
	"github.com/Rajsingh66/event-scraper/internal/store"
)

// PipelineRunner triggers one ingestion run.
type PipelineRunner interface {
	Run(ctx context.Context) (pipeline.Summary, error)
}

// EventServicer is the service contract the HTTP handlers depend on.
type EventServicer interface {
	ListEvents(ctx context.Context, req *dto.ListEventsRequest) (*dto.ListEventsResponse, error)
	GetStats(ctx context.Context) (map[string]string, error)
	GetDashboard(ctx context.Context) (*analytics.Dashboard, error)
	TriggerScrape() *dto.TriggerScrapeResponse
	Config() *dto.ConfigResponse
}

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// EventService serves event queries from the store and hands scrape triggers
// to the pipeline.
type EventService struct {
	store      store.EventStore
	runner     PipelineRunner
	cities     []string
	categories []string
	interval   int
	platforms  []string
	log        *zap.Logger
}

// NewEventService creates a new event service.
func NewEventService(st store.EventStore, runner PipelineRunner, cities, categories, platforms []string, intervalHours int, log *zap.Logger) *EventService {
	return &EventService{
		store:      st,
		runner:     runner,
		cities:     cities,
		categories: categories,
		interval:   intervalHours,
		platforms:  platforms,
		log:        log,
	}
}

// ListEvents returns the stored events matching the request filters, paginated
// after filtering so Total reflects the filtered count.
func (s *EventService) ListEvents(ctx context.Context, req *dto.ListEventsRequest) (*dto.ListEventsResponse, error) {
	events, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	filtered := events[:0:0]
	city := strings.ToLower(req.City)
	platform := strings.ToLower(req.Platform)
	category := strings.ToLower(req.Category)

	for _, e := range events {
		if city != "" && !strings.Contains(strings.ToLower(e.City), city) {
			continue
		}
		if platform != "" && strings.ToLower(e.Platform) != platform {
			continue
		}
		if category != "" && !strings.Contains(strings.ToLower(e.Category), category) {
			continue
		}
		switch req.IsFree {
		case "true":
			if !e.IsFree {
				continue
			}
		case "false":
			if e.IsFree {
				continue
			}
		}
		filtered = append(filtered, e)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	page := filtered
	if offset >= len(page) {
		page = page[:0]
	} else {
		page = page[offset:]
	}
	if len(page) > limit {
		page = page[:limit]
	}

	return &dto.ListEventsResponse{
		Total:  len(filtered),
		Offset: offset,
		Limit:  limit,
		Events: page,
	}, nil
}

// GetStats returns the persisted aggregate stats.
func (s *EventService) GetStats(ctx context.Context) (map[string]string, error) {
	stats, err := s.store.LoadStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	return stats, nil
}

// GetDashboard computes the dashboard payload from the full stored set.
func (s *EventService) GetDashboard(ctx context.Context) (*analytics.Dashboard, error) {
	events, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	return analytics.ComputeDashboard(events, time.Now().UTC()), nil
}

// TriggerScrape starts a pipeline run in the background and acknowledges
// immediately. The run outlives the HTTP request, so it gets its own context.
func (s *EventService) TriggerScrape() *dto.TriggerScrapeResponse {
	go func() {
		if _, err := s.runner.Run(context.Background()); err != nil {
			s.log.Error("Triggered pipeline run failed", zap.Error(err))
		}
	}()

	return &dto.TriggerScrapeResponse{
		Message:    "scrape started",
		Cities:     s.cities,
		Categories: s.categories,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
}

// Config reports the active scraper configuration.
func (s *EventService) Config() *dto.ConfigResponse {
	return &dto.ConfigResponse{
		Cities:              s.cities,
		Categories:          s.categories,
		ScrapeIntervalHours: s.interval,
		Platforms:           s.platforms,
	}
}
