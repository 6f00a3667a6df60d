package dto

import "github.com/Rajsingh66/event-scraper/internal/domain"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// ListEventsResponse is the paginated GET /api/events response.
type ListEventsResponse struct {
	Total  int            `json:"total"`
	Offset int            `json:"offset"`
	Limit  int            `json:"limit"`
	Events []domain.Event `json:"events"`
}

// TriggerScrapeResponse acknowledges a manually triggered pipeline run.
type TriggerScrapeResponse struct {
	Message    string   `json:"message"`
	Cities     []string `json:"cities"`
	Categories []string `json:"categories"`
	Timestamp  string   `json:"timestamp"`
}

// ConfigResponse exposes the current scraper configuration.
type ConfigResponse struct {
	Cities              []string `json:"cities"`
	Categories          []string `json:"categories"`
	ScrapeIntervalHours int      `json:"scrape_interval_hours"`
	Platforms           []string `json:"platforms"`
}
