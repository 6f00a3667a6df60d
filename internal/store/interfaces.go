// Package store defines the persistence contracts the pipeline and API
// depend on; implementations live in subpackages.
package store

import (
	"context"

	"github.com/Rajsingh66/event-scraper/internal/analytics"
	"github.com/Rajsingh66/event-scraper/internal/dedup"
	"github.com/Rajsingh66/event-scraper/internal/domain"
)

// RunLog is one row of the pipeline run log.
type RunLog struct {
	RunID     string
	Timestamp string
	Platform  string
	City      string
	Scraped   int
	NewAdded  int
	DupExact  int
	DupHash   int
	DupFuzzy  int
	Status    string
}

// EventStore is the persistence collaborator for the ingestion pipeline and
// the read-side API.
type EventStore interface {
	// EnsureSheets creates missing worksheets and repairs their headers.
	EnsureSheets(ctx context.Context) error

	// LoadExisting materializes the dedup index seed from the persisted
	// record set: known source ids, known content hashes, and the
	// lightweight tuples the fuzzy layer scans.
	LoadExisting(ctx context.Context) (*dedup.Index, error)

	// LoadAll returns every stored event record.
	LoadAll(ctx context.Context) ([]domain.Event, error)

	// AppendEvents appends the accepted batch in one bulk write; it never
	// writes partial rows.
	AppendEvents(ctx context.Context, events []domain.Event) error

	// ReplaceStats atomically swaps the aggregate stats for fresh ones.
	ReplaceStats(ctx context.Context, metrics []analytics.Metric) error

	// LoadStats returns the persisted aggregate stats as metric -> value.
	LoadStats(ctx context.Context) (map[string]string, error)

	// AppendRunLog records one pipeline run outcome.
	AppendRunLog(ctx context.Context, entry RunLog) error
}
