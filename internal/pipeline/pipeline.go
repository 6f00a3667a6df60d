// Package pipeline orchestrates one ingestion run: fan-out scraping,
// sequential duplicate classification against a shared index, one bulk write
// of the accepted batch, and a stats refresh.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Rajsingh66/event-scraper/internal/analytics"
	"github.com/Rajsingh66/event-scraper/internal/dedup"
	"github.com/Rajsingh66/event-scraper/internal/domain"
	"github.com/Rajsingh66/event-scraper/internal/scraper"
	"github.com/Rajsingh66/event-scraper/internal/store"
)

// Counts tallies the classification outcomes of one run.
type Counts struct {
	New      int
	DupExact int
	DupHash  int
	DupFuzzy int
	Errors   int
}

// Summary is the outcome of one pipeline run.
type Summary struct {
	RunID    string  `json:"run_id"`
	Scraped  int     `json:"scraped"`
	New      int     `json:"new"`
	DupExact int     `json:"dup_exact"`
	DupHash  int     `json:"dup_hash"`
	DupFuzzy int     `json:"dup_fuzzy"`
	Errors   int     `json:"errors"`
	Total    int     `json:"total"`
	DupRate  float64 `json:"dup_rate"`
}

// Pipeline wires the scrapers, the match engine, and the store into the
// ingestion run.
type Pipeline struct {
	scrapers    []scraper.Scraper
	store       store.EventStore
	matcher     *dedup.Matcher
	cities      []string
	categories  []string
	concurrency int
	log         *zap.Logger
}

// Config holds the run parameters for a pipeline.
type Config struct {
	Scrapers    []scraper.Scraper
	Store       store.EventStore
	Matcher     *dedup.Matcher
	Cities      []string
	Categories  []string
	Concurrency int
}

const defaultConcurrency = 5

// New creates a pipeline. Zero or negative concurrency falls back to the
// default limit; an empty category list means one uncategorized fetch per
// platform and city.
func New(cfg Config, log *zap.Logger) *Pipeline {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = []string{""}
	}
	return &Pipeline{
		scrapers:    cfg.Scrapers,
		store:       cfg.Store,
		matcher:     cfg.Matcher,
		cities:      cfg.Cities,
		categories:  cfg.Categories,
		concurrency: cfg.Concurrency,
		log:         log,
	}
}

// Run executes one full ingestion cycle. Scrape failures are isolated to
// their platform/city slot; a failed store read or write aborts the run.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	runID := uuid.NewString()[:8]
	started := time.Now().UTC()
	log := p.log.With(zap.String("run_id", runID))

	log.Info("Pipeline run starting",
		zap.Int("scrapers", len(p.scrapers)),
		zap.Strings("cities", p.cities))

	candidates := p.scrapeAll(ctx, log)

	index, err := p.store.LoadExisting(ctx)
	if err != nil {
		p.logRun(ctx, runID, started, len(candidates), Counts{}, "error")
		return Summary{RunID: runID}, fmt.Errorf("load existing events: %w", err)
	}

	scrapedAt := started.Format(time.RFC3339)
	accepted, counts := Dedupe(p.matcher, candidates, index, scrapedAt, log)

	if len(accepted) > 0 {
		if err := p.store.AppendEvents(ctx, accepted); err != nil {
			p.logRun(ctx, runID, started, len(candidates), counts, "error")
			return Summary{RunID: runID}, fmt.Errorf("append events: %w", err)
		}
	}

	p.refreshStats(ctx, log, started)
	p.logRun(ctx, runID, started, len(candidates), counts, "success")

	summary := Summary{
		RunID:    runID,
		Scraped:  len(candidates),
		New:      counts.New,
		DupExact: counts.DupExact,
		DupHash:  counts.DupHash,
		DupFuzzy: counts.DupFuzzy,
		Errors:   counts.Errors,
		Total:    index.Total + counts.New,
	}
	if summary.Scraped > 0 {
		dups := counts.DupExact + counts.DupHash + counts.DupFuzzy
		summary.DupRate = float64(dups) * 100 / float64(summary.Scraped)
	}

	log.Info("Pipeline run finished",
		zap.Int("scraped", summary.Scraped),
		zap.Int("new", summary.New),
		zap.Int("dup_exact", summary.DupExact),
		zap.Int("dup_hash", summary.DupHash),
		zap.Int("dup_fuzzy", summary.DupFuzzy),
		zap.Int("errors", summary.Errors),
		zap.Float64("dup_rate", summary.DupRate),
		zap.Duration("took", time.Since(started)))
	return summary, nil
}

// scrapeAll fans out one fetch per scraper/city/category under the
// concurrency limit and flattens the results in task order, so the candidate
// sequence is deterministic for a given scrape outcome.
func (p *Pipeline) scrapeAll(ctx context.Context, log *zap.Logger) []domain.Event {
	type task struct {
		s        scraper.Scraper
		city     string
		category string
	}

	var tasks []task
	for _, s := range p.scrapers {
		for _, city := range p.cities {
			for _, category := range p.categories {
				tasks = append(tasks, task{s: s, city: city, category: category})
			}
		}
	}

	results := make([][]domain.Event, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, tk := range tasks {
		i, tk := i, tk
		g.Go(func() error {
			events, err := tk.s.FetchEvents(gctx, tk.city, tk.category)
			if err != nil {
				log.Warn("Scrape task failed",
					zap.String("platform", tk.s.Platform()),
					zap.String("city", tk.city),
					zap.String("category", tk.category),
					zap.Error(err))
				return nil
			}
			results[i] = events
			return nil
		})
	}
	_ = g.Wait() // tasks never return errors, failures are logged per slot

	var flat []domain.Event
	for _, r := range results {
		flat = append(flat, r...)
	}
	return flat
}

// Dedupe classifies candidates sequentially against the index, folding each
// accepted event back in so duplicates within the same batch are caught.
// Candidates with no usable identity at all are counted as errors and
// skipped.
func Dedupe(m *dedup.Matcher, candidates []domain.Event, ix *dedup.Index, scrapedAt string, log *zap.Logger) ([]domain.Event, Counts) {
	var accepted []domain.Event
	var counts Counts

	for _, c := range candidates {
		if c.Title == "" && c.SourceID == "" && c.StartDate == "" {
			counts.Errors++
			continue
		}

		outcome := m.Classify(c, ix)
		if outcome.Duplicate {
			switch outcome.Reason {
			case dedup.ReasonExactSourceID:
				counts.DupExact++
			case dedup.ReasonContentHash:
				counts.DupHash++
			case dedup.ReasonFuzzyMatch:
				counts.DupFuzzy++
			}
			log.Debug("Duplicate candidate skipped",
				zap.String("title", c.Title),
				zap.String("platform", c.Platform),
				zap.String("reason", string(outcome.Reason)),
				zap.Int("similarity", outcome.Similarity))
			continue
		}

		hash := dedup.Fingerprint(c.Title, c.StartDate, c.City)
		c.ContentHash = hash
		c.ScrapedAt = scrapedAt
		c.IsActive = true

		ix.Add(c, hash)
		accepted = append(accepted, c)
		counts.New++
	}

	return accepted, counts
}

// refreshStats recomputes aggregates from the full stored set. Failures are
// logged but never fail the run; the events batch is already durable.
func (p *Pipeline) refreshStats(ctx context.Context, log *zap.Logger, now time.Time) {
	events, err := p.store.LoadAll(ctx)
	if err != nil {
		log.Warn("Stats refresh skipped, could not load events", zap.Error(err))
		return
	}
	if err := p.store.ReplaceStats(ctx, analytics.ComputeStats(events, now)); err != nil {
		log.Warn("Stats refresh failed", zap.Error(err))
	}
}

func (p *Pipeline) logRun(ctx context.Context, runID string, started time.Time, scraped int, counts Counts, status string) {
	entry := store.RunLog{
		RunID:     runID,
		Timestamp: started.Format(time.RFC3339),
		Platform:  "all",
		City:      "all",
		Scraped:   scraped,
		NewAdded:  counts.New,
		DupExact:  counts.DupExact,
		DupHash:   counts.DupHash,
		DupFuzzy:  counts.DupFuzzy,
		Status:    status,
	}
	if err := p.store.AppendRunLog(ctx, entry); err != nil {
		p.log.Warn("Run log append failed", zap.String("run_id", runID), zap.Error(err))
	}
}
