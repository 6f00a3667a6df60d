package dedup

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/Rajsingh66/event-scraper/internal/domain"
)

// DefaultFuzzyThreshold is the minimum token-sort similarity (0-100) at which
// two titles on the same date and city count as the same event.
const DefaultFuzzyThreshold = 85

// Reason says which layer rejected a candidate as a duplicate.
type Reason string

const (
	ReasonExactSourceID Reason = "exact_source_id"
	ReasonContentHash   Reason = "content_hash"
	ReasonFuzzyMatch    Reason = "fuzzy_match"
)

// Outcome is the match engine's decision for one candidate.
type Outcome struct {
	Duplicate  bool
	Reason     Reason
	Similarity int // 0-100, set only for fuzzy matches
}

// IndexEntry is the lightweight tuple kept per stored event for the fuzzy
// layer.
type IndexEntry struct {
	Title     string
	StartDate string
	City      string
}

// Index is the in-memory identity snapshot for one pipeline run. The
// orchestrator owns it exclusively for the run's duration: it is seeded from
// the store once, folded into as candidates are accepted, and discarded when
// the run ends.
type Index struct {
	SourceIDs map[string]struct{}
	Hashes    map[string]struct{}
	Events    []IndexEntry
	Total     int
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		SourceIDs: make(map[string]struct{}),
		Hashes:    make(map[string]struct{}),
	}
}

// Add folds an accepted event into the index so later candidates in the same
// run are matched against it too.
func (ix *Index) Add(e domain.Event, contentHash string) {
	if id := strings.TrimSpace(e.SourceID); id != "" {
		ix.SourceIDs[id] = struct{}{}
	}
	ix.Hashes[contentHash] = struct{}{}
	ix.Events = append(ix.Events, IndexEntry{
		Title:     e.Title,
		StartDate: e.StartDate,
		City:      e.City,
	})
}

// Matcher runs the duplicate decision procedure. It is stateless apart from
// the configured fuzzy threshold; Classify never mutates the index.
type Matcher struct {
	threshold int
}

// NewMatcher creates a matcher with the given fuzzy threshold. Values outside
// 0-100 fall back to the default.
func NewMatcher(fuzzyThreshold int) *Matcher {
	if fuzzyThreshold < 0 || fuzzyThreshold > 100 {
		fuzzyThreshold = DefaultFuzzyThreshold
	}
	return &Matcher{threshold: fuzzyThreshold}
}

// Classify decides whether the candidate already exists in the index. Layers
// run in fixed priority order and the first hit wins:
//
//  1. exact source id — a re-scraped listing must never store a second row
//  2. content hash — the same event listed on a different platform
//  3. fuzzy title — near-duplicate titles on the same date and city
//
// The fuzzy layer only compares entries whose normalized date and city both
// match and are non-empty; events with an unknown date are never fuzzy-
// matchable. The first entry at or over the threshold wins, in index
// iteration order, rather than the global maximum — so with several
// near-threshold entries the outcome depends on insertion order.
func (m *Matcher) Classify(e domain.Event, ix *Index) Outcome {
	if id := strings.TrimSpace(e.SourceID); id != "" {
		if _, ok := ix.SourceIDs[id]; ok {
			return Outcome{Duplicate: true, Reason: ReasonExactSourceID}
		}
	}

	if _, ok := ix.Hashes[Fingerprint(e.Title, e.StartDate, e.City)]; ok {
		return Outcome{Duplicate: true, Reason: ReasonContentHash}
	}

	title := NormalizeText(e.Title)
	date := NormalizeDate(e.StartDate)
	city := NormalizeText(e.City)

	if date != "" && city != "" {
		for _, known := range ix.Events {
			if NormalizeDate(known.StartDate) != date || NormalizeText(known.City) != city {
				continue
			}
			score := fuzzy.TokenSortRatio(title, NormalizeText(known.Title))
			if score >= m.threshold {
				return Outcome{Duplicate: true, Reason: ReasonFuzzyMatch, Similarity: score}
			}
		}
	}

	return Outcome{}
}

// Threshold reports the configured fuzzy threshold.
func (m *Matcher) Threshold() int {
	return m.threshold
}
