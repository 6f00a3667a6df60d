package sheets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/sheets/v4"

	"github.com/Rajsingh66/event-scraper/internal/analytics"
	"github.com/Rajsingh66/event-scraper/internal/dedup"
	"github.com/Rajsingh66/event-scraper/internal/domain"
	"github.com/Rajsingh66/event-scraper/internal/store"
)

const (
	eventsSheet = "events"
	statsSheet  = "stats"
	logSheet    = "log"
)

var statsHeaders = []string{"metric", "value", "updated_at"}

var logHeaders = []string{
	"run_id", "timestamp", "platform", "city",
	"scraped", "new_added", "dup_exact", "dup_hash", "dup_fuzzy", "status",
}

// Store implements store.EventStore on a Google spreadsheet.
type Store struct {
	client *Client
	log    *zap.Logger
}

// NewStore creates a spreadsheet-backed event store.
func NewStore(client *Client, log *zap.Logger) *Store {
	return &Store{client: client, log: log}
}

// EnsureSheets creates the events/stats/log worksheets when missing and
// rewrites their header rows when they drifted.
func (s *Store) EnsureSheets(ctx context.Context) error {
	spreadsheet, err := s.client.Spreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to read spreadsheet metadata: %w", err)
	}

	existing := make(map[string]bool, len(spreadsheet.Sheets))
	for _, sh := range spreadsheet.Sheets {
		if sh.Properties != nil {
			existing[sh.Properties.Title] = true
		}
	}

	for _, ws := range []struct {
		name    string
		headers []string
	}{
		{eventsSheet, domain.EventHeaders},
		{statsSheet, statsHeaders},
		{logSheet, logHeaders},
	} {
		if !existing[ws.name] {
			if err := s.client.AddWorksheet(ctx, ws.name, int64(len(ws.headers))); err != nil {
				return err
			}
			s.log.Info("Created worksheet", zap.String("sheet", ws.name))
		}
		if err := s.writeHeaders(ctx, ws.name, ws.headers); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) writeHeaders(ctx context.Context, sheet string, headers []string) error {
	current, err := s.readRows(ctx, fmt.Sprintf("%s!1:1", sheet))
	if err != nil {
		return err
	}
	if len(current) > 0 && equalHeaders(current[0], headers) {
		return nil
	}

	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}

	_, err = s.client.Values().
		Update(s.client.SpreadsheetID(), fmt.Sprintf("%s!A1", sheet), &sheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write %s headers: %w", sheet, err)
	}
	return nil
}

// LoadExisting reads all stored events once and builds the dedup index seed.
func (s *Store) LoadExisting(ctx context.Context) (*dedup.Index, error) {
	rows, err := s.readRows(ctx, fmt.Sprintf("%s!A2:R", eventsSheet))
	if err != nil {
		return nil, fmt.Errorf("failed to load existing events: %w", err)
	}

	ix := dedup.NewIndex()
	for _, row := range rows {
		e := domain.FromRow(row)
		if id := strings.TrimSpace(e.SourceID); id != "" {
			ix.SourceIDs[id] = struct{}{}
		}
		if e.ContentHash != "" {
			ix.Hashes[e.ContentHash] = struct{}{}
		}
		ix.Events = append(ix.Events, dedup.IndexEntry{
			Title:     e.Title,
			StartDate: e.StartDate,
			City:      e.City,
		})
	}
	ix.Total = len(rows)

	s.log.Info("Loaded existing events from sheet", zap.Int("count", ix.Total))
	return ix, nil
}

// LoadAll returns every stored event record.
func (s *Store) LoadAll(ctx context.Context) ([]domain.Event, error) {
	rows, err := s.readRows(ctx, fmt.Sprintf("%s!A2:R", eventsSheet))
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	events := make([]domain.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, domain.FromRow(row))
	}
	return events, nil
}

// AppendEvents bulk-appends the accepted batch in a single API call.
func (s *Store) AppendEvents(ctx context.Context, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	values := make([][]interface{}, 0, len(events))
	for _, e := range events {
		values = append(values, e.Row())
	}

	_, err := s.client.Values().
		Append(s.client.SpreadsheetID(), fmt.Sprintf("%s!A1", eventsSheet), &sheets.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append events: %w", err)
	}

	s.log.Info("Appended new events to sheet", zap.Int("count", len(events)))
	return nil
}

// ReplaceStats clears the stats worksheet below the header and writes the
// fresh metric rows in one append.
func (s *Store) ReplaceStats(ctx context.Context, metrics []analytics.Metric) error {
	_, err := s.client.Values().
		Clear(s.client.SpreadsheetID(), fmt.Sprintf("%s!A2:C", statsSheet), &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to clear stats sheet: %w", err)
	}

	if len(metrics) == 0 {
		return nil
	}

	var updatedAt string
	for _, m := range metrics {
		if m.Name == "last_updated" {
			updatedAt = m.Value
		}
	}

	values := make([][]interface{}, 0, len(metrics))
	for _, m := range metrics {
		values = append(values, []interface{}{m.Name, m.Value, updatedAt})
	}

	_, err = s.client.Values().
		Append(s.client.SpreadsheetID(), fmt.Sprintf("%s!A2", statsSheet), &sheets.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write stats: %w", err)
	}

	s.log.Info("Updated stats sheet", zap.Int("metrics", len(metrics)))
	return nil
}

// LoadStats reads the persisted stats as a metric -> value map.
func (s *Store) LoadStats(ctx context.Context) (map[string]string, error) {
	rows, err := s.readRows(ctx, fmt.Sprintf("%s!A2:C", statsSheet))
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	stats := make(map[string]string, len(rows))
	for _, row := range rows {
		if len(row) >= 2 && row[0] != "" {
			stats[row[0]] = row[1]
		}
	}
	return stats, nil
}

// AppendRunLog records one pipeline run outcome in the log worksheet.
func (s *Store) AppendRunLog(ctx context.Context, entry store.RunLog) error {
	row := []interface{}{
		entry.RunID,
		entry.Timestamp,
		entry.Platform,
		entry.City,
		entry.Scraped,
		entry.NewAdded,
		entry.DupExact,
		entry.DupHash,
		entry.DupFuzzy,
		entry.Status,
	}

	_, err := s.client.Values().
		Append(s.client.SpreadsheetID(), fmt.Sprintf("%s!A1", logSheet), &sheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append run log: %w", err)
	}
	return nil
}

// readRows fetches a range and converts every cell to its string form.
func (s *Store) readRows(ctx context.Context, readRange string) ([][]string, error) {
	resp, err := s.client.Values().
		Get(s.client.SpreadsheetID(), readRange).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprintf("%v", cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func equalHeaders(got []string, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
