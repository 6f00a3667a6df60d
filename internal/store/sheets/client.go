// Package sheets implements the event store on a Google spreadsheet: one
// worksheet for event rows, one for aggregate stats, one for the run log.
package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Rajsingh66/event-scraper/internal/config"
)

// Client wraps the Sheets API connection for one spreadsheet.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
	log           *zap.Logger
}

// NewClient creates a Sheets API client. Credentials come from the
// GOOGLE_CREDENTIALS_JSON env blob when set, otherwise from the service
// account key file on disk.
func NewClient(ctx context.Context, cfg config.Sheets, log *zap.Logger) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}

	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if cfg.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	} else {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	log.Info("Sheets client created", zap.String("spreadsheet_id", cfg.SpreadsheetID))

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		log:           log,
	}, nil
}

// Values returns the spreadsheet values service.
func (c *Client) Values() *sheets.SpreadsheetsValuesService {
	return c.svc.Spreadsheets.Values
}

// SpreadsheetID returns the configured spreadsheet id.
func (c *Client) SpreadsheetID() string {
	return c.spreadsheetID
}

// Spreadsheet fetches the spreadsheet metadata (worksheet list).
func (c *Client) Spreadsheet(ctx context.Context) (*sheets.Spreadsheet, error) {
	return c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
}

// AddWorksheet creates a new worksheet with the given title.
func (c *Client) AddWorksheet(ctx context.Context, title string, cols int64) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: title,
					GridProperties: &sheets.GridProperties{
						RowCount:    10000,
						ColumnCount: cols,
					},
				},
			},
		}},
	}

	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to add worksheet %q: %w", title, err)
	}
	return nil
}
