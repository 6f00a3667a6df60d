package domain

import "strconv"

// Event is one event listing normalized to the common record shape that every
// platform scraper produces and the sheet stores.
type Event struct {
	ContentHash   string `json:"content_hash"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	City          string `json:"city"`
	Country       string `json:"country"`
	Platform      string `json:"platform"`
	SourceID      string `json:"source_id"`
	URL           string `json:"url"`
	Category      string `json:"category"`
	Price         string `json:"price"`
	IsFree        bool   `json:"is_free"`
	Organizer     string `json:"organizer"`
	AttendeeCount string `json:"attendee_count"`
	ImageURL      string `json:"image_url"`
	ScrapedAt     string `json:"scraped_at"`
	IsActive      bool   `json:"is_active"`
}

// maxDescriptionLen caps stored descriptions so a single listing cannot blow
// up the sheet row.
const maxDescriptionLen = 500

// EventHeaders is the fixed column order of the events worksheet. Row and
// FromRow must stay in sync with it.
var EventHeaders = []string{
	"content_hash", "title", "start_date", "end_date", "city",
	"country", "platform", "source_id", "url", "category",
	"price", "is_free", "organizer", "description",
	"attendee_count", "image_url", "scraped_at", "is_active",
}

// Row converts the event into a sheet row in EventHeaders order. Booleans are
// written as "TRUE"/"FALSE" cell text.
func (e Event) Row() []interface{} {
	description := e.Description
	if len(description) > maxDescriptionLen {
		description = description[:maxDescriptionLen]
	}

	return []interface{}{
		e.ContentHash,
		e.Title,
		e.StartDate,
		e.EndDate,
		e.City,
		e.Country,
		e.Platform,
		e.SourceID,
		e.URL,
		e.Category,
		e.Price,
		boolCell(e.IsFree),
		e.Organizer,
		description,
		e.AttendeeCount,
		e.ImageURL,
		e.ScrapedAt,
		boolCell(e.IsActive),
	}
}

// FromRow rebuilds an event from a sheet row. Short rows are padded with
// empty cells so partially-filled rows never panic.
func FromRow(row []string) Event {
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	return Event{
		ContentHash:   cell(0),
		Title:         cell(1),
		StartDate:     cell(2),
		EndDate:       cell(3),
		City:          cell(4),
		Country:       cell(5),
		Platform:      cell(6),
		SourceID:      cell(7),
		URL:           cell(8),
		Category:      cell(9),
		Price:         cell(10),
		IsFree:        cell(11) == "TRUE",
		Organizer:     cell(12),
		Description:   cell(13),
		AttendeeCount: cell(14),
		ImageURL:      cell(15),
		ScrapedAt:     cell(16),
		IsActive:      cell(17) == "TRUE",
	}
}

func boolCell(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// FormatAttendees renders an attendee count for the sheet; zero means unknown
// and stays empty like the upstream platforms report it.
func FormatAttendees(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}
