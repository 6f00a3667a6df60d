package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/Rajsingh66/event-scraper/internal/domain"
)

const (
	eventbritePlatform  = "eventbrite"
	eventbriteSearchURL = "https://www.eventbrite.com/api/v3/destination/search/"
	eventbritePageSize  = 50
)

// Eventbrite scrapes Eventbrite's public destination-search endpoint, which
// returns structured JSON without an API key. When that endpoint refuses the
// request it falls back to JSON-LD embedded in the search results page.
type Eventbrite struct {
	client   *http.Client
	fallback FallbackStrategy
	log      *zap.Logger
	baseURL  string
	pagesURL string
}

// NewEventbrite creates the Eventbrite adapter.
func NewEventbrite(opts Options) *Eventbrite {
	return &Eventbrite{
		client:   opts.httpClient(),
		fallback: opts.Fallback,
		log:      opts.logger(),
		baseURL:  eventbriteSearchURL,
		pagesURL: "https://www.eventbrite.com",
	}
}

// Platform returns the platform identifier.
func (s *Eventbrite) Platform() string { return eventbritePlatform }

type ebResponse struct {
	Events struct {
		Results []ebEvent `json:"results"`
	} `json:"events"`
}

type ebEvent struct {
	ID                 string          `json:"id"`
	Name               json.RawMessage `json:"name"`
	Description        json.RawMessage `json:"description"`
	URL                string          `json:"url"`
	StartDate          string          `json:"start_date"`
	EndDate            string          `json:"end_date"`
	IsFree             bool            `json:"is_free"`
	Capacity           int             `json:"capacity"`
	TicketAvailability struct {
		MinimumTicketPrice struct {
			MajorValue string `json:"major_value"`
			Currency   string `json:"currency"`
		} `json:"minimum_ticket_price"`
	} `json:"ticket_availability"`
	PrimaryVenue struct {
		Address struct {
			City    string `json:"city"`
			Country string `json:"country"`
		} `json:"address"`
	} `json:"primary_venue"`
	Organizer struct {
		Name string `json:"name"`
	} `json:"organizer"`
	Category struct {
		Name string `json:"name"`
	} `json:"category"`
	Logo struct {
		URL string `json:"url"`
	} `json:"logo"`
}

// FetchEvents fetches events for a city, falling back to the search-page
// JSON-LD and then the demo strategy.
func (s *Eventbrite) FetchEvents(ctx context.Context, city, category string) ([]domain.Event, error) {
	events, err := s.fetchSearchAPI(ctx, city, category)
	if err != nil {
		s.log.Warn("Eventbrite search API failed, trying search page",
			zap.String("city", city), zap.Error(err))
		events, err = s.fetchSearchPage(ctx, city)
	}
	if err != nil {
		if s.fallback == FallbackDemo {
			s.log.Warn("Eventbrite fetch failed, serving demo events",
				zap.String("city", city), zap.Error(err))
			return demoEvents(eventbritePlatform, city, category), nil
		}
		return nil, err
	}

	s.log.Info("Eventbrite fetch complete",
		zap.String("city", city), zap.Int("events", len(events)))
	return events, nil
}

func (s *Eventbrite) fetchSearchAPI(ctx context.Context, city, category string) ([]domain.Event, error) {
	params := url.Values{}
	params.Set("destination", city)
	params.Set("page_size", fmt.Sprint(eventbritePageSize))
	params.Set("expand", "event.organizer,event.venue")
	if category != "" {
		params.Set("tags", category)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header = browserHeaders()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", "https://www.eventbrite.com/")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("eventbrite search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("eventbrite search returned %d", resp.StatusCode)
	}

	var payload ebResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("eventbrite search decode: %w", err)
	}

	events := make([]domain.Event, 0, len(payload.Events.Results))
	for _, raw := range payload.Events.Results {
		if e, ok := s.parseSearchResult(raw, city); ok {
			events = append(events, e)
		}
	}

	politeDelay(ctx)
	return events, nil
}

func (s *Eventbrite) parseSearchResult(raw ebEvent, city string) (domain.Event, bool) {
	title := textOrObject(raw.Name)
	if title == "" {
		return domain.Event{}, false
	}

	price := "Free"
	if !raw.IsFree {
		min := raw.TicketAvailability.MinimumTicketPrice
		switch {
		case min.MajorValue != "" && min.Currency != "":
			price = min.Currency + " " + min.MajorValue
		case min.MajorValue != "":
			price = "INR " + min.MajorValue
		default:
			price = "Paid"
		}
	}

	eventCity := raw.PrimaryVenue.Address.City
	if eventCity == "" {
		eventCity = city
	}

	e := domain.Event{
		Title:         title,
		Description:   textOrObject(raw.Description),
		StartDate:     truncateDate(raw.StartDate),
		EndDate:       truncateDate(raw.EndDate),
		City:          eventCity,
		Country:       raw.PrimaryVenue.Address.Country,
		SourceID:      raw.ID,
		URL:           raw.URL,
		Category:      raw.Category.Name,
		Price:         price,
		IsFree:        raw.IsFree,
		Organizer:     raw.Organizer.Name,
		AttendeeCount: domain.FormatAttendees(raw.Capacity),
		ImageURL:      raw.Logo.URL,
	}
	fillDefaults(&e, eventbritePlatform)
	return e, true
}

// fetchSearchPage scrapes the public search results page for JSON-LD events.
func (s *Eventbrite) fetchSearchPage(ctx context.Context, city string) ([]domain.Event, error) {
	slug := strings.ReplaceAll(strings.ToLower(city), " ", "-")
	pageURL := fmt.Sprintf("%s/d/%s--india/events/", s.pagesURL, slug)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header = browserHeaders()

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("eventbrite search page request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("eventbrite search page returned %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("eventbrite search page parse: %w", err)
	}

	var events []domain.Event
	for _, ld := range extractJSONLD(doc) {
		if ld.Name == "" {
			continue
		}

		addr := ld.address()
		eventCity := addr.Locality
		if eventCity == "" {
			eventCity = city
		}

		sourceID := lastPathSegment(ld.eventURL())
		if sourceID == "" {
			sourceID = ld.Name
		}

		price, isFree := ld.price()
		e := domain.Event{
			Title:       ld.Name,
			Description: ld.Description,
			StartDate:   truncateDate(ld.StartDate),
			EndDate:     truncateDate(ld.EndDate),
			City:        eventCity,
			Country:     addr.Country,
			SourceID:    sourceID,
			URL:         ld.eventURL(),
			Price:       price,
			IsFree:      isFree,
			Organizer:   ld.organizerName(),
			ImageURL:    ld.imageURL(),
		}
		fillDefaults(&e, eventbritePlatform)
		events = append(events, e)
	}

	return events, nil
}

// textOrObject decodes fields Eventbrite serves either as a plain string or
// as a {"text": ...} object.
func textOrObject(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Text
	}
	return ""
}

func truncateDate(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
