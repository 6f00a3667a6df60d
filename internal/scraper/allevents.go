package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/Rajsingh66/event-scraper/internal/domain"
)

const (
	alleventsPlatform = "allevents"
	alleventsBaseURL  = "https://allevents.in"
	alleventsMaxCards = 20
)

var alleventsCitySlugs = map[string]string{
	"Mumbai":    "mumbai",
	"Delhi":     "delhi",
	"Bangalore": "bangalore",
	"Hyderabad": "hyderabad",
	"Chennai":   "chennai",
	"Pune":      "pune",
	"Kolkata":   "kolkata",
	"Ahmedabad": "ahmedabad",
}

var alleventsCategorySlugs = map[string]string{
	"technology": "tech",
	"music":      "music",
	"business":   "professional",
	"arts":       "arts",
	"food":       "food",
	"sports":     "sports",
	"":           "popular",
}

// Allevents scrapes allevents.in city pages, which embed structured event
// data as JSON-LD; when a page carries none it falls back to parsing the
// HTML event cards.
type Allevents struct {
	client   *http.Client
	fallback FallbackStrategy
	log      *zap.Logger
	baseURL  string
}

// NewAllevents creates the allevents.in adapter.
func NewAllevents(opts Options) *Allevents {
	return &Allevents{
		client:   opts.httpClient(),
		fallback: opts.Fallback,
		log:      opts.logger(),
		baseURL:  alleventsBaseURL,
	}
}

// Platform returns the platform identifier.
func (s *Allevents) Platform() string { return alleventsPlatform }

// FetchEvents scrapes the city/category listing page.
func (s *Allevents) FetchEvents(ctx context.Context, city, category string) ([]domain.Event, error) {
	events, err := s.fetchListingPage(ctx, city, category)
	if err != nil {
		if s.fallback == FallbackDemo {
			s.log.Warn("Allevents fetch failed, serving demo events",
				zap.String("city", city), zap.Error(err))
			return demoEvents(alleventsPlatform, city, category), nil
		}
		return nil, err
	}

	s.log.Info("Allevents fetch complete",
		zap.String("city", city), zap.Int("events", len(events)))
	return events, nil
}

func (s *Allevents) fetchListingPage(ctx context.Context, city, category string) ([]domain.Event, error) {
	citySlug, ok := alleventsCitySlugs[city]
	if !ok {
		citySlug = strings.ToLower(city)
	}
	catSlug, ok := alleventsCategorySlugs[strings.ToLower(category)]
	if !ok {
		catSlug = "popular"
	}

	pageURL := fmt.Sprintf("%s/%s/%s/", s.baseURL, citySlug, catSlug)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header = browserHeaders()
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("allevents request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("allevents returned %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("allevents parse: %w", err)
	}

	events := s.parseJSONLD(doc, city)
	if len(events) == 0 {
		events = s.parseHTMLCards(doc, city, category)
	}

	politeDelay(ctx)
	return events, nil
}

func (s *Allevents) parseJSONLD(doc *goquery.Document, city string) []domain.Event {
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
			if len(sourceID) > 30 {
				sourceID = sourceID[:30]
			}
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
			Category:    ld.EventType,
			Price:       price,
			IsFree:      isFree,
			Organizer:   ld.organizerName(),
			ImageURL:    ld.imageURL(),
		}
		fillDefaults(&e, alleventsPlatform)
		events = append(events, e)
	}
	return events
}

// parseHTMLCards is the fallback parser for pages without JSON-LD.
func (s *Allevents) parseHTMLCards(doc *goquery.Document, city, category string) []domain.Event {
	var events []domain.Event

	cards := doc.Find(`li[class*="event-item"], div[class*="event-card"], div[class*="event-tile"]`)
	cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
		if i >= alleventsMaxCards {
			return false
		}

		title := strings.TrimSpace(card.Find(`[class*="title"], [class*="name"]`).First().Text())
		if title == "" {
			return true
		}

		var eventURL string
		if href, ok := card.Find("a[href]").First().Attr("href"); ok {
			if strings.HasPrefix(href, "http") {
				eventURL = href
			} else {
				eventURL = s.baseURL + href
			}
		}

		dateText := strings.TrimSpace(card.Find(`[class*="date"], [class*="time"], [class*="when"]`).First().Text())

		sourceID := lastPathSegment(eventURL)
		if sourceID == "" {
			sourceID = title
			if len(sourceID) > 20 {
				sourceID = sourceID[:20]
			}
		}

		e := domain.Event{
			Title:     title,
			StartDate: truncateDate(dateText),
			City:      city,
			SourceID:  sourceID,
			URL:       eventURL,
			Category:  category,
		}
		if e.Category == "" {
			e.Category = "Events"
		}
		fillDefaults(&e, alleventsPlatform)
		events = append(events, e)
		return true
	})

	return events
}
