package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/Rajsingh66/event-scraper/internal/domain"
)

const (
	meetupPlatform   = "meetup"
	meetupGraphQLURL = "https://www.meetup.com/gql"
	meetupRadiusKM   = 50
)

const meetupEventsQuery = `
query searchEvents($query: String!, $lat: Float!, $lon: Float!, $radius: Float) {
  results: searchEvents(
    input: { query: $query, lat: $lat, lon: $lon, radius: $radius }
    filter: { upcoming: true }
  ) {
    count
    edges {
      node {
        id
        title
        dateTime
        endTime
        description
        eventUrl
        venue { city country }
        group { name }
        going
        feeSettings { amount currency }
        images { baseUrl }
      }
    }
  }
}`

// cityCoords drives Meetup's geo-based search for the covered cities.
var cityCoords = map[string][2]float64{
	"Mumbai":    {19.0760, 72.8777},
	"Delhi":     {28.6139, 77.2090},
	"Bangalore": {12.9716, 77.5946},
	"Hyderabad": {17.3850, 78.4867},
	"Chennai":   {13.0827, 80.2707},
	"Pune":      {18.5204, 73.8567},
	"Kolkata":   {22.5726, 88.3639},
	"Ahmedabad": {23.0225, 72.5714},
}

// Meetup scrapes Meetup's public GraphQL endpoint.
type Meetup struct {
	client   *http.Client
	fallback FallbackStrategy
	log      *zap.Logger
	baseURL  string
}

// NewMeetup creates the Meetup adapter.
func NewMeetup(opts Options) *Meetup {
	return &Meetup{
		client:   opts.httpClient(),
		fallback: opts.Fallback,
		log:      opts.logger(),
		baseURL:  meetupGraphQLURL,
	}
}

// Platform returns the platform identifier.
func (s *Meetup) Platform() string { return meetupPlatform }

type meetupResponse struct {
	Data struct {
		Results struct {
			Count int `json:"count"`
			Edges []struct {
				Node meetupNode `json:"node"`
			} `json:"edges"`
		} `json:"results"`
	} `json:"data"`
}

type meetupNode struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	DateTime    string `json:"dateTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description"`
	EventURL    string `json:"eventUrl"`
	Going       int    `json:"going"`
	Venue       struct {
		City    string `json:"city"`
		Country string `json:"country"`
	} `json:"venue"`
	Group struct {
		Name string `json:"name"`
	} `json:"group"`
	FeeSettings *struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	} `json:"feeSettings"`
	Images []struct {
		BaseURL string `json:"baseUrl"`
	} `json:"images"`
}

// FetchEvents queries upcoming events around the city's coordinates. Cities
// without known coordinates yield nothing rather than guessing a location.
func (s *Meetup) FetchEvents(ctx context.Context, city, category string) ([]domain.Event, error) {
	coords, ok := cityCoords[city]
	if !ok {
		s.log.Warn("Meetup has no coordinates for city", zap.String("city", city))
		return nil, nil
	}

	query := category
	if query == "" {
		query = "events"
	}

	events, err := s.fetchGraphQL(ctx, query, coords, city, category)
	if err != nil {
		if s.fallback == FallbackDemo {
			s.log.Warn("Meetup fetch failed, serving demo events",
				zap.String("city", city), zap.Error(err))
			return demoEvents(meetupPlatform, city, category), nil
		}
		return nil, err
	}

	s.log.Info("Meetup fetch complete",
		zap.String("city", city), zap.Int("events", len(events)))
	return events, nil
}

func (s *Meetup) fetchGraphQL(ctx context.Context, query string, coords [2]float64, city, category string) ([]domain.Event, error) {
	body, err := json.Marshal(map[string]interface{}{
		"query": meetupEventsQuery,
		"variables": map[string]interface{}{
			"query":  query,
			"lat":    coords[0],
			"lon":    coords[1],
			"radius": meetupRadiusKM,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header = browserHeaders()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("meetup graphql request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("meetup graphql returned %d", resp.StatusCode)
	}

	var payload meetupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("meetup graphql decode: %w", err)
	}

	events := make([]domain.Event, 0, len(payload.Data.Results.Edges))
	for _, edge := range payload.Data.Results.Edges {
		if e, ok := s.parseNode(edge.Node, city, category); ok {
			events = append(events, e)
		}
	}

	politeDelay(ctx)
	return events, nil
}

func (s *Meetup) parseNode(node meetupNode, city, category string) (domain.Event, bool) {
	if node.Title == "" {
		return domain.Event{}, false
	}

	price := "Free"
	isFree := true
	if node.FeeSettings != nil && node.FeeSettings.Amount > 0 {
		currency := node.FeeSettings.Currency
		if currency == "" {
			currency = "INR"
		}
		price = fmt.Sprintf("%s %.0f", currency, node.FeeSettings.Amount)
		isFree = false
	}

	eventCity := node.Venue.City
	if eventCity == "" {
		eventCity = city
	}

	var imageURL string
	if len(node.Images) > 0 {
		imageURL = node.Images[0].BaseURL
	}

	e := domain.Event{
		Title:         node.Title,
		Description:   node.Description,
		StartDate:     truncateDate(node.DateTime),
		EndDate:       truncateDate(node.EndTime),
		City:          eventCity,
		Country:       node.Venue.Country,
		SourceID:      node.ID,
		URL:           node.EventURL,
		Category:      category,
		Price:         price,
		IsFree:        isFree,
		Organizer:     node.Group.Name,
		AttendeeCount: domain.FormatAttendees(node.Going),
		ImageURL:      imageURL,
	}
	fillDefaults(&e, meetupPlatform)
	return e, true
}
